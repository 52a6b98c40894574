package mail

import (
	"context"
	"time"

	"market/constants"
	"market/models"
)

// Notifier turns marketplace events into queued mails.
type Notifier struct {
	queue Queue
}

func NewNotifier(queue Queue) *Notifier {
	return &Notifier{queue: queue}
}

func (n *Notifier) InterestConfirmed(ctx context.Context, customer models.User, d models.Discount) error {
	return n.queue.Enqueue(ctx, Message{
		To:       customer.Email,
		Subject:  "Your interest in " + d.Name + " is registered",
		Template: TemplateInterestConfirmation,
		Data: map[string]any{
			"Name":           customer.Name,
			"Discount":       d.Name,
			"Percentage":     d.Percentage,
			"Service":        serviceName(d),
			"Current":        d.CurrentInterestCount,
			"Required":       d.RequiredInterestCount,
			"InterestToDate": d.InterestToDate.Format(constants.DateLayout),
		},
	})
}

func (n *Notifier) GoalReachedCustomer(ctx context.Context, customer models.User, d models.Discount, code string) error {
	return n.queue.Enqueue(ctx, Message{
		To:       customer.Email,
		Subject:  d.Name + " is unlocked, here is your promo code",
		Template: TemplateGoalReachedCustomer,
		Data: map[string]any{
			"Name":              customer.Name,
			"Discount":          d.Name,
			"Code":              code,
			"Percentage":        d.Percentage,
			"Service":           serviceName(d),
			"DiscountStartDate": d.DiscountStartDate.Format(constants.DateLayout),
			"DiscountEndDate":   d.DiscountEndDate.Format(constants.DateLayout),
		},
	})
}

func (n *Notifier) GoalReachedProvider(ctx context.Context, provider models.User, d models.Discount, interested int) error {
	return n.queue.Enqueue(ctx, Message{
		To:       provider.Email,
		Subject:  "Your discount " + d.Name + " reached its goal",
		Template: TemplateGoalReachedProvider,
		Data: map[string]any{
			"Name":              provider.Name,
			"Discount":          d.Name,
			"Service":           serviceName(d),
			"Interested":        interested,
			"DiscountStartDate": d.DiscountStartDate.Format(constants.DateLayout),
			"DiscountEndDate":   d.DiscountEndDate.Format(constants.DateLayout),
		},
	})
}

func (n *Notifier) DiscountCancelled(ctx context.Context, customer models.User, d models.Discount) error {
	return n.queue.Enqueue(ctx, Message{
		To:       customer.Email,
		Subject:  d.Name + " was cancelled",
		Template: TemplateDiscountCancelled,
		Data: map[string]any{
			"Name":     customer.Name,
			"Discount": d.Name,
			"Service":  serviceName(d),
			"Required": d.RequiredInterestCount,
		},
	})
}

func (n *Notifier) BookingApproved(ctx context.Context, customer models.User, service string, date time.Time, slot string) error {
	return n.queue.Enqueue(ctx, slotMessage(customer, "Your booking for "+service+" is approved", TemplateBookingApproved, service, date, slot))
}

func (n *Notifier) SlotSuggested(ctx context.Context, customer models.User, service string, date time.Time, slot string) error {
	return n.queue.Enqueue(ctx, slotMessage(customer, "A new slot was suggested for "+service, TemplateSlotSuggested, service, date, slot))
}

func slotMessage(customer models.User, subject, tmpl, service string, date time.Time, slot string) Message {
	return Message{
		To:       customer.Email,
		Subject:  subject,
		Template: tmpl,
		Data: map[string]any{
			"Name":    customer.Name,
			"Service": service,
			"Date":    date.Format(constants.DateLayout),
			"Time":    slot,
		},
	}
}

func serviceName(d models.Discount) string {
	if d.Service != nil {
		return d.Service.Name
	}
	return "the service"
}
