package services

import (
	"context"
	"strings"
	"time"

	"market/builders"
	"market/constants"
	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"
	"market/services/notification"
	"market/validator"

	"gorm.io/gorm"
)

// Websocket event types
const (
	EventBookingCreated = "booking.created"
	EventBookingUpdated = "booking.updated"
	EventMessageNew     = "message.new"
)

type BookingService struct {
	db       *gorm.DB
	notifier Notifier
	push     notification.Service
	logger   logger.Logger
	now      func() time.Time
}

type BookingServiceOptions struct {
	DB       *gorm.DB
	Notifier Notifier
	Push     notification.Service
	Logger   logger.Logger
	Now      func() time.Time
}

func NewBookingService(opts BookingServiceOptions) *BookingService {
	return &BookingService{
		db:       opts.DB,
		notifier: opts.Notifier,
		push:     opts.Push,
		logger:   opts.Logger,
		now:      clockOrDefault(opts.Now),
	}
}

// Create books a published service. A promo code is redeemed in the same
// transaction with a guarded is_used flip, so a code pays for one booking.
func (s *BookingService) Create(ctx context.Context, customerID uint, req dto.CreateBookingRequest) (*models.Booking, error) {
	date, err := validator.ParseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	var booking *models.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var svc models.Service
		if err := tx.First(&svc, req.ServiceID).Error; err != nil {
			return dbError(err, apperrors.ErrServiceNotFound)
		}
		if svc.Status != constants.ServiceStatusPublished {
			return apperrors.ErrServiceNotFound
		}
		if svc.ProviderID == customerID {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "You cannot book your own service", nil)
		}

		b := builders.NewBookingBuilder().
			WithCustomer(customerID).
			WithService(&svc).
			WithSlot(date, req.Time).
			WithNote(strings.TrimSpace(req.Note))

		if code := strings.ToUpper(strings.TrimSpace(req.PromoCode)); code != "" {
			promo, pct, err := s.redeem(tx, customerID, svc.ID, code)
			if err != nil {
				return err
			}
			b = b.WithPromo(promo, pct)
		}

		booking = b.Build()
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, dbError(err, apperrors.ErrBookingNotFound)
	}

	s.logger.Info("📅 booking %d created by customer %d for service %d", booking.ID, customerID, booking.ServiceID)
	s.pushEvent(booking.ProviderID, EventBookingCreated, booking)
	return booking, nil
}

// redeem marks the customer's code used. The discount must be active and for
// the booked service.
func (s *BookingService) redeem(tx *gorm.DB, customerID, serviceID uint, code string) (*models.PromoCode, int, error) {
	var promo models.PromoCode
	if err := tx.Preload("Discount").Where("code = ?", code).First(&promo).Error; err != nil {
		return nil, 0, dbError(err, apperrors.ErrPromoCodeInvalid)
	}
	if promo.CustomerID != customerID || promo.Discount == nil {
		return nil, 0, apperrors.ErrPromoCodeInvalid
	}
	d := promo.Discount
	if !d.IsActive || d.ServiceID != serviceID {
		return nil, 0, apperrors.ErrPromoCodeInvalid
	}
	now := s.now()
	if now.Before(d.DiscountStartDate) || d.Finished(now) {
		return nil, 0, apperrors.ErrDiscountNotActive
	}

	res := tx.Model(&models.PromoCode{}).
		Where("id = ? AND customer_id = ? AND is_used = ?", promo.ID, customerID, false).
		Updates(map[string]interface{}{"is_used": true, "used_at": now})
	if res.Error != nil {
		return nil, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, 0, apperrors.ErrPromoCodeInvalid
	}
	return &promo, d.Percentage, nil
}

// List trả về booking theo vai trò: customer thấy booking của mình,
// provider thấy booking của service mình, admin thấy tất cả.
func (s *BookingService) List(ctx context.Context, actor Actor, filter dto.BookingFilter) ([]models.Booking, int64, error) {
	filter.Normalize()
	q := s.db.WithContext(ctx).Model(&models.Booking{})
	switch {
	case actor.IsAdmin():
	case actor.IsProvider():
		q = q.Where("provider_id = ?", actor.ID)
	default:
		q = q.Where("customer_id = ?", actor.ID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, apperrors.ErrBookingNotFound)
	}
	var list []models.Booking
	err := paginate(q, filter.Page, filter.Limit).
		Preload("Service", withDeleted).
		Preload("Customer").
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, 0, dbError(err, apperrors.ErrBookingNotFound)
	}
	return list, total, nil
}

// withDeleted keeps soft-deleted services visible on past bookings.
func withDeleted(db *gorm.DB) *gorm.DB { return db.Unscoped() }

func (s *BookingService) Get(ctx context.Context, actor Actor, id uint) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).
		Preload("Service", withDeleted).
		Preload("Customer").
		Preload("Provider").
		Preload("PromoCode").
		First(&b, id).Error
	if err != nil {
		return nil, dbError(err, apperrors.ErrBookingNotFound)
	}
	if !actor.IsAdmin() && b.CustomerID != actor.ID && b.ProviderID != actor.ID {
		return nil, apperrors.ErrForbidden
	}
	return &b, nil
}

// ChangeStatus drives the booking state machine. The provider approves,
// suggests or cancels; the customer accepts a suggestion or cancels.
func (s *BookingService) ChangeStatus(ctx context.Context, actor Actor, id uint, req dto.BookingStatusRequest) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Service", withDeleted).Preload("Customer").First(&b, id).Error; err != nil {
			return dbError(err, apperrors.ErrBookingNotFound)
		}
		isProvider := b.ProviderID == actor.ID || actor.IsAdmin()
		isCustomer := b.CustomerID == actor.ID
		state := models.GetBookingState(b.Status)
		prev := b.Status

		var next string
		var err error
		switch req.Action {
		case dto.ActionApprove:
			if !isProvider {
				return apperrors.ErrForbidden
			}
			next, err = state.Approve()
		case dto.ActionSuggest:
			if !isProvider {
				return apperrors.ErrForbidden
			}
			if next, err = state.Suggest(); err == nil {
				date, perr := validator.ParseSlot(req.Date, req.Time)
				if perr != nil {
					return perr
				}
				b.SuggestedDate = &date
				b.SuggestedTime = req.Time
			}
		case dto.ActionAccept:
			if !isCustomer {
				return apperrors.ErrForbidden
			}
			if next, err = state.AcceptSuggestion(); err == nil && b.SuggestedDate != nil {
				b.Date = *b.SuggestedDate
				b.Time = b.SuggestedTime
			}
		case dto.ActionCancel:
			if !isProvider && !isCustomer {
				return apperrors.ErrForbidden
			}
			next, err = state.Cancel()
		default:
			return apperrors.NewValidationError(map[string]string{"action": "must be one of: approve suggest accept cancel"})
		}
		if err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidState, err.Error(), err)
		}
		b.Status = next

		res := tx.Model(&models.Booking{}).Where("id = ? AND status = ?", b.ID, prev).Updates(map[string]interface{}{
			"status":         b.Status,
			"date":           b.Date,
			"time":           b.Time,
			"suggested_date": b.SuggestedDate,
			"suggested_time": b.SuggestedTime,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, apperrors.ErrBookingNotFound)
	}

	s.afterStatusChange(ctx, actor, &b, req.Action)
	return &b, nil
}

// Cancel is ChangeStatus with the cancel action.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, id uint) (*models.Booking, error) {
	return s.ChangeStatus(ctx, actor, id, dto.BookingStatusRequest{Action: dto.ActionCancel})
}

// afterStatusChange pushes the update to the other party and mails the
// customer when the provider approved or suggested.
func (s *BookingService) afterStatusChange(ctx context.Context, actor Actor, b *models.Booking, action string) {
	other := b.CustomerID
	if actor.ID == b.CustomerID {
		other = b.ProviderID
	}
	s.pushEvent(other, EventBookingUpdated, b)

	if b.Customer == nil {
		return
	}
	name := ""
	if b.Service != nil {
		name = b.Service.Name
	}
	var err error
	switch b.Status {
	case constants.BookingStatusApproved:
		if action == dto.ActionApprove {
			err = s.notifier.BookingApproved(ctx, *b.Customer, name, b.Date, b.Time)
		}
	case constants.BookingStatusSuggested:
		err = s.notifier.SlotSuggested(ctx, *b.Customer, name, *b.SuggestedDate, b.SuggestedTime)
	}
	if err != nil {
		s.logger.Error("❌ booking mail for booking %d: %v", b.ID, err)
	}
}

func (s *BookingService) pushEvent(userID uint, eventType string, data interface{}) {
	if s.push == nil {
		return
	}
	payload, err := notification.NewMessageBuilder(eventType).WithData(data).Build()
	if err != nil {
		s.logger.Error("❌ build %s event: %v", eventType, err)
		return
	}
	if err := s.push.SendToUser(userID, payload); err != nil {
		s.logger.Warn("⚠️ push %s to user %d: %v", eventType, userID, err)
	}
}
