package services

import (
	"context"
	"fmt"
	"time"

	"market/models"
	"market/services/logger"

	"gorm.io/gorm"
)

// Outcome of one evaluation.
const (
	OutcomeOpen      = "open"
	OutcomeActivated = "activated"
	OutcomeCancelled = "cancelled"
	OutcomeDecided   = "already-decided"
)

type EvaluationResult struct {
	DiscountID  uint   `json:"discountId"`
	Outcome     string `json:"outcome"`
	CodesIssued int    `json:"codesIssued"`
	MailsSent   int    `json:"mailsSent"`
	MailsFailed int    `json:"mailsFailed"`
}

// EvaluationSummary is returned by the batch run.
type EvaluationSummary struct {
	Evaluated   int `json:"evaluated"`
	Activated   int `json:"activated"`
	Cancelled   int `json:"cancelled"`
	MailsSent   int `json:"mailsSent"`
	MailsFailed int `json:"mailsFailed"`
	Errors      int `json:"errors"`
}

// DiscountEvaluator decides discounts once their interest window closed and
// sends the resulting mails. Mail guards (Interest.NotifiedAt,
// Interest.CancellationSentAt, Discount.ProviderNotifiedAt) are only set
// after a mail was accepted, so reruns retry exactly the missing ones.
type DiscountEvaluator struct {
	db        *gorm.DB
	notifier  Notifier
	logger    logger.Logger
	now       func() time.Time
	generator func(prefix string) (string, error)
}

type DiscountEvaluatorOptions struct {
	DB       *gorm.DB
	Notifier Notifier
	Logger   logger.Logger
	Now      func() time.Time
	// Generator overrides GeneratePromoCode.
	Generator func(prefix string) (string, error)
}

func NewDiscountEvaluator(opts DiscountEvaluatorOptions) *DiscountEvaluator {
	gen := opts.Generator
	if gen == nil {
		gen = GeneratePromoCode
	}
	return &DiscountEvaluator{
		db:        opts.DB,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		now:       clockOrDefault(opts.Now),
		generator: gen,
	}
}

// EvaluateDiscount activates or cancels one discount whose window closed,
// then sends every mail still pending for it. Before InterestToDate it does
// nothing, even when the threshold is already met.
func (e *DiscountEvaluator) EvaluateDiscount(ctx context.Context, discount *models.Discount) (EvaluationResult, error) {
	now := e.now()
	result := EvaluationResult{DiscountID: discount.ID, Outcome: OutcomeOpen}
	if !discount.InterestWindowClosed(now) {
		return result, nil
	}

	result.Outcome = OutcomeDecided
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fresh models.Discount
		if err := tx.First(&fresh, discount.ID).Error; err != nil {
			return err
		}
		if fresh.Decided() {
			return nil
		}
		if fresh.ThresholdMet() {
			issued, err := e.activate(tx, &fresh, now)
			if err != nil {
				return err
			}
			result.Outcome = OutcomeActivated
			result.CodesIssued = issued
			return nil
		}
		if err := e.cancel(tx, &fresh, now); err != nil {
			return err
		}
		result.Outcome = OutcomeCancelled
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("evaluate discount %d: %w", discount.ID, err)
	}

	// Reload so the mails see the decided state.
	var decided models.Discount
	if err := e.db.WithContext(ctx).Preload("Service").First(&decided, discount.ID).Error; err != nil {
		return result, fmt.Errorf("reload discount %d: %w", discount.ID, err)
	}
	*discount = decided

	switch {
	case decided.IsActivated:
		result.MailsSent, result.MailsFailed = e.notifyActivated(ctx, &decided)
	case decided.CancelledAt != nil:
		result.MailsSent, result.MailsFailed = e.notifyCancelled(ctx, &decided)
	}
	return result, nil
}

func (e *DiscountEvaluator) activate(tx *gorm.DB, d *models.Discount, now time.Time) (int, error) {
	res := tx.Model(&models.Discount{}).
		Where("id = ? AND is_activated = ? AND cancelled_at IS NULL", d.ID, false).
		Updates(map[string]interface{}{
			"is_activated": true,
			"is_active":    !d.Finished(now),
			"activated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}

	var interests []models.Interest
	if err := tx.Where("discount_id = ? AND promo_code IS NULL", d.ID).Order("id ASC").Find(&interests).Error; err != nil {
		return 0, err
	}
	for _, it := range interests {
		promo, err := issuePromoCode(tx, d, it.CustomerID, e.generator)
		if err != nil {
			return 0, err
		}
		if err := tx.Model(&models.Interest{}).Where("id = ?", it.ID).Updates(map[string]interface{}{
			"promo_code":   promo.Code,
			"is_activated": true,
		}).Error; err != nil {
			return 0, err
		}
	}
	e.logger.Info("✅ discount %d activated with %d/%d interests", d.ID, d.CurrentInterestCount, d.RequiredInterestCount)
	return len(interests), nil
}

func (e *DiscountEvaluator) cancel(tx *gorm.DB, d *models.Discount, now time.Time) error {
	err := tx.Model(&models.Discount{}).
		Where("id = ? AND is_activated = ? AND cancelled_at IS NULL", d.ID, false).
		Updates(map[string]interface{}{
			"cancelled_at": now,
			"is_active":    false,
		}).Error
	if err != nil {
		return err
	}
	e.logger.Info("discount %d cancelled with %d/%d interests", d.ID, d.CurrentInterestCount, d.RequiredInterestCount)
	return nil
}

func (e *DiscountEvaluator) notifyActivated(ctx context.Context, d *models.Discount) (sent, failed int) {
	var interests []models.Interest
	if err := e.db.WithContext(ctx).Preload("Customer").
		Where("discount_id = ? AND notified_at IS NULL AND promo_code IS NOT NULL", d.ID).
		Order("id ASC").Find(&interests).Error; err != nil {
		e.logger.Error("❌ discount %d: load interests to notify: %v", d.ID, err)
		return 0, 1
	}

	for _, it := range interests {
		if it.Customer == nil {
			continue
		}
		if err := e.notifier.GoalReachedCustomer(ctx, *it.Customer, *d, *it.PromoCode); err != nil {
			e.logger.Error("❌ discount %d: goal mail to %s: %v", d.ID, it.Customer.Email, err)
			failed++
			continue
		}
		if err := e.markSent(ctx, &models.Interest{}, it.ID, "notified_at"); err != nil {
			e.logger.Error("❌ discount %d: mark interest %d notified: %v", d.ID, it.ID, err)
		}
		sent++
	}

	if d.ProviderNotifiedAt == nil {
		var provider models.User
		if err := e.db.WithContext(ctx).First(&provider, d.ProviderID).Error; err != nil {
			e.logger.Error("❌ discount %d: load provider %d: %v", d.ID, d.ProviderID, err)
			return sent, failed + 1
		}
		if err := e.notifier.GoalReachedProvider(ctx, provider, *d, d.CurrentInterestCount); err != nil {
			e.logger.Error("❌ discount %d: provider mail to %s: %v", d.ID, provider.Email, err)
			return sent, failed + 1
		}
		if err := e.markSent(ctx, &models.Discount{}, d.ID, "provider_notified_at"); err != nil {
			e.logger.Error("❌ discount %d: mark provider notified: %v", d.ID, err)
		}
		sent++
	}
	return sent, failed
}

func (e *DiscountEvaluator) notifyCancelled(ctx context.Context, d *models.Discount) (sent, failed int) {
	var interests []models.Interest
	if err := e.db.WithContext(ctx).Preload("Customer").
		Where("discount_id = ? AND cancellation_sent_at IS NULL", d.ID).
		Order("id ASC").Find(&interests).Error; err != nil {
		e.logger.Error("❌ discount %d: load interests to notify: %v", d.ID, err)
		return 0, 1
	}

	for _, it := range interests {
		if it.Customer == nil {
			continue
		}
		if err := e.notifier.DiscountCancelled(ctx, *it.Customer, *d); err != nil {
			e.logger.Error("❌ discount %d: cancellation mail to %s: %v", d.ID, it.Customer.Email, err)
			failed++
			continue
		}
		if err := e.markSent(ctx, &models.Interest{}, it.ID, "cancellation_sent_at"); err != nil {
			e.logger.Error("❌ discount %d: mark interest %d cancelled: %v", d.ID, it.ID, err)
		}
		sent++
	}
	return sent, failed
}

// markSent sets a guard column once; a concurrent run that already set it
// leaves it untouched.
func (e *DiscountEvaluator) markSent(ctx context.Context, model interface{}, id uint, column string) error {
	return e.db.WithContext(ctx).Model(model).
		Where("id = ? AND "+column+" IS NULL", id).
		UpdateColumn(column, e.now()).Error
}

// RunThresholdEvaluation evaluates every discount whose window closed and
// that is either undecided or still has mails to send. An error on one
// discount is logged and the batch goes on.
func (e *DiscountEvaluator) RunThresholdEvaluation(ctx context.Context) (EvaluationSummary, error) {
	now := e.now()
	var summary EvaluationSummary

	var discounts []models.Discount
	err := e.db.WithContext(ctx).
		Where("interest_to_date <= ?", now).
		Where(e.db.
			Where("is_activated = ? AND cancelled_at IS NULL", false).
			Or("is_activated = ? AND (provider_notified_at IS NULL OR EXISTS (SELECT 1 FROM interests WHERE interests.discount_id = discounts.id AND interests.notified_at IS NULL))", true).
			Or("cancelled_at IS NOT NULL AND EXISTS (SELECT 1 FROM interests WHERE interests.discount_id = discounts.id AND interests.cancellation_sent_at IS NULL)")).
		Order("id ASC").
		Find(&discounts).Error
	if err != nil {
		return summary, fmt.Errorf("load discounts to evaluate: %w", err)
	}

	for i := range discounts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res, err := e.EvaluateDiscount(ctx, &discounts[i])
		summary.Evaluated++
		if err != nil {
			summary.Errors++
			e.logger.Error("❌ %v", err)
			continue
		}
		switch res.Outcome {
		case OutcomeActivated:
			summary.Activated++
		case OutcomeCancelled:
			summary.Cancelled++
		}
		summary.MailsSent += res.MailsSent
		summary.MailsFailed += res.MailsFailed
	}

	e.logger.Info("threshold evaluation: %d evaluated, %d activated, %d cancelled, %d mails sent, %d failed",
		summary.Evaluated, summary.Activated, summary.Cancelled, summary.MailsSent, summary.MailsFailed)
	return summary, nil
}

// DeactivateFinishedDiscounts clears IsActive on every discount whose
// validity ended, whatever its activation history.
func (e *DiscountEvaluator) DeactivateFinishedDiscounts(ctx context.Context) (int64, error) {
	res := e.db.WithContext(ctx).Model(&models.Discount{}).
		Where("discount_end_date <= ? AND is_active = ?", e.now(), true).
		UpdateColumn("is_active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("deactivate finished discounts: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		e.logger.Info("deactivated %d finished discounts", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
