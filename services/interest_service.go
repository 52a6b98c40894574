package services

import (
	"context"
	"errors"
	"time"

	"market/constants"
	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"
	"market/validator"

	"gorm.io/gorm"
)

type InterestService struct {
	db       *gorm.DB
	notifier Notifier
	logger   logger.Logger
	now      func() time.Time
}

type InterestServiceOptions struct {
	DB       *gorm.DB
	Notifier Notifier
	Logger   logger.Logger
	Now      func() time.Time
}

func NewInterestService(opts InterestServiceOptions) *InterestService {
	return &InterestService{
		db:       opts.DB,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		now:      clockOrDefault(opts.Now),
	}
}

// AddInterest registers customerID on the discount. The row insert and the
// counter increment share one transaction; the increment only applies while
// the window is open.
func (s *InterestService) AddInterest(ctx context.Context, customerID, discountID uint) (*models.Interest, error) {
	now := s.now()
	interest := &models.Interest{CustomerID: customerID, DiscountID: discountID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var discount models.Discount
		if err := tx.First(&discount, discountID).Error; err != nil {
			return dbError(err, apperrors.ErrDiscountNotFound)
		}
		if !discount.InterestWindowOpen(now) {
			return apperrors.ErrInterestWindow
		}

		var exists int64
		if err := tx.Model(&models.Interest{}).
			Where("customer_id = ? AND discount_id = ?", customerID, discountID).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return apperrors.ErrInterestExists
		}

		if err := tx.Create(interest).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrInterestExists
			}
			return err
		}

		res := tx.Model(&models.Discount{}).
			Where("id = ? AND is_activated = ? AND cancelled_at IS NULL AND interest_from_date <= ? AND interest_to_date > ?",
				discountID, false, now, now).
			UpdateColumn("current_interest_count", gorm.Expr("current_interest_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInterestWindow
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, apperrors.ErrDiscountNotFound)
	}

	s.logger.Info("customer %d joined discount %d", customerID, discountID)
	s.sendConfirmation(ctx, customerID, discountID)
	return interest, nil
}

func (s *InterestService) sendConfirmation(ctx context.Context, customerID, discountID uint) {
	var customer models.User
	var discount models.Discount
	if err := s.db.WithContext(ctx).First(&customer, customerID).Error; err != nil {
		s.logger.Error("❌ interest mail: load customer %d: %v", customerID, err)
		return
	}
	if err := s.db.WithContext(ctx).Preload("Service").First(&discount, discountID).Error; err != nil {
		s.logger.Error("❌ interest mail: load discount %d: %v", discountID, err)
		return
	}
	if err := s.notifier.InterestConfirmed(ctx, customer, discount); err != nil {
		s.logger.Error("❌ interest mail to %s: %v", customer.Email, err)
	}
}

// RemoveInterest withdraws the customer's interest while the window is still
// open. The row and one unit of the counter go away together.
func (s *InterestService) RemoveInterest(ctx context.Context, customerID, interestID uint) error {
	now := s.now()
	return dbError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var interest models.Interest
		if err := tx.First(&interest, interestID).Error; err != nil {
			return dbError(err, apperrors.ErrInterestNotFound)
		}
		if interest.CustomerID != customerID {
			return apperrors.ErrForbidden
		}

		res := tx.Model(&models.Discount{}).
			Where("id = ? AND is_activated = ? AND cancelled_at IS NULL AND interest_to_date > ? AND current_interest_count > 0",
				interest.DiscountID, false, now).
			UpdateColumn("current_interest_count", gorm.Expr("current_interest_count - ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrDiscountLocked
		}
		return tx.Delete(&models.Interest{}, interest.ID).Error
	}), apperrors.ErrInterestNotFound)
}

func (s *InterestService) ListMyInterests(ctx context.Context, customerID uint) ([]models.Interest, error) {
	var interests []models.Interest
	err := s.db.WithContext(ctx).
		Preload("Discount.Service").
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Find(&interests).Error
	return interests, dbError(err, apperrors.ErrNotFound)
}

// ListDiscountInterests is reserved to the discount's provider and admins.
func (s *InterestService) ListDiscountInterests(ctx context.Context, actor Actor, discountID uint) ([]models.Interest, error) {
	var discount models.Discount
	if err := s.db.WithContext(ctx).First(&discount, discountID).Error; err != nil {
		return nil, dbError(err, apperrors.ErrDiscountNotFound)
	}
	if !actor.Owns(discount.ProviderID) {
		return nil, apperrors.ErrForbidden
	}

	var interests []models.Interest
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Where("discount_id = ?", discountID).
		Order("id ASC").
		Find(&interests).Error
	return interests, dbError(err, apperrors.ErrNotFound)
}

// RequestBooking lets the customer of an activated interest propose a slot,
// or accept the slot the provider suggested.
func (s *InterestService) RequestBooking(ctx context.Context, customerID, interestID uint, req dto.InterestBookingRequest) (*models.Interest, error) {
	var interest models.Interest
	if err := s.db.WithContext(ctx).Preload("Discount").First(&interest, interestID).Error; err != nil {
		return nil, dbError(err, apperrors.ErrInterestNotFound)
	}
	if interest.CustomerID != customerID {
		return nil, apperrors.ErrForbidden
	}
	if !interest.IsActivated || !discountRunning(interest.Discount, s.now()) {
		return nil, apperrors.ErrDiscountNotActive
	}

	if req.Accept {
		next, err := models.GetBookingState(interest.BookingStatus).AcceptSuggestion()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidState, "No suggested slot to accept", err)
		}
		interest.BookingStatus = next
	} else {
		if interest.BookingStatus == constants.BookingStatusApproved {
			return nil, apperrors.ErrInvalidTransition
		}
		date, err := validator.ParseSlot(req.Date, req.Time)
		if err != nil {
			return nil, err
		}
		interest.BookingDate = &date
		interest.BookingTime = req.Time
		interest.BookingStatus = constants.BookingStatusPending
	}

	if err := s.saveBooking(ctx, &interest); err != nil {
		return nil, err
	}
	return &interest, nil
}

// discountRunning reports whether now is in [DiscountStartDate, DiscountEndDate).
func discountRunning(d *models.Discount, now time.Time) bool {
	return d != nil && !now.Before(d.DiscountStartDate) && now.Before(d.DiscountEndDate)
}

func (s *InterestService) saveBooking(ctx context.Context, interest *models.Interest) error {
	err := s.db.WithContext(ctx).Model(&models.Interest{}).Where("id = ?", interest.ID).Updates(map[string]interface{}{
		"booking_date":   interest.BookingDate,
		"booking_time":   interest.BookingTime,
		"booking_status": interest.BookingStatus,
	}).Error
	return dbError(err, apperrors.ErrInterestNotFound)
}

// UpdateBookingStatus is the provider's answer to an interest booking:
// approve it or suggest another slot. The customer is mailed either way.
func (s *InterestService) UpdateBookingStatus(ctx context.Context, actor Actor, interestID uint, req dto.InterestBookingDecision) (*models.Interest, error) {
	var interest models.Interest
	if err := s.db.WithContext(ctx).Preload("Customer").Preload("Discount.Service").First(&interest, interestID).Error; err != nil {
		return nil, dbError(err, apperrors.ErrInterestNotFound)
	}
	if interest.Discount == nil || !actor.Owns(interest.Discount.ProviderID) {
		return nil, apperrors.ErrForbidden
	}
	if !discountRunning(interest.Discount, s.now()) {
		return nil, apperrors.ErrDiscountNotActive
	}
	if interest.BookingStatus == "" || interest.BookingDate == nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidState, "Customer has not requested a slot yet", nil)
	}

	state := models.GetBookingState(interest.BookingStatus)
	switch req.Action {
	case dto.ActionApprove:
		next, err := state.Approve()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidState, err.Error(), err)
		}
		interest.BookingStatus = next
	case dto.ActionSuggest:
		next, err := state.Suggest()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidState, err.Error(), err)
		}
		date, err := validator.ParseSlot(req.Date, req.Time)
		if err != nil {
			return nil, err
		}
		interest.BookingStatus = next
		interest.BookingDate = &date
		interest.BookingTime = req.Time
	default:
		return nil, apperrors.NewValidationError(map[string]string{"action": "must be one of: approve suggest"})
	}

	if err := s.saveBooking(ctx, &interest); err != nil {
		return nil, err
	}

	if interest.Customer == nil {
		return &interest, nil
	}
	serviceName := ""
	if interest.Discount.Service != nil {
		serviceName = interest.Discount.Service.Name
	}
	var mailErr error
	if interest.BookingStatus == constants.BookingStatusApproved {
		mailErr = s.notifier.BookingApproved(ctx, *interest.Customer, serviceName, *interest.BookingDate, interest.BookingTime)
	} else {
		mailErr = s.notifier.SlotSuggested(ctx, *interest.Customer, serviceName, *interest.BookingDate, interest.BookingTime)
	}
	if mailErr != nil {
		s.logger.Error("❌ booking mail for interest %d: %v", interest.ID, mailErr)
	}
	return &interest, nil
}
