package services

import (
	"context"
	"strings"
	"time"

	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"
	"market/validator"

	"gorm.io/gorm"
)

// Discount list states
const (
	DiscountStateOpen      = "open"
	DiscountStateActive    = "active"
	DiscountStateCancelled = "cancelled"
)

// DiscountService is the provider side CRUD. Counters and activation fields
// are owned by the interest service and the evaluator.
type DiscountService struct {
	db     *gorm.DB
	logger logger.Logger
	now    func() time.Time
}

func NewDiscountService(db *gorm.DB, log logger.Logger, now func() time.Time) *DiscountService {
	return &DiscountService{db: db, logger: log, now: clockOrDefault(now)}
}

func discountWindowError(err error) error {
	return apperrors.NewValidationError(map[string]string{"dates": err.Error()})
}

func (s *DiscountService) Create(ctx context.Context, actor Actor, req dto.CreateDiscountRequest) (*models.Discount, error) {
	db := s.db.WithContext(ctx)
	var svc models.Service
	if err := db.First(&svc, req.ServiceID).Error; err != nil {
		return nil, dbError(err, apperrors.ErrServiceNotFound)
	}
	if !actor.IsProvider() || svc.ProviderID != actor.ID {
		return nil, apperrors.ErrForbidden
	}

	d := &models.Discount{
		ServiceID:             svc.ID,
		ProviderID:            svc.ProviderID,
		Name:                  strings.TrimSpace(req.Name),
		Description:           req.Description,
		Percentage:            req.Percentage,
		RequiredInterestCount: req.RequiredInterestCount,
	}
	dates := []struct {
		value string
		into  *time.Time
	}{
		{req.InterestFromDate, &d.InterestFromDate},
		{req.InterestToDate, &d.InterestToDate},
		{req.DiscountStartDate, &d.DiscountStartDate},
		{req.DiscountEndDate, &d.DiscountEndDate},
	}
	for _, f := range dates {
		t, err := validator.ParseDate(f.value)
		if err != nil {
			return nil, err
		}
		*f.into = t
	}
	if err := s.validate(d); err != nil {
		return nil, err
	}

	if err := db.Create(d).Error; err != nil {
		return nil, dbError(err, apperrors.ErrDiscountNotFound)
	}
	s.logger.Info("✅ discount %d created for service %d (%d%%, needs %d)", d.ID, d.ServiceID, d.Percentage, d.RequiredInterestCount)
	return d, nil
}

func (s *DiscountService) validate(d *models.Discount) error {
	if err := d.ValidatePercentage(); err != nil {
		return apperrors.NewValidationError(map[string]string{"percentage": err.Error()})
	}
	if d.RequiredInterestCount < 1 {
		return apperrors.NewValidationError(map[string]string{"requiredInterestCount": "must be at least 1"})
	}
	if err := d.ValidateWindows(); err != nil {
		return discountWindowError(err)
	}
	return nil
}

// Update rejects any change once the discount is decided, and schedule or
// threshold changes once somebody registered interest.
func (s *DiscountService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateDiscountRequest) (*models.Discount, error) {
	var updated models.Discount
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d models.Discount
		if err := tx.First(&d, id).Error; err != nil {
			return dbError(err, apperrors.ErrDiscountNotFound)
		}
		if !actor.Owns(d.ProviderID) {
			return apperrors.ErrForbidden
		}
		if d.Decided() {
			return apperrors.ErrDiscountLocked
		}
		if req.TouchesSchedule() {
			var interested int64
			if err := tx.Model(&models.Interest{}).Where("discount_id = ?", id).Count(&interested).Error; err != nil {
				return err
			}
			if interested > 0 {
				return apperrors.ErrDiscountLocked
			}
		}

		if req.Name != nil {
			d.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			d.Description = *req.Description
		}
		if req.Percentage != nil {
			d.Percentage = *req.Percentage
		}
		if req.RequiredInterestCount != nil {
			d.RequiredInterestCount = *req.RequiredInterestCount
		}
		dates := []struct {
			value *string
			into  *time.Time
		}{
			{req.InterestFromDate, &d.InterestFromDate},
			{req.InterestToDate, &d.InterestToDate},
			{req.DiscountStartDate, &d.DiscountStartDate},
			{req.DiscountEndDate, &d.DiscountEndDate},
		}
		for _, f := range dates {
			if f.value == nil {
				continue
			}
			t, err := validator.ParseDate(*f.value)
			if err != nil {
				return err
			}
			*f.into = t
		}
		if err := s.validate(&d); err != nil {
			return err
		}

		// Only the editable columns; counters stay with the SQL increments.
		guard := tx.Model(&models.Discount{}).Where("id = ? AND is_activated = ? AND cancelled_at IS NULL", id, false)
		if req.TouchesSchedule() {
			guard = guard.Where("current_interest_count = 0")
		}
		res := guard.Updates(map[string]interface{}{
			"name":                    d.Name,
			"description":             d.Description,
			"percentage":              d.Percentage,
			"required_interest_count": d.RequiredInterestCount,
			"interest_from_date":      d.InterestFromDate,
			"interest_to_date":        d.InterestToDate,
			"discount_start_date":     d.DiscountStartDate,
			"discount_end_date":       d.DiscountEndDate,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrDiscountLocked
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, dbError(err, apperrors.ErrDiscountNotFound)
	}
	return &updated, nil
}

// Delete removes a discount that never activated, with its interests. A
// cancelled discount stays while any cancellation mail is still unsent.
func (s *DiscountService) Delete(ctx context.Context, actor Actor, id uint) error {
	return dbError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d models.Discount
		if err := tx.First(&d, id).Error; err != nil {
			return dbError(err, apperrors.ErrDiscountNotFound)
		}
		if !actor.Owns(d.ProviderID) {
			return apperrors.ErrForbidden
		}

		// Khóa row trước khi xóa interests
		res := tx.Model(&models.Discount{}).
			Where("id = ? AND is_activated = ?", id, false).
			Where("(cancelled_at IS NULL OR NOT EXISTS (SELECT 1 FROM interests WHERE interests.discount_id = discounts.id AND interests.cancellation_sent_at IS NULL))").
			UpdateColumn("updated_at", s.now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrDiscountLocked
		}
		if err := tx.Where("discount_id = ?", id).Delete(&models.Interest{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Discount{}, id).Error; err != nil {
			return err
		}
		s.logger.Info("🗑️ discount %d deleted by %d", id, actor.ID)
		return nil
	}), apperrors.ErrDiscountNotFound)
}

func (s *DiscountService) Get(ctx context.Context, id uint) (*models.Discount, error) {
	var d models.Discount
	if err := s.db.WithContext(ctx).Preload("Service").First(&d, id).Error; err != nil {
		return nil, dbError(err, apperrors.ErrDiscountNotFound)
	}
	return &d, nil
}

func (s *DiscountService) List(ctx context.Context, filter dto.DiscountFilter) ([]models.Discount, int64, error) {
	filter.Normalize()
	now := s.now()
	q := s.db.WithContext(ctx).Model(&models.Discount{})
	if filter.ServiceID != 0 {
		q = q.Where("service_id = ?", filter.ServiceID)
	}
	if filter.ProviderID != 0 {
		q = q.Where("provider_id = ?", filter.ProviderID)
	}
	switch filter.State {
	case DiscountStateOpen:
		q = q.Where("is_activated = ? AND cancelled_at IS NULL AND interest_from_date <= ? AND interest_to_date > ?", false, now, now)
	case DiscountStateActive:
		q = q.Where("is_active = ?", true)
	case DiscountStateCancelled:
		q = q.Where("cancelled_at IS NOT NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, apperrors.ErrDiscountNotFound)
	}
	var list []models.Discount
	err := paginate(q, filter.Page, filter.Limit).Preload("Service").Order("interest_to_date ASC, id ASC").Find(&list).Error
	if err != nil {
		return nil, 0, dbError(err, apperrors.ErrDiscountNotFound)
	}
	return list, total, nil
}
