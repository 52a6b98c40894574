package services

import (
	"context"
	"errors"
	"time"

	"market/constants"
	apperrors "market/errors"
	"market/models"

	"gorm.io/gorm"
)

// Actor is the authenticated caller of a service method.
type Actor struct {
	ID   uint
	Role int
}

func (a Actor) IsAdmin() bool    { return a.Role == constants.RoleAdmin }
func (a Actor) IsProvider() bool { return a.Role == constants.RoleProvider }
func (a Actor) IsCustomer() bool { return a.Role == constants.RoleCustomer }

// Owns is true for the owner and for admins.
func (a Actor) Owns(ownerID uint) bool {
	return a.IsAdmin() || a.ID == ownerID
}

// Notifier sends the marketplace mails. Implemented by mail.Notifier.
type Notifier interface {
	InterestConfirmed(ctx context.Context, customer models.User, discount models.Discount) error
	GoalReachedCustomer(ctx context.Context, customer models.User, discount models.Discount, code string) error
	GoalReachedProvider(ctx context.Context, provider models.User, discount models.Discount, interested int) error
	DiscountCancelled(ctx context.Context, customer models.User, discount models.Discount) error
	BookingApproved(ctx context.Context, customer models.User, service string, date time.Time, slot string) error
	SlotSuggested(ctx context.Context, customer models.User, service string, date time.Time, slot string) error
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return utcNow
	}
	return now
}

// dbError maps gorm errors: record-not-found becomes notFound, everything
// else is wrapped as a DB error.
func dbError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.NewAppError(apperrors.ErrCodeDBError, "Database error", err)
}

func paginate(db *gorm.DB, page, limit int) *gorm.DB {
	if limit <= 0 {
		return db
	}
	if page < 1 {
		page = 1
	}
	return db.Offset((page - 1) * limit).Limit(limit)
}
