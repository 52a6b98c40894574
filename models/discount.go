package models

import (
	"fmt"
	"time"
)

type Discount struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	ServiceID   uint     `json:"serviceId" gorm:"index;not null"`
	Service     *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	ProviderID  uint     `json:"providerId" gorm:"index;not null"`
	Provider    *User    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Percentage  int      `json:"percentage"` // Mức giảm giá (1-100)

	RequiredInterestCount int `json:"requiredInterestCount" gorm:"not null"`
	CurrentInterestCount  int `json:"currentInterestCount" gorm:"not null;default:0"`

	InterestFromDate  time.Time `json:"interestFromDate"`
	InterestToDate    time.Time `json:"interestToDate" gorm:"index"`
	DiscountStartDate time.Time `json:"discountStartDate"`
	DiscountEndDate   time.Time `json:"discountEndDate" gorm:"index"`

	IsActive           bool       `json:"isActive" gorm:"default:false"`
	IsActivated        bool       `json:"isActivated" gorm:"default:false;index"`
	ActivatedAt        *time.Time `json:"activatedAt"`
	CancelledAt        *time.Time `json:"cancelledAt" gorm:"index"`
	ProviderNotifiedAt *time.Time `json:"-"`

	Interests  []Interest  `json:"interests,omitempty" gorm:"foreignKey:DiscountID"`
	PromoCodes []PromoCode `json:"-" gorm:"foreignKey:DiscountID"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// InterestWindowOpen reports whether customers may still register interest.
func (d *Discount) InterestWindowOpen(now time.Time) bool {
	return !d.IsActivated && d.CancelledAt == nil &&
		!now.Before(d.InterestFromDate) && now.Before(d.InterestToDate)
}

// InterestWindowClosed is true once now has reached InterestToDate.
func (d *Discount) InterestWindowClosed(now time.Time) bool {
	return !now.Before(d.InterestToDate)
}

func (d *Discount) ThresholdMet() bool {
	return d.CurrentInterestCount >= d.RequiredInterestCount
}

// Finished is true once the validity window has ended.
func (d *Discount) Finished(now time.Time) bool {
	return !now.Before(d.DiscountEndDate)
}

// Decided is true once the discount reached one of its terminal outcomes.
func (d *Discount) Decided() bool {
	return d.IsActivated || d.CancelledAt != nil
}

// ValidateWindows checks InterestFrom < InterestTo <= DiscountStart < DiscountEnd.
func (d *Discount) ValidateWindows() error {
	if !d.InterestFromDate.Before(d.InterestToDate) {
		return fmt.Errorf("interestToDate must be after interestFromDate")
	}
	if d.DiscountStartDate.Before(d.InterestToDate) {
		return fmt.Errorf("discountStartDate must not be before interestToDate")
	}
	if !d.DiscountStartDate.Before(d.DiscountEndDate) {
		return fmt.Errorf("discountEndDate must be after discountStartDate")
	}
	return nil
}

func (d *Discount) ValidatePercentage() error {
	if d.Percentage < 1 || d.Percentage > 100 {
		return fmt.Errorf("invalid Percentage: %d, must be between 1 and 100", d.Percentage)
	}
	return nil
}
