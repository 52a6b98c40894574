package models

import "time"

// Interest is a customer's registration for a discount. A customer holds at
// most one interest per discount.
type Interest struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CustomerID  uint      `json:"customerId" gorm:"not null;uniqueIndex:idx_interest_customer_discount"`
	Customer    *User     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	DiscountID  uint      `json:"discountId" gorm:"not null;index;uniqueIndex:idx_interest_customer_discount"`
	Discount    *Discount `json:"discount,omitempty" gorm:"foreignKey:DiscountID"`
	IsActivated bool      `json:"isActivated" gorm:"default:false"`
	PromoCode   *string   `json:"promoCode"`

	BookingDate   *time.Time `json:"bookingDate"`
	BookingTime   string     `json:"bookingTime"`
	BookingStatus string     `json:"bookingStatus"`

	NotifiedAt         *time.Time `json:"-"`
	CancellationSentAt *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// PromoCode is issued once per interested customer when a discount activates.
type PromoCode struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Code       string     `json:"code" gorm:"uniqueIndex;size:32;not null"`
	DiscountID uint       `json:"discountId" gorm:"index;not null"`
	Discount   *Discount  `json:"discount,omitempty" gorm:"foreignKey:DiscountID"`
	CustomerID uint       `json:"customerId" gorm:"index;not null"`
	Customer   *User      `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	IsUsed     bool       `json:"isUsed" gorm:"default:false"`
	UsedAt     *time.Time `json:"usedAt"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}
