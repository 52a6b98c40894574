package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	ServiceID     uint            `json:"serviceId" gorm:"index;not null"`
	Service       *Service        `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	CustomerID    uint            `json:"customerId" gorm:"index;not null"`
	Customer      *User           `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ProviderID    uint            `json:"providerId" gorm:"index;not null"`
	Provider      *User           `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Date          time.Time       `json:"date"`
	Time          string          `json:"time"`
	Status        string          `json:"status" gorm:"default:pending;index"`
	SuggestedDate *time.Time      `json:"suggestedDate"`
	SuggestedTime string          `json:"suggestedTime"`
	PromoCodeID   *uint           `json:"promoCodeId"`
	PromoCode     *PromoCode      `json:"promoCode,omitempty" gorm:"foreignKey:PromoCodeID"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	FinalPrice    decimal.Decimal `json:"finalPrice" gorm:"type:numeric(12,2)"`
	Note          string          `json:"note"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID uint      `json:"customerId" gorm:"not null;uniqueIndex:idx_review_customer_service"`
	Customer   *User     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ServiceID  uint      `json:"serviceId" gorm:"not null;index;uniqueIndex:idx_review_customer_service"`
	Comment    string    `json:"comment"`
	Star       int       `json:"star"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Message struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	SenderID   uint       `json:"senderId" gorm:"index;not null"`
	Sender     *User      `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	ReceiverID uint       `json:"receiverId" gorm:"index;not null"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	ReadAt     *time.Time `json:"readAt"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"autoCreateTime"`
}

// All lists every model for migrations.
func All() []interface{} {
	return []interface{}{
		&Province{}, &District{}, &Ward{},
		&User{}, &Address{},
		&Service{}, &Discount{}, &Interest{}, &PromoCode{},
		&Booking{}, &Review{}, &Message{},
	}
}
