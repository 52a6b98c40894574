package models

import (
	"fmt"
	"time"

	"market/constants"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is an offer published by a provider.
type Service struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProviderID  uint            `json:"providerId" gorm:"index;not null"`
	Provider    *User           `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Name        string          `json:"name" gorm:"not null"`
	Slug        string          `json:"slug" gorm:"index"`
	Description string          `json:"description"`
	Category    string          `json:"category" gorm:"index"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Duration    int             `json:"duration"` // phút
	Images      StringList      `json:"images"`
	ProvinceID  *uint           `json:"provinceId" gorm:"index"`
	Status      int             `json:"status" gorm:"not null"`
	Reviews     []Review        `json:"reviews,omitempty" gorm:"foreignKey:ServiceID"`
	Discounts   []Discount      `json:"discounts,omitempty" gorm:"foreignKey:ServiceID"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Filled from the reviews table, never stored.
	AverageRating float64 `json:"averageRating" gorm:"-"`
	ReviewCount   int64   `json:"reviewCount" gorm:"-"`
}

func (s *Service) ValidateStatus() error {
	if s.Status != constants.ServiceStatusHidden && s.Status != constants.ServiceStatusPublished {
		return fmt.Errorf("invalid Status: %d, must be either 0 or 1", s.Status)
	}
	return nil
}
