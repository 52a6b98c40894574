package dto

import "github.com/shopspring/decimal"

type CreateServiceRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Category    string          `json:"category" binding:"required,max=100"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration" binding:"gte=0"`
	Images      []string        `json:"images" binding:"omitempty,dive,url"`
	ProvinceID  *uint           `json:"provinceId"`
	Status      *int            `json:"status" binding:"omitempty,oneof=0 1"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	Duration    *int             `json:"duration" binding:"omitempty,gte=0"`
	Images      []string         `json:"images" binding:"omitempty,dive,url"`
	ProvinceID  *uint            `json:"provinceId"`
	Status      *int             `json:"status" binding:"omitempty,oneof=0 1"`
}

type ServiceFilter struct {
	PageQuery
	Search     string `form:"search"`
	Category   string `form:"category"`
	ProvinceID uint   `form:"provinceId"`
	ProviderID uint   `form:"providerId"`
}
