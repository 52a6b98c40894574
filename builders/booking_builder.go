package builders

import (
	"time"

	"market/constants"
	"market/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BookingBuilder giúp tạo booking theo từng bước
type BookingBuilder struct {
	booking *models.Booking
}

// NewBookingBuilder tạo instance mới của BookingBuilder, status pending
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: &models.Booking{Status: constants.BookingStatusPending},
	}
}

// WithCustomer thêm thông tin khách
func (b *BookingBuilder) WithCustomer(customerID uint) *BookingBuilder {
	b.booking.CustomerID = customerID
	return b
}

// WithService copies the service, its provider and its price.
func (b *BookingBuilder) WithService(svc *models.Service) *BookingBuilder {
	b.booking.ServiceID = svc.ID
	b.booking.ProviderID = svc.ProviderID
	b.booking.Price = svc.Price
	b.booking.FinalPrice = svc.Price
	return b
}

// WithSlot thêm ngày giờ hẹn
func (b *BookingBuilder) WithSlot(date time.Time, slot string) *BookingBuilder {
	b.booking.Date = date
	b.booking.Time = slot
	return b
}

func (b *BookingBuilder) WithNote(note string) *BookingBuilder {
	b.booking.Note = note
	return b
}

// WithPromo applies the discount percentage of a redeemed code to the price.
func (b *BookingBuilder) WithPromo(promo *models.PromoCode, percentage int) *BookingBuilder {
	b.booking.PromoCodeID = &promo.ID
	off := decimal.NewFromInt(int64(100 - percentage))
	b.booking.FinalPrice = b.booking.Price.Mul(off).Div(hundred).Round(2)
	return b
}

// Build tạo booking hoàn chỉnh
func (b *BookingBuilder) Build() *models.Booking {
	return b.booking
}
