package builders

import (
	"testing"
	"time"

	"market/constants"
	"market/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBookingBuilder(t *testing.T) {
	svc := &models.Service{ID: 7, ProviderID: 3, Price: decimal.RequireFromString("199.99")}
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	plain := NewBookingBuilder().WithCustomer(5).WithService(svc).WithSlot(date, "09:30").Build()
	assert.Equal(t, constants.BookingStatusPending, plain.Status)
	assert.Equal(t, uint(3), plain.ProviderID)
	assert.True(t, plain.FinalPrice.Equal(svc.Price))
	assert.Nil(t, plain.PromoCodeID)

	promo := &models.PromoCode{ID: 11}
	discounted := NewBookingBuilder().WithService(svc).WithPromo(promo, 20).WithNote("window seat").Build()
	assert.Equal(t, "159.99", discounted.FinalPrice.StringFixed(2))
	assert.Equal(t, uint(11), *discounted.PromoCodeID)
	assert.Equal(t, "window seat", discounted.Note)
}
