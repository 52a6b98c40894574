package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newDiscount(now time.Time) Discount {
	return Discount{
		Percentage:            20,
		RequiredInterestCount: 3,
		InterestFromDate:      now.Add(-48 * time.Hour),
		InterestToDate:        now.Add(24 * time.Hour),
		DiscountStartDate:     now.Add(48 * time.Hour),
		DiscountEndDate:       now.Add(96 * time.Hour),
	}
}

func TestDiscountWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := newDiscount(now)

	assert.True(t, d.InterestWindowOpen(now))
	assert.False(t, d.InterestWindowClosed(now))
	assert.True(t, d.InterestWindowClosed(d.InterestToDate))
	assert.False(t, d.InterestWindowOpen(d.InterestToDate))
	assert.False(t, d.InterestWindowOpen(d.InterestFromDate.Add(-time.Second)))

	cancelled := now
	d.CancelledAt = &cancelled
	assert.False(t, d.InterestWindowOpen(now))
}

func TestDiscountThresholdAndFinished(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := newDiscount(now)

	d.CurrentInterestCount = 2
	assert.False(t, d.ThresholdMet())
	d.CurrentInterestCount = 3
	assert.True(t, d.ThresholdMet())

	assert.False(t, d.Finished(now))
	assert.True(t, d.Finished(d.DiscountEndDate))
}

func TestDiscountValidation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d := newDiscount(now)
	assert.NoError(t, d.ValidateWindows())
	assert.NoError(t, d.ValidatePercentage())

	d.DiscountStartDate = d.InterestToDate.Add(-time.Hour)
	assert.Error(t, d.ValidateWindows())

	d = newDiscount(now)
	d.InterestToDate = d.InterestFromDate
	assert.Error(t, d.ValidateWindows())

	d = newDiscount(now)
	d.DiscountEndDate = d.DiscountStartDate
	assert.Error(t, d.ValidateWindows())

	d.Percentage = 0
	assert.Error(t, d.ValidatePercentage())
	d.Percentage = 101
	assert.Error(t, d.ValidatePercentage())
}
