package services

import (
	"context"
	"testing"
	"time"

	"market/constants"
	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func validDiscountRequest(serviceID uint) dto.CreateDiscountRequest {
	return dto.CreateDiscountRequest{
		ServiceID:             serviceID,
		Name:                  "Spring group deal",
		Percentage:            30,
		RequiredInterestCount: 3,
		InterestFromDate:      "01/03/2026",
		InterestToDate:        "10/03/2026",
		DiscountStartDate:     "10/03/2026",
		DiscountEndDate:       "31/03/2026",
	}
}

func TestDiscountCreateValidation(t *testing.T) {
	f := newEvaluatorFixture(t)
	svc := NewDiscountService(f.db, logger.Nop{}, f.clock.Now)
	ctx := context.Background()
	owner := Actor{ID: f.provider.ID, Role: constants.RoleProvider}

	d, err := svc.Create(ctx, owner, validDiscountRequest(f.service.ID))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), d.InterestToDate)
	assert.Zero(t, d.CurrentInterestCount)
	assert.False(t, d.IsActivated)

	other := createUser(t, f.db, constants.RoleProvider, "rival")
	_, err = svc.Create(ctx, Actor{ID: other.ID, Role: constants.RoleProvider}, validDiscountRequest(f.service.ID))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	tests := []struct {
		name   string
		mutate func(*dto.CreateDiscountRequest)
	}{
		{"window reversed", func(r *dto.CreateDiscountRequest) { r.InterestToDate = "28/02/2026" }},
		{"starts before window closes", func(r *dto.CreateDiscountRequest) { r.DiscountStartDate = "09/03/2026" }},
		{"ends before start", func(r *dto.CreateDiscountRequest) { r.DiscountEndDate = "10/03/2026" }},
		{"percentage", func(r *dto.CreateDiscountRequest) { r.Percentage = 0 }},
		{"required count", func(r *dto.CreateDiscountRequest) { r.RequiredInterestCount = 0 }},
		{"bad date", func(r *dto.CreateDiscountRequest) { r.InterestFromDate = "2026-03-01" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validDiscountRequest(f.service.ID)
			tt.mutate(&req)
			_, err := svc.Create(ctx, owner, req)
			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, 400, appErr.Status)
		})
	}
}

func TestDiscountUpdateAndDeleteLocks(t *testing.T) {
	f := newEvaluatorFixture(t)
	svc := NewDiscountService(f.db, logger.Nop{}, f.clock.Now)
	ctx := context.Background()
	owner := Actor{ID: f.provider.ID, Role: constants.RoleProvider}

	d := createDiscount(t, f.db, f.service, 1)

	updated, err := svc.Update(ctx, owner, d.ID, dto.UpdateDiscountRequest{RequiredInterestCount: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.RequiredInterestCount)

	f.joinCustomers(t, d, 2)

	_, err = svc.Update(ctx, owner, d.ID, dto.UpdateDiscountRequest{InterestToDate: strPtr("20/03/2026")})
	assert.ErrorIs(t, err, apperrors.ErrDiscountLocked)

	updated, err = svc.Update(ctx, owner, d.ID, dto.UpdateDiscountRequest{Name: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 2, updated.CurrentInterestCount)

	f.closeWindow(d)
	_, err = f.evaluator.RunThresholdEvaluation(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, d.ID, dto.UpdateDiscountRequest{Name: strPtr("Again")})
	assert.ErrorIs(t, err, apperrors.ErrDiscountLocked)
	assert.ErrorIs(t, svc.Delete(ctx, owner, d.ID), apperrors.ErrDiscountLocked)

	open := createDiscount(t, f.db, f.service, 5)
	f.clock.Set(testNow)
	f.joinCustomers(t, open, 1)
	assert.ErrorIs(t, svc.Delete(ctx, Actor{ID: 4242, Role: constants.RoleProvider}, open.ID), apperrors.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, owner, open.ID))

	var left int64
	require.NoError(t, f.db.Model(&models.Interest{}).Where("discount_id = ?", open.ID).Count(&left).Error)
	assert.Zero(t, left)
	_, err = svc.Get(ctx, open.ID)
	assert.ErrorIs(t, err, apperrors.ErrDiscountNotFound)
}

func TestDeleteCancelledDiscountWaitsForMails(t *testing.T) {
	f := newEvaluatorFixture(t)
	svc := NewDiscountService(f.db, logger.Nop{}, f.clock.Now)
	ctx := context.Background()
	owner := Actor{ID: f.provider.ID, Role: constants.RoleProvider}

	d := createDiscount(t, f.db, f.service, 5)
	customers := f.joinCustomers(t, d, 2)
	f.notifier.setFail(customers[1].Email, true)

	f.closeWindow(d)
	_, err := f.evaluator.RunThresholdEvaluation(ctx)
	require.NoError(t, err)
	require.NotNil(t, f.reload(t, d.ID).CancelledAt)
	assert.Equal(t, 1, f.notifier.count("cancelled"))

	assert.ErrorIs(t, svc.Delete(ctx, owner, d.ID), apperrors.ErrDiscountLocked)
	var kept int64
	require.NoError(t, f.db.Model(&models.Interest{}).Where("discount_id = ?", d.ID).Count(&kept).Error)
	assert.EqualValues(t, 2, kept)

	f.notifier.setFail(customers[1].Email, false)
	_, err = f.evaluator.RunThresholdEvaluation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.notifier.count("cancelled"))

	require.NoError(t, svc.Delete(ctx, owner, d.ID))
	_, err = svc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrDiscountNotFound)
}

func TestDiscountListStates(t *testing.T) {
	f := newEvaluatorFixture(t)
	svc := NewDiscountService(f.db, logger.Nop{}, f.clock.Now)
	ctx := context.Background()

	winner := createDiscount(t, f.db, f.service, 1)
	loser := createDiscount(t, f.db, f.service, 9)
	f.joinCustomers(t, winner, 1)

	list, total, err := svc.List(ctx, dto.DiscountFilter{State: DiscountStateOpen})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.NotNil(t, list[0].Service)

	f.closeWindow(winner)
	_, err = f.evaluator.RunThresholdEvaluation(ctx)
	require.NoError(t, err)

	list, _, err = svc.List(ctx, dto.DiscountFilter{State: DiscountStateActive})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, winner.ID, list[0].ID)

	list, _, err = svc.List(ctx, dto.DiscountFilter{State: DiscountStateCancelled})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, loser.ID, list[0].ID)

	_, total, err = svc.List(ctx, dto.DiscountFilter{State: DiscountStateOpen})
	require.NoError(t, err)
	assert.Zero(t, total)
}
