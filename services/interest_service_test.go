package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"market/constants"
	"market/dto"
	apperrors "market/errors"
	"market/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCountMatchesRows(t *testing.T, f *evaluatorFixture, discountID uint) {
	t.Helper()
	var rows int64
	require.NoError(t, f.db.Model(&models.Interest{}).Where("discount_id = ?", discountID).Count(&rows).Error)
	assert.Equal(t, int(rows), f.reload(t, discountID).CurrentInterestCount)
}

func TestInterestCountFollowsRows(t *testing.T) {
	f := newEvaluatorFixture(t)
	ctx := context.Background()
	d := createDiscount(t, f.db, f.service, 10)
	customers := f.joinCustomers(t, d, 3)
	assertCountMatchesRows(t, f, d.ID)

	var first models.Interest
	require.NoError(t, f.db.Where("customer_id = ? AND discount_id = ?", customers[0].ID, d.ID).First(&first).Error)
	require.NoError(t, f.interests.RemoveInterest(ctx, customers[0].ID, first.ID))
	assertCountMatchesRows(t, f, d.ID)
	assert.Equal(t, 2, f.reload(t, d.ID).CurrentInterestCount)

	_, err := f.interests.AddInterest(ctx, customers[0].ID, d.ID)
	require.NoError(t, err)
	_, err = f.interests.AddInterest(ctx, customers[1].ID, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrInterestExists)
	assertCountMatchesRows(t, f, d.ID)
	assert.Equal(t, 3, f.reload(t, d.ID).CurrentInterestCount)

	assert.Equal(t, 4, f.notifier.count("interest"))
}

func TestConcurrentInterestsKeepCount(t *testing.T) {
	f := newEvaluatorFixture(t)
	d := createDiscount(t, f.db, f.service, 50)

	var users []models.User
	for i := 0; i < 8; i++ {
		users = append(users, createUser(t, f.db, constants.RoleCustomer, fmt.Sprintf("c%d", i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(users)*2)
	for _, u := range users {
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()
				_, err := f.interests.AddInterest(context.Background(), id, d.ID)
				errs <- err
			}(u.ID)
		}
	}
	wg.Wait()
	close(errs)

	dup := 0
	for err := range errs {
		if err != nil {
			require.ErrorIs(t, err, apperrors.ErrInterestExists)
			dup++
		}
	}
	assert.Equal(t, len(users), dup)
	assertCountMatchesRows(t, f, d.ID)
	assert.Equal(t, len(users), f.reload(t, d.ID).CurrentInterestCount)
}

func TestAddInterestOutsideWindow(t *testing.T) {
	f := newEvaluatorFixture(t)
	ctx := context.Background()
	d := createDiscount(t, f.db, f.service, 2)
	u := createUser(t, f.db, constants.RoleCustomer, "late")

	f.clock.Set(d.InterestFromDate.AddDate(0, 0, -1))
	_, err := f.interests.AddInterest(ctx, u.ID, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrInterestWindow)

	f.clock.Set(d.InterestToDate)
	_, err = f.interests.AddInterest(ctx, u.ID, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrInterestWindow)

	_, err = f.interests.AddInterest(ctx, u.ID, 9999)
	assert.ErrorIs(t, err, apperrors.ErrDiscountNotFound)

	assertCountMatchesRows(t, f, d.ID)
	assert.Zero(t, f.reload(t, d.ID).CurrentInterestCount)
}

func TestRemoveInterestRules(t *testing.T) {
	f := newEvaluatorFixture(t)
	ctx := context.Background()
	d := createDiscount(t, f.db, f.service, 1)
	customers := f.joinCustomers(t, d, 1)
	other := createUser(t, f.db, constants.RoleCustomer, "other")

	var it models.Interest
	require.NoError(t, f.db.Where("discount_id = ?", d.ID).First(&it).Error)

	assert.ErrorIs(t, f.interests.RemoveInterest(ctx, other.ID, it.ID), apperrors.ErrForbidden)
	assert.ErrorIs(t, f.interests.RemoveInterest(ctx, other.ID, 9999), apperrors.ErrInterestNotFound)

	f.closeWindow(d)
	_, err := f.evaluator.RunThresholdEvaluation(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, f.interests.RemoveInterest(ctx, customers[0].ID, it.ID), apperrors.ErrDiscountLocked)
	assertCountMatchesRows(t, f, d.ID)
}

func TestInterestBookingFlow(t *testing.T) {
	f := newEvaluatorFixture(t)
	ctx := context.Background()
	d := createDiscount(t, f.db, f.service, 1)
	customers := f.joinCustomers(t, d, 1)
	providerActor := Actor{ID: f.provider.ID, Role: constants.RoleProvider}

	var it models.Interest
	require.NoError(t, f.db.Where("discount_id = ?", d.ID).First(&it).Error)

	_, err := f.interests.RequestBooking(ctx, customers[0].ID, it.ID, dto.InterestBookingRequest{Date: "10/03/2026", Time: "10:00"})
	assert.ErrorIs(t, err, apperrors.ErrDiscountNotActive)

	f.closeWindow(d)
	_, err = f.evaluator.RunThresholdEvaluation(ctx)
	require.NoError(t, err)

	// Activated but the discount has not started yet.
	_, err = f.interests.RequestBooking(ctx, customers[0].ID, it.ID, dto.InterestBookingRequest{Date: "10/03/2026", Time: "10:00"})
	assert.ErrorIs(t, err, apperrors.ErrDiscountNotActive)

	f.clock.Set(d.DiscountStartDate.Add(time.Hour))
	got, err := f.interests.RequestBooking(ctx, customers[0].ID, it.ID, dto.InterestBookingRequest{Date: "10/03/2026", Time: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, constants.BookingStatusPending, got.BookingStatus)

	_, err = f.interests.RequestBooking(ctx, customers[0].ID, it.ID, dto.InterestBookingRequest{Accept: true})
	assert.Error(t, err)

	stranger := Actor{ID: customers[0].ID, Role: constants.RoleProvider}
	_, err = f.interests.UpdateBookingStatus(ctx, stranger, it.ID, dto.InterestBookingDecision{Action: dto.ActionApprove})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	got, err = f.interests.UpdateBookingStatus(ctx, providerActor, it.ID, dto.InterestBookingDecision{Action: dto.ActionSuggest, Date: "11/03/2026", Time: "15:30"})
	require.NoError(t, err)
	assert.Equal(t, constants.BookingStatusSuggested, got.BookingStatus)
	assert.Equal(t, "15:30", got.BookingTime)
	assert.Equal(t, 1, f.notifier.count("slot_suggested"))

	got, err = f.interests.RequestBooking(ctx, customers[0].ID, it.ID, dto.InterestBookingRequest{Accept: true})
	require.NoError(t, err)
	assert.Equal(t, constants.BookingStatusApproved, got.BookingStatus)

	_, err = f.interests.UpdateBookingStatus(ctx, providerActor, it.ID, dto.InterestBookingDecision{Action: dto.ActionApprove})
	assert.Error(t, err)

	var stored models.Interest
	require.NoError(t, f.db.First(&stored, it.ID).Error)
	assert.Equal(t, constants.BookingStatusApproved, stored.BookingStatus)
	assert.Equal(t, "15:30", stored.BookingTime)
}

func TestInterestBookingAfterDiscountEnded(t *testing.T) {
	f := newEvaluatorFixture(t)
	ctx := context.Background()
	d := createDiscount(t, f.db, f.service, 1)
	customers := f.joinCustomers(t, d, 1)
	providerActor := Actor{ID: f.provider.ID, Role: constants.RoleProvider}

	var it models.Interest
	require.NoError(t, f.db.Where("discount_id = ?", d.ID).First(&it).Error)

	f.closeWindow(d)
	_, err := f.evaluator.RunThresholdEvaluation(ctx)
	require.NoError(t, err)

	f.clock.Set(d.DiscountStartDate.Add(time.Hour))
	_, err = f.interests.RequestBooking(ctx, customers[0].ID, it.ID, dto.InterestBookingRequest{Date: "10/03/2026", Time: "10:00"})
	require.NoError(t, err)
	_, err = f.interests.UpdateBookingStatus(ctx, providerActor, it.ID, dto.InterestBookingDecision{Action: dto.ActionSuggest, Date: "11/03/2026", Time: "15:30"})
	require.NoError(t, err)

	f.clock.Set(d.DiscountEndDate)
	_, err = f.interests.RequestBooking(ctx, customers[0].ID, it.ID, dto.InterestBookingRequest{Accept: true})
	assert.ErrorIs(t, err, apperrors.ErrDiscountNotActive)
	_, err = f.interests.RequestBooking(ctx, customers[0].ID, it.ID, dto.InterestBookingRequest{Date: "12/03/2026", Time: "09:00"})
	assert.ErrorIs(t, err, apperrors.ErrDiscountNotActive)
	_, err = f.interests.UpdateBookingStatus(ctx, providerActor, it.ID, dto.InterestBookingDecision{Action: dto.ActionApprove})
	assert.ErrorIs(t, err, apperrors.ErrDiscountNotActive)

	var stored models.Interest
	require.NoError(t, f.db.First(&stored, it.ID).Error)
	assert.Equal(t, constants.BookingStatusSuggested, stored.BookingStatus)
}

func TestListDiscountInterestsOwnership(t *testing.T) {
	f := newEvaluatorFixture(t)
	ctx := context.Background()
	d := createDiscount(t, f.db, f.service, 3)
	f.joinCustomers(t, d, 2)

	list, err := f.interests.ListDiscountInterests(ctx, Actor{ID: f.provider.ID, Role: constants.RoleProvider}, d.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NotNil(t, list[0].Customer)

	_, err = f.interests.ListDiscountInterests(ctx, Actor{ID: 999, Role: constants.RoleProvider}, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.interests.ListDiscountInterests(ctx, Actor{ID: 999, Role: constants.RoleAdmin}, d.ID)
	assert.NoError(t, err)
}
