package models

import (
	"errors"

	"market/constants"
)

var (
	ErrAlreadyApproved  = errors.New("booking already approved")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrNothingSuggested = errors.New("no slot has been suggested")
)

// BookingState định nghĩa interface cho các trạng thái booking. The same
// machine drives standalone bookings and interest bookings.
type BookingState interface {
	Approve() (string, error)
	Suggest() (string, error)
	AcceptSuggestion() (string, error)
	Cancel() (string, error)
}

// PendingState trạng thái chờ provider xác nhận
type PendingState struct{}

func (PendingState) Approve() (string, error) { return constants.BookingStatusApproved, nil }
func (PendingState) Suggest() (string, error) { return constants.BookingStatusSuggested, nil }
func (PendingState) AcceptSuggestion() (string, error) {
	return "", ErrNothingSuggested
}
func (PendingState) Cancel() (string, error) { return constants.BookingStatusCancelled, nil }

// SuggestedState: provider proposed another slot, the customer decides.
type SuggestedState struct{}

func (SuggestedState) Approve() (string, error) { return constants.BookingStatusApproved, nil }
func (SuggestedState) Suggest() (string, error) { return constants.BookingStatusSuggested, nil }
func (SuggestedState) AcceptSuggestion() (string, error) {
	return constants.BookingStatusApproved, nil
}
func (SuggestedState) Cancel() (string, error) { return constants.BookingStatusCancelled, nil }

// ApprovedState trạng thái đã xác nhận
type ApprovedState struct{}

func (ApprovedState) Approve() (string, error)          { return "", ErrAlreadyApproved }
func (ApprovedState) Suggest() (string, error)          { return constants.BookingStatusSuggested, nil }
func (ApprovedState) AcceptSuggestion() (string, error) { return "", ErrNothingSuggested }
func (ApprovedState) Cancel() (string, error)           { return constants.BookingStatusCancelled, nil }

// CancelledState trạng thái đã hủy
type CancelledState struct{}

func (CancelledState) Approve() (string, error)          { return "", ErrAlreadyCancelled }
func (CancelledState) Suggest() (string, error)          { return "", ErrAlreadyCancelled }
func (CancelledState) AcceptSuggestion() (string, error) { return "", ErrAlreadyCancelled }
func (CancelledState) Cancel() (string, error)           { return "", ErrAlreadyCancelled }

// GetBookingState trả về state tương ứng với trạng thái booking
func GetBookingState(status string) BookingState {
	switch status {
	case constants.BookingStatusApproved:
		return ApprovedState{}
	case constants.BookingStatusSuggested:
		return SuggestedState{}
	case constants.BookingStatusCancelled:
		return CancelledState{}
	default:
		return PendingState{}
	}
}
