package dto

// Booking actions
const (
	ActionApprove = "approve"
	ActionSuggest = "suggest"
	ActionAccept  = "accept"
	ActionCancel  = "cancel"
)

type CreateBookingRequest struct {
	ServiceID uint   `json:"serviceId" binding:"required"`
	Date      string `json:"date" binding:"required,date"`
	Time      string `json:"time" binding:"required,hhmm"`
	PromoCode string `json:"promoCode" binding:"omitempty,max=32"`
	Note      string `json:"note" binding:"max=1000"`
}

// BookingStatusRequest drives the booking state machine. Date and Time are
// only read for "suggest".
type BookingStatusRequest struct {
	Action string `json:"action" binding:"required,oneof=approve suggest accept cancel"`
	Date   string `json:"date" binding:"omitempty,date"`
	Time   string `json:"time" binding:"omitempty,hhmm"`
}

type BookingFilter struct {
	PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending approved suggested cancelled"`
}

// InterestBookingRequest is sent by the customer on an activated interest.
// Accept takes the provider's suggested slot instead of proposing one.
type InterestBookingRequest struct {
	Accept bool   `json:"accept"`
	Date   string `json:"date" binding:"omitempty,date"`
	Time   string `json:"time" binding:"omitempty,hhmm"`
}

// InterestBookingDecision is sent by the provider.
type InterestBookingDecision struct {
	Action string `json:"action" binding:"required,oneof=approve suggest"`
	Date   string `json:"date" binding:"omitempty,date"`
	Time   string `json:"time" binding:"omitempty,hhmm"`
}
