package constants

// User roles
const (
	RoleCustomer = 0
	RoleProvider = 1
	RoleAdmin    = 2
)

// User status
const (
	UserStatusActive  = 1
	UserStatusBlocked = 0
)

// Service status
const (
	ServiceStatusHidden    = 0
	ServiceStatusPublished = 1
)

// Booking status, shared by bookings and interest bookings.
const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusSuggested = "suggested"
	BookingStatusCancelled = "cancelled"
)

// Job names accepted by cron and by the admin trigger endpoint.
const (
	JobCancelExpiredDiscounts     = "cancel-expired-discounts"
	JobDeactivateFinishedDiscount = "deactivate-finished-discounts"
)

// DateLayout is the date format used by request bodies and query strings.
const DateLayout = "02/01/2006"

// TimeLayout is the HH:MM booking slot format.
const TimeLayout = "15:04"
