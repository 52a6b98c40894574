package dto

// CreateDiscountRequest là DTO cho yêu cầu tạo mới discount. Dates use
// dd/mm/yyyy.
type CreateDiscountRequest struct {
	ServiceID             uint   `json:"serviceId" binding:"required"`
	Name                  string `json:"name" binding:"required,max=200"`
	Description           string `json:"description" binding:"max=2000"`
	Percentage            int    `json:"percentage" binding:"required,gte=1,lte=100"`
	RequiredInterestCount int    `json:"requiredInterestCount" binding:"required,gte=1"`
	InterestFromDate      string `json:"interestFromDate" binding:"required,date"`
	InterestToDate        string `json:"interestToDate" binding:"required,date"`
	DiscountStartDate     string `json:"discountStartDate" binding:"required,date"`
	DiscountEndDate       string `json:"discountEndDate" binding:"required,date"`
}

// UpdateDiscountRequest là DTO cho yêu cầu cập nhật discount
type UpdateDiscountRequest struct {
	Name                  *string `json:"name" binding:"omitempty,max=200"`
	Description           *string `json:"description" binding:"omitempty,max=2000"`
	Percentage            *int    `json:"percentage" binding:"omitempty,gte=1,lte=100"`
	RequiredInterestCount *int    `json:"requiredInterestCount" binding:"omitempty,gte=1"`
	InterestFromDate      *string `json:"interestFromDate" binding:"omitempty,date"`
	InterestToDate        *string `json:"interestToDate" binding:"omitempty,date"`
	DiscountStartDate     *string `json:"discountStartDate" binding:"omitempty,date"`
	DiscountEndDate       *string `json:"discountEndDate" binding:"omitempty,date"`
}

// TouchesSchedule is true when the request changes a window or the threshold.
func (r *UpdateDiscountRequest) TouchesSchedule() bool {
	return r.RequiredInterestCount != nil || r.InterestFromDate != nil || r.InterestToDate != nil ||
		r.DiscountStartDate != nil || r.DiscountEndDate != nil
}

type DiscountFilter struct {
	PageQuery
	ServiceID  uint   `form:"serviceId"`
	ProviderID uint   `form:"providerId"`
	State      string `form:"state" binding:"omitempty,oneof=open active cancelled"`
}
