package dto

type CreateReviewRequest struct {
	ServiceID uint   `json:"serviceId" binding:"required"`
	Star      int    `json:"star" binding:"required,gte=1,lte=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	Star    *int    `json:"star" binding:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}
