package dto

type AddressInput struct {
	Street     string `json:"street" binding:"max=255"`
	ProvinceID *uint  `json:"provinceId"`
	DistrictID *uint  `json:"districtId"`
	WardID     *uint  `json:"wardId"`
}

type UpdateProfileRequest struct {
	Name        *string       `json:"name" binding:"omitempty,max=100"`
	PhoneNumber *string       `json:"phoneNumber" binding:"omitempty,len=10,numeric"`
	Avatar      *string       `json:"avatar" binding:"omitempty,url"`
	Bio         *string       `json:"bio" binding:"omitempty,max=1000"`
	Address     *AddressInput `json:"address"`
}

type UserFilter struct {
	PageQuery
	Name   string `form:"name"`
	Role   *int   `form:"role"`
	Status *int   `form:"status"`
}

type ChangeUserStatusRequest struct {
	Status *int `json:"status" binding:"required,oneof=0 1"`
}
