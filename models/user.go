package models

import (
	"fmt"
	"time"

	"market/constants"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Name        string    `gorm:"default:New User" json:"name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	PhoneNumber *string   `gorm:"uniqueIndex;type:varchar(15)" json:"phoneNumber"`
	Avatar      string    `json:"avatar"`
	Role        int       `gorm:"default:0;index" json:"role"`
	Status      int       `gorm:"default:1" json:"status"`
	Bio         string    `json:"bio"`
	Address     *Address  `gorm:"foreignKey:UserID" json:"address,omitempty"`
}

func (u *User) IsCustomer() bool { return u.Role == constants.RoleCustomer }
func (u *User) IsProvider() bool { return u.Role == constants.RoleProvider }
func (u *User) IsAdmin() bool    { return u.Role == constants.RoleAdmin }

func (u *User) ValidateRole() error {
	if u.Role < constants.RoleCustomer || u.Role > constants.RoleAdmin {
		return fmt.Errorf("invalid Role: %d, must be between 0 and 2", u.Role)
	}
	return nil
}

// Address belongs to a user; the three location ids feed the cascading
// province → district → ward selects.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Street     string    `json:"street"`
	ProvinceID *uint     `json:"provinceId"`
	DistrictID *uint     `json:"districtId"`
	WardID     *uint     `json:"wardId"`
	Province   *Province `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
	District   *District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
	Ward       *Ward     `gorm:"foreignKey:WardID" json:"ward,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
