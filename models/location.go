package models

type Province struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null"`
	Code      string     `json:"code" gorm:"uniqueIndex"`
	Districts []District `json:"districts,omitempty" gorm:"foreignKey:ProvinceID"`
}

type District struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ProvinceID uint   `json:"provinceId" gorm:"index;not null"`
	Name       string `json:"name" gorm:"not null"`
	Wards      []Ward `json:"wards,omitempty" gorm:"foreignKey:DistrictID"`
}

type Ward struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	DistrictID uint   `json:"districtId" gorm:"index;not null"`
	Name       string `json:"name" gorm:"not null"`
}
