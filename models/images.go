package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is stored as a native text[] on postgres and as the array
// literal in a text column elsewhere.
type StringList pq.StringArray

func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *StringList) Scan(src interface{}) error {
	return (*pq.StringArray)(l).Scan(src)
}

// GormDataType is the column type outside postgres.
func (StringList) GormDataType() string { return "text" }

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
