package model

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Variations is an ordered list of product variant labels. It maps to a
// native text[] column on Postgres and to the same array literal stored
// as text elsewhere.
type Variations []string

func (v Variations) Value() (driver.Value, error) {
	if v == nil {
		v = Variations{}
	}
	return pq.StringArray(v).Value()
}

func (v *Variations) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	if arr == nil {
		arr = pq.StringArray{}
	}
	*v = Variations(arr)
	return nil
}

func (Variations) GormDataType() string {
	return "variations"
}

func (Variations) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
