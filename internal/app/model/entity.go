package model

import "time"

// Entity holds the audit columns shared by every owned row.
// CreatedByID is set once at creation and never rewritten.
type Entity struct {
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	CreatedByID uint      `gorm:"not null;index"`
}
