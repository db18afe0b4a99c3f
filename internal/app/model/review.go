package model

import "github.com/shopspring/decimal"

type Review struct {
	ID        uint            `gorm:"primarykey"`
	Message   string          `gorm:"type:text;not null;default:''"`
	Rating    decimal.Decimal `gorm:"type:decimal(2,1);not null"`
	ProductID uint            `gorm:"not null;index"`
	Product   *Product        `gorm:"constraint:OnDelete:CASCADE"`
	UserID    uint            `gorm:"not null;index"`
	User      *User           `gorm:"constraint:OnDelete:CASCADE"`
	Entity
}

func (Review) TableName() string {
	return "reviews"
}
