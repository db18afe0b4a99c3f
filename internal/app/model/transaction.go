package model

import "github.com/shopspring/decimal"

// Transaction is a completed purchase of a single product line.
type Transaction struct {
	ID                  uint            `gorm:"primarykey"`
	ProductID           uint            `gorm:"not null;index"`
	Product             *Product        `gorm:"constraint:OnDelete:CASCADE"`
	Quantity            int             `gorm:"not null"`
	UserID              uint            `gorm:"not null;index"`
	User                *User           `gorm:"constraint:OnDelete:CASCADE"`
	ItemPriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Entity
}

func (Transaction) TableName() string {
	return "transactions"
}
