package model

import "github.com/shopspring/decimal"

type Product struct {
	ID         uint            `gorm:"primarykey"`
	Name       string          `gorm:"type:varchar(255);not null"`
	Quantity   int             `gorm:"not null;index"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ShopID     uint            `gorm:"not null;index"`
	Shop       *Shop           `gorm:"constraint:OnDelete:CASCADE"`
	Image      *string         `gorm:"type:varchar(500)"`
	Variations Variations      `gorm:"not null"`
	Rating     decimal.Decimal `gorm:"type:decimal(2,1);not null"`
	Category   string          `gorm:"type:varchar(50);not null;default:''"`
	Entity
}

func (Product) TableName() string {
	return "products"
}

// InStock reports whether the product can appear in public listings
func (p *Product) InStock() bool {
	return p.Quantity > 0
}
