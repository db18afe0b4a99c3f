package model

type Cart struct {
	ID        uint     `gorm:"primarykey"`
	UserID    uint     `gorm:"not null;index"`
	User      *User    `gorm:"constraint:OnDelete:CASCADE"`
	ProductID uint     `gorm:"not null;index"`
	Product   *Product `gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int      `gorm:"not null"`
	Entity
}

func (Cart) TableName() string {
	return "carts"
}
