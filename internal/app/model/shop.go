package model

type Shop struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string `gorm:"type:text;not null;default:''"`
	UserID      uint   `gorm:"not null;index"`
	User        *User  `gorm:"constraint:OnDelete:CASCADE"`
	Entity
}

func (Shop) TableName() string {
	return "shops"
}
