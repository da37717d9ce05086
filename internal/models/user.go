package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string  `gorm:"uniqueIndex;not null"`
	Password    string  `gorm:"not null"`
	DisplayName string  `gorm:"not null"`
	Role        string  `gorm:"default:'user'"`
	IsCreator   bool    `gorm:"default:false"`
	Status      string  `gorm:"default:'active'"`
	WalletID    *uint   `gorm:"unique;default:null"`
	Wallet      *Wallet `gorm:"foreignKey:WalletID"`
}
