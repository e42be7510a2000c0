package models

import (
	"time"

	"fastighet/internal/shared/constants"
)

// UserModel represents the database persistence model for users
// This is the anti-corruption layer between domain and database
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	Email     string `gorm:"uniqueIndex;not null;size:255"`
	Name      string `gorm:"not null;size:255"`
	Phone     string `gorm:"size:50"`
	Role      string `gorm:"not null;size:20;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}

// UserUnitModel links a resident or board member to the unit they live in.
type UserUnitModel struct {
	UserID     uint `gorm:"primaryKey"`
	UnitID     uint `gorm:"primaryKey"`
	PropertyID uint `gorm:"not null;index"`
}

func (UserUnitModel) TableName() string {
	return constants.TableUserUnits
}

// PropertyAdminModel links an admin to a property they administer.
type PropertyAdminModel struct {
	UserID     uint `gorm:"primaryKey"`
	PropertyID uint `gorm:"primaryKey"`
}

func (PropertyAdminModel) TableName() string {
	return constants.TablePropertyAdmins
}
