package models

import (
	"time"

	"fastighet/internal/shared/constants"
)

type PropertyModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:255;not null"`
	Address   string `gorm:"size:255"`
	City      string `gorm:"size:100"`
	CreatedAt time.Time
}

func (PropertyModel) TableName() string {
	return constants.TableProperties
}

type UnitModel struct {
	ID         uint   `gorm:"primaryKey"`
	PropertyID uint   `gorm:"not null;uniqueIndex:uk_unit_property_number,priority:1"`
	UnitNumber string `gorm:"size:20;not null;uniqueIndex:uk_unit_property_number,priority:2"`
	Floor      int    `gorm:"not null;default:0"`
}

func (UnitModel) TableName() string {
	return constants.TableUnits
}
