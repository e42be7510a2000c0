// Package property models housing properties and their units. Units and
// residents are referenced by id; Directory indexes them for lookups.
package property

import (
	"strings"
	"time"

	"fastighet/internal/shared/biztime"
	"fastighet/internal/shared/errors"
)

type Property struct {
	id        uint
	name      string
	address   string
	city      string
	adminIDs  []uint
	createdAt time.Time
}

func NewProperty(name, address, city string) (*Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("property name is required")
	}
	return &Property{
		name:      name,
		address:   strings.TrimSpace(address),
		city:      strings.TrimSpace(city),
		createdAt: biztime.NowUTC(),
	}, nil
}

func ReconstructProperty(id uint, name, address, city string, adminIDs []uint, createdAt time.Time) *Property {
	return &Property{
		id:        id,
		name:      name,
		address:   address,
		city:      city,
		adminIDs:  append([]uint(nil), adminIDs...),
		createdAt: createdAt,
	}
}

func (p *Property) ID() uint             { return p.id }
func (p *Property) Name() string         { return p.name }
func (p *Property) Address() string      { return p.address }
func (p *Property) City() string         { return p.city }
func (p *Property) CreatedAt() time.Time { return p.createdAt }

// AdminIDs lists the users administering this property.
func (p *Property) AdminIDs() []uint {
	return append([]uint(nil), p.adminIDs...)
}

func (p *Property) SetID(id uint) {
	if p.id == 0 {
		p.id = id
	}
}

type Unit struct {
	id          uint
	propertyID  uint
	unitNumber  string
	floor       int
	residentIDs []uint
}

func NewUnit(propertyID uint, unitNumber string, floor int) (*Unit, error) {
	if propertyID == 0 {
		return nil, errors.NewValidationError("unit must belong to a property")
	}
	unitNumber = strings.TrimSpace(unitNumber)
	if unitNumber == "" {
		return nil, errors.NewValidationError("unit number is required")
	}
	return &Unit{propertyID: propertyID, unitNumber: unitNumber, floor: floor}, nil
}

func ReconstructUnit(id, propertyID uint, unitNumber string, floor int, residentIDs []uint) *Unit {
	return &Unit{
		id:          id,
		propertyID:  propertyID,
		unitNumber:  unitNumber,
		floor:       floor,
		residentIDs: append([]uint(nil), residentIDs...),
	}
}

func (u *Unit) ID() uint           { return u.id }
func (u *Unit) PropertyID() uint   { return u.propertyID }
func (u *Unit) UnitNumber() string { return u.unitNumber }
func (u *Unit) Floor() int         { return u.floor }

func (u *Unit) ResidentIDs() []uint {
	return append([]uint(nil), u.residentIDs...)
}

func (u *Unit) SetID(id uint) {
	if u.id == 0 {
		u.id = id
	}
}
