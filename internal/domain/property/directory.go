package property

// Directory is a read-only index of properties and units keyed by id.
// Callers build one per request from repository results.
type Directory struct {
	properties map[uint]*Property
	units      map[uint]*Unit
}

func NewDirectory(properties []*Property, units []*Unit) *Directory {
	d := &Directory{
		properties: make(map[uint]*Property, len(properties)),
		units:      make(map[uint]*Unit, len(units)),
	}
	for _, p := range properties {
		d.properties[p.ID()] = p
	}
	for _, u := range units {
		d.units[u.ID()] = u
	}
	return d
}

func (d *Directory) Property(id uint) (*Property, bool) {
	p, ok := d.properties[id]
	return p, ok
}

func (d *Directory) Unit(id uint) (*Unit, bool) {
	u, ok := d.units[id]
	return u, ok
}

// PropertyOfUnit returns the id of the property owning the unit.
func (d *Directory) PropertyOfUnit(unitID uint) (uint, bool) {
	u, ok := d.units[unitID]
	if !ok {
		return 0, false
	}
	return u.PropertyID(), true
}

// UnitBelongsTo reports whether the unit is part of the property.
func (d *Directory) UnitBelongsTo(unitID, propertyID uint) bool {
	owner, ok := d.PropertyOfUnit(unitID)
	return ok && owner == propertyID
}
