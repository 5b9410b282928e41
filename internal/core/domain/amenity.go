package domain

// Amenity is a feature a place can offer (Wifi, Pool, ...).
type Amenity struct {
	Base `mapstructure:",squash"`
	Name string `json:"name" mapstructure:"name" validate:"max=128"`
}

func (a *Amenity) Kind() Kind { return KindAmenity }

func (a *Amenity) Attributes() map[string]any {
	return map[string]any{"name": a.Name}
}

func (a *Amenity) ToMap() map[string]any {
	m := a.toMap(KindAmenity)
	m["name"] = a.Name
	return m
}

func (a *Amenity) Clone() Model {
	c := *a
	return &c
}
