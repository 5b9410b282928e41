package domain

// City belongs to exactly one State.
type City struct {
	Base    `mapstructure:",squash"`
	Name    string `json:"name" mapstructure:"name" validate:"max=128"`
	StateID string `json:"state_id" mapstructure:"state_id" validate:"max=60"`
}

func (c *City) Kind() Kind { return KindCity }

func (c *City) Attributes() map[string]any {
	return map[string]any{
		"name":     c.Name,
		"state_id": c.StateID,
	}
}

func (c *City) ToMap() map[string]any {
	m := c.toMap(KindCity)
	m["name"] = c.Name
	m["state_id"] = c.StateID
	return m
}

func (c *City) Clone() Model {
	cp := *c
	return &cp
}
