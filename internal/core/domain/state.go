package domain

// State groups cities.
type State struct {
	Base `mapstructure:",squash"`
	Name string `json:"name" mapstructure:"name" validate:"max=128"`
}

func (s *State) Kind() Kind { return KindState }

func (s *State) Attributes() map[string]any {
	return map[string]any{"name": s.Name}
}

func (s *State) ToMap() map[string]any {
	m := s.toMap(KindState)
	m["name"] = s.Name
	return m
}

func (s *State) Clone() Model {
	c := *s
	return &c
}
