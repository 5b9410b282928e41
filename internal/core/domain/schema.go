package domain

import (
	"fmt"
	"slices"
)

// Schema describes how a Kind is exposed and stored.
type Schema struct {
	Kind Kind
	// Resource is both the URL segment and the table/collection name.
	Resource string
	// Required fields must be present in a create payload, checked in order.
	Required []string
	// Immutable fields may be set at creation but never by an update.
	Immutable []string
	// Columns lists the persisted attributes in storage order.
	Columns []string
	// References maps a foreign key attribute to the kind it points at.
	References map[string]Kind
	// SortBy is the display field used by listings.
	SortBy string
	New    func() Model
}

// baseFields are protected for every kind.
var baseFields = []string{"id", "created_at", "updated_at"}

var schemas = map[Kind]*Schema{
	KindAmenity: {
		Kind:     KindAmenity,
		Resource: "amenities",
		Required: []string{"name"},
		Columns:  []string{"name"},
		SortBy:   "name",
		New:      func() Model { return &Amenity{} },
	},
	KindCity: {
		Kind:       KindCity,
		Resource:   "cities",
		Required:   []string{"name", "state_id"},
		Immutable:  []string{"state_id"},
		Columns:    []string{"name", "state_id"},
		References: map[string]Kind{"state_id": KindState},
		SortBy:     "name",
		New:        func() Model { return &City{} },
	},
	KindState: {
		Kind:     KindState,
		Resource: "states",
		Required: []string{"name"},
		Columns:  []string{"name"},
		SortBy:   "name",
		New:      func() Model { return &State{} },
	},
	KindUser: {
		Kind:      KindUser,
		Resource:  "users",
		Required:  []string{"email", "password"},
		Immutable: []string{"email"},
		Columns:   []string{"email", "password", "first_name", "last_name"},
		SortBy:    "email",
		New:       func() Model { return &User{} },
	},
}

// SchemaFor returns the schema registered for kind.
func SchemaFor(kind Kind) (*Schema, error) {
	s, ok := schemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return s, nil
}

// MustSchema is SchemaFor for kinds known at compile time.
func MustSchema(kind Kind) *Schema {
	s, err := SchemaFor(kind)
	if err != nil {
		panic(err)
	}
	return s
}

// Kinds returns every registered kind in a stable order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(schemas))
	for k := range schemas {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// KindForResource resolves a URL segment such as "amenities" or a kind name
// such as "Amenity".
func KindForResource(name string) (Kind, bool) {
	for _, s := range schemas {
		if s.Resource == name || string(s.Kind) == name {
			return s.Kind, true
		}
	}
	return "", false
}

// Protected reports whether an update may not modify field.
func (s *Schema) Protected(field string) bool {
	return slices.Contains(baseFields, field) || slices.Contains(s.Immutable, field)
}

// Dependents returns the kinds holding a reference to s.Kind, keyed by the
// referencing attribute.
func (s *Schema) Dependents() map[Kind]string {
	deps := make(map[Kind]string)
	for _, other := range schemas {
		for field, target := range other.References {
			if target == s.Kind {
				deps[other.Kind] = field
			}
		}
	}
	return deps
}
