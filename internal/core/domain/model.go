package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the layout used for timestamps in serialized objects.
const TimeFormat = "2006-01-02T15:04:05.000000"

// ParseTime reads a stored timestamp. Zone-less values in TimeFormat, with
// or without the fraction, are taken as UTC; RFC 3339 is accepted too.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Kind names a resource type (Amenity, User, State, City).
type Kind string

const (
	KindAmenity Kind = "Amenity"
	KindUser    Kind = "User"
	KindState   Kind = "State"
	KindCity    Kind = "City"
)

// Model is implemented by every resource type held by the storage layer.
type Model interface {
	Kind() Kind
	// Meta exposes the identifier and timestamps shared by all kinds.
	Meta() *Base
	// Attributes returns the persisted resource fields, excluding Base.
	Attributes() map[string]any
	// ToMap returns the public JSON representation of the object.
	ToMap() map[string]any
	Clone() Model
}

// Base carries the fields common to every resource.
type Base struct {
	ID        string    `json:"id" mapstructure:"id"`
	CreatedAt time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt time.Time `json:"updated_at" mapstructure:"updated_at"`
}

// NewBase assigns a fresh identifier and sets both timestamps to now.
func NewBase(now time.Time) Base {
	now = now.UTC().Truncate(time.Microsecond)
	return Base{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *Base) Meta() *Base { return b }

// Touch refreshes UpdatedAt.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now.UTC().Truncate(time.Microsecond)
}

// Key is the storage key of an object: "<Kind>.<id>".
func Key(kind Kind, id string) string {
	return string(kind) + "." + id
}

func (b *Base) toMap(kind Kind) map[string]any {
	return map[string]any{
		"__class__":  string(kind),
		"id":         b.ID,
		"created_at": b.CreatedAt.UTC().Format(TimeFormat),
		"updated_at": b.UpdatedAt.UTC().Format(TimeFormat),
	}
}
