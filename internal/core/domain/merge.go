package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// FieldSetter lets a model take over assignment of selected fields.
// It returns false when the field should be assigned as-is.
type FieldSetter interface {
	SetField(name string, value any) (bool, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		return name
	})
	return v
}

// Assign copies payload fields onto a freshly constructed model. Only the
// base fields are protected; kind-specific immutables may be set here.
func Assign(m Model, payload map[string]any) error {
	return apply(m, payload, func(field string) bool {
		return MustSchema(m.Kind()).Protected(field) && !isImmutable(m.Kind(), field)
	})
}

// Merge copies the updatable payload fields onto m. Protected fields and keys
// that do not name a column are ignored.
func Merge(m Model, payload map[string]any) error {
	return apply(m, payload, MustSchema(m.Kind()).Protected)
}

func isImmutable(kind Kind, field string) bool {
	for _, f := range MustSchema(kind).Immutable {
		if f == field {
			return true
		}
	}
	return false
}

func apply(m Model, payload map[string]any, protected func(string) bool) error {
	schema := MustSchema(m.Kind())
	fields := make(map[string]any, len(schema.Columns))
	for _, col := range schema.Columns {
		v, ok := payload[col]
		if !ok || protected(col) {
			continue
		}
		if setter, ok := m.(FieldSetter); ok {
			handled, err := setter.SetField(col, v)
			if err != nil {
				return err
			}
			if handled {
				continue
			}
		}
		if _, ok := v.(string); !ok {
			return &ValueError{Field: col, Reason: "must be a string"}
		}
		fields[col] = v
	}
	if err := decode(m, fields); err != nil {
		return err
	}
	return Validate(m)
}

// Validate checks field constraints declared on the model struct.
func Validate(m Model) error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "max":
			return &ValueError{Field: fe.Field(), Reason: fmt.Sprintf("must be at most %s characters", fe.Param())}
		default:
			return &ValueError{Field: fe.Field(), Reason: fmt.Sprintf("failed validation (%s)", fe.Tag())}
		}
	}
	return err
}

// Record flattens m into the form persisted by the file and SQL backends.
func Record(m Model) map[string]any {
	base := m.Meta()
	rec := map[string]any{
		"__class__":  string(m.Kind()),
		"id":         base.ID,
		"created_at": base.CreatedAt.UTC().Format(TimeFormat),
		"updated_at": base.UpdatedAt.UTC().Format(TimeFormat),
	}
	for k, v := range m.Attributes() {
		rec[k] = v
	}
	return rec
}

// Load rebuilds a model of kind from a stored record. Setters are bypassed
// so stored values such as password hashes are kept verbatim.
func Load(kind Kind, rec map[string]any) (Model, error) {
	schema, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	m := schema.New()
	clean := make(map[string]any, len(rec))
	for k, v := range rec {
		if k == "__class__" || v == nil {
			continue
		}
		clean[k] = v
	}
	if err := decode(m, clean); err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return m, nil
}

func decode(m Model, input map[string]any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     m,
		Squash:     true,
		DecodeHook: mapstructure.DecodeHookFuncType(storedTime),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return &ValueError{Reason: err.Error()}
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

func storedTime(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	return ParseTime(data.(string))
}
