package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/service"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/file"
)

func newService(t *testing.T) *service.ResourceService {
	t.Helper()
	store, err := file.Open(file.Config{})
	require.NoError(t, err)
	return service.NewResourceService(store, zerolog.Nop())
}

func run(svc *service.ResourceService, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCmd(svc)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return strings.TrimSpace(out.String()), err
}

func TestConsole_CreateShowUpdateDestroy(t *testing.T) {
	svc := newService(t)

	id, err := run(svc, "create", "State", `name="New_York"`)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	out, err := run(svc, "show", "State", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "New York"`)

	_, err = run(svc, "update", "State", id, "name", `"Vermont"`)
	require.NoError(t, err)
	obj, err := svc.Get(context.Background(), domain.KindState, id)
	require.NoError(t, err)
	assert.Equal(t, "Vermont", obj.(*domain.State).Name)

	out, err = run(svc, "count", "states")
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	_, err = run(svc, "destroy", "State", id)
	require.NoError(t, err)
	_, err = run(svc, "show", "State", id)
	assert.ErrorIs(t, err, ErrNoInstance)
}

func TestConsole_All(t *testing.T) {
	svc := newService(t)
	_, err := run(svc, "create", "Amenity", "name=Wifi")
	require.NoError(t, err)
	_, err = run(svc, "create", "State", "name=Nevada")
	require.NoError(t, err)

	out, err := run(svc, "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Wifi")
	assert.Contains(t, out, "Nevada")

	out, err = run(svc, "all", "Amenity")
	require.NoError(t, err)
	assert.Contains(t, out, "Wifi")
	assert.NotContains(t, out, "Nevada")
}

func TestConsole_ArgumentErrors(t *testing.T) {
	svc := newService(t)
	cases := []struct {
		args []string
		want error
	}{
		{[]string{"create"}, ErrClassMissing},
		{[]string{"create", "Place"}, ErrNoClass},
		{[]string{"show", "State"}, ErrIDMissing},
		{[]string{"show", "State", "nope"}, ErrNoInstance},
		{[]string{"destroy", "User", "nope"}, ErrNoInstance},
		{[]string{"update", "State", "nope"}, ErrAttrMissing},
		{[]string{"update", "State", "nope", "name"}, ErrValueMissing},
		{[]string{"update", "State", "nope", "name", "x"}, ErrNoInstance},
	}
	for _, tc := range cases {
		_, err := run(svc, tc.args...)
		assert.ErrorIs(t, err, tc.want, "args %v", tc.args)
	}
}

func TestConsole_CreateMissingField(t *testing.T) {
	svc := newService(t)
	_, err := run(svc, "create", "User", "email=a@b.com")
	var mf *domain.MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "password", mf.Field)
}

func TestParseParams(t *testing.T) {
	got := parseParams([]string{`name="My_little_house"`, "bogus", "=x", "number_rooms=4", `quote="a\"b"`})
	assert.Equal(t, map[string]any{
		"name":         "My little house",
		"number_rooms": "4",
		"quote":        `a"b`,
	}, got)
}
