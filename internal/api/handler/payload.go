package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
)

// HeaderIdempotencyKey names the optional create deduplication header.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay is set on a create answered from an earlier request.
const HeaderIdempotentReplay = "Idempotent-Replayed"

// decodeObject reads the request body as a JSON object. Anything else, a
// non-JSON content type included, is reported as domain.ErrNotJSON.
func decodeObject(c echo.Context) (map[string]any, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return nil, domain.ErrNotJSON
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// BodyLimit reports oversized chunked bodies while reading.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return nil, err
		}
		return nil, domain.ErrNotJSON
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return nil, domain.ErrNotJSON
	}
	return payload, nil
}

func toMaps(objs []domain.Model) []map[string]any {
	out := make([]map[string]any, 0, len(objs))
	for _, m := range objs {
		out = append(out, m.ToMap())
	}
	return out
}
