// Package web serves the read-only HTML pages listing states and cities.
package web

import (
	"cmp"
	"net/http"
	"slices"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/hbnb-clone/hbnb-api/internal/api/middleware"
	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
)

const sessionKey = "storage_session"

type Handler struct {
	store  ports.Storage
	logger zerolog.Logger
}

func NewHandler(store ports.Storage, logger zerolog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts the pages on e. Every page runs inside a storage session
// that is closed once the response is written, whatever the outcome.
func (h *Handler) Register(e *echo.Echo) {
	g := e.Group("", h.session)
	g.GET("/states_list", h.StatesList)
	g.GET("/cities_by_states", h.CitiesByStates)
	g.GET("/states", h.StatesList)
	g.GET("/states/:id", h.State)
}

func (h *Handler) session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := h.store.Session(c.Request().Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := sess.Close(); cerr != nil {
				h.logger.Warn().Err(cerr).Msg("session close failed")
			}
		}()
		c.Set(sessionKey, sess)
		return next(c)
	}
}

func (h *Handler) StatesList(c echo.Context) error {
	states, err := h.loadStates(c, false)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, StatesList(states))
}

func (h *Handler) CitiesByStates(c echo.Context) error {
	states, err := h.loadStates(c, true)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, CitiesByStates(states))
}

func (h *Handler) State(c echo.Context) error {
	states, err := h.loadStates(c, true)
	if err != nil {
		return err
	}
	id := c.Param("id")
	for _, s := range states {
		if s.ID == id {
			return render(c, http.StatusOK, StateDetail(s))
		}
	}
	return render(c, http.StatusNotFound, NotFound())
}

// loadStates returns every state sorted by name, with their cities when
// withCities is set.
func (h *Handler) loadStates(c echo.Context, withCities bool) ([]StateView, error) {
	ctx := c.Request().Context()
	sess := c.Get(sessionKey).(ports.Session)

	states, err := sess.All(ctx, domain.KindState)
	if err != nil {
		return nil, err
	}
	byState := make(map[string][]CityView)
	if withCities {
		cities, err := sess.All(ctx, domain.KindCity)
		if err != nil {
			return nil, err
		}
		for _, m := range cities {
			city := m.(*domain.City)
			byState[city.StateID] = append(byState[city.StateID], CityView{ID: city.ID, Name: city.Name})
		}
	}

	out := make([]StateView, 0, len(states))
	for _, m := range states {
		st := m.(*domain.State)
		cities := byState[st.ID]
		slices.SortFunc(cities, func(a, b CityView) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
		})
		out = append(out, StateView{ID: st.ID, Name: st.Name, Cities: cities})
	}
	slices.SortFunc(out, func(a, b StateView) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func render(c echo.Context, status int, body templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return Page(body).Render(c.Request().Context(), c.Response())
}

// NewServer builds the echo instance serving the HTML pages.
func NewServer(store ports.Storage, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	NewHandler(store, logger).Register(e)
	return e
}
