package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
)

// CityHandler serves the cities nested under a state.
type CityHandler struct {
	service ports.ResourceService
	cities  *ResourceHandler
}

func NewCityHandler(service ports.ResourceService) *CityHandler {
	return &CityHandler{service: service, cities: NewResourceHandler(service, domain.KindCity)}
}

// ListByState returns the cities of a state.
//
// @Summary      List the cities of a state
// @Tags         cities
// @Produce      json
// @Param        state_id  path      string  true  "State id"
// @Success      200       {array}   map[string]any
// @Failure      404       {object}  errorResponse
// @Router       /states/{state_id}/cities [get]
func (h *CityHandler) ListByState(c echo.Context) error {
	cities, err := h.service.ListRelated(c.Request().Context(), domain.KindState, c.Param("state_id"), domain.KindCity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMaps(cities))
}

// CreateInState creates a city in the state named by the path.
//
// @Summary      Create a city in a state
// @Tags         cities
// @Accept       json
// @Produce      json
// @Param        state_id  path      string          true  "State id"
// @Param        body      body      map[string]any  true  "City fields"
// @Success      201       {object}  map[string]any
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /states/{state_id}/cities [post]
func (h *CityHandler) CreateInState(c echo.Context) error {
	stateID := c.Param("state_id")
	if _, err := h.service.Get(c.Request().Context(), domain.KindState, stateID); err != nil {
		return err
	}
	payload, err := decodeObject(c)
	if err != nil {
		return err
	}
	payload["state_id"] = stateID
	return h.cities.create(c, payload)
}
