package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
)

type IndexHandler struct {
	service ports.ResourceService
}

func NewIndexHandler(service ports.ResourceService) *IndexHandler {
	return &IndexHandler{service: service}
}

// Status reports that the API is up.
//
// @Summary      API status
// @Tags         index
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /status [get]
func (h *IndexHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

// Stats returns the number of objects per resource.
//
// @Summary      Object counts
// @Tags         index
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /stats [get]
func (h *IndexHandler) Stats(c echo.Context) error {
	counts, err := h.service.Count(c.Request().Context())
	if err != nil {
		return err
	}
	out := make(map[string]int, len(counts))
	for kind, n := range counts {
		out[domain.MustSchema(kind).Resource] = n
	}
	return c.JSON(http.StatusOK, out)
}
