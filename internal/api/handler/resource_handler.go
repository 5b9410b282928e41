package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
)

// ResourceHandler serves the CRUD routes of one resource kind. Errors are
// returned to the central error handler.
type ResourceHandler struct {
	service ports.ResourceService
	kind    domain.Kind
}

func NewResourceHandler(service ports.ResourceService, kind domain.Kind) *ResourceHandler {
	return &ResourceHandler{service: service, kind: kind}
}

func (h *ResourceHandler) Kind() domain.Kind { return h.kind }

// List returns every object of the resource.
//
// @Summary      List objects
// @Tags         resources
// @Produce      json
// @Param        resource  path      string  true  "amenities, users, states or cities"
// @Success      200       {array}   map[string]any
// @Router       /{resource} [get]
func (h *ResourceHandler) List(c echo.Context) error {
	objs, err := h.service.List(c.Request().Context(), h.kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMaps(objs))
}

// Get returns one object.
//
// @Summary      Get an object
// @Tags         resources
// @Produce      json
// @Param        resource  path      string  true  "amenities, users, states or cities"
// @Param        id        path      string  true  "Object id"
// @Success      200       {object}  map[string]any
// @Failure      404       {object}  errorResponse
// @Router       /{resource}/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	obj, err := h.service.Get(c.Request().Context(), h.kind, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, obj.ToMap())
}

// Create stores a new object built from the JSON body.
//
// @Summary      Create an object
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        resource         path      string          true   "amenities, users, states or cities"
// @Param        Idempotency-Key  header    string          false  "Replays the first create made with this key"
// @Param        body             body      map[string]any  true   "Object fields"
// @Success      201              {object}  map[string]any
// @Failure      400              {object}  errorResponse
// @Router       /{resource} [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	payload, err := decodeObject(c)
	if err != nil {
		return err
	}
	return h.create(c, payload)
}

func (h *ResourceHandler) create(c echo.Context, payload map[string]any) error {
	res, err := h.service.Create(c.Request().Context(), ports.CreateInput{
		Kind:           h.kind,
		Payload:        payload,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}
	if res.AlreadyExisted {
		c.Response().Header().Set(HeaderIdempotentReplay, "true")
	}
	return c.JSON(http.StatusCreated, res.Object.ToMap())
}

// Update merges the JSON body into an existing object.
//
// @Summary      Update an object
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        resource  path      string          true  "amenities, users, states or cities"
// @Param        id        path      string          true  "Object id"
// @Param        body      body      map[string]any  true  "Fields to change"
// @Success      200       {object}  map[string]any
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /{resource}/{id} [put]
func (h *ResourceHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	// An unknown id is a 404 even when the body is malformed.
	if _, err := h.service.Get(ctx, h.kind, id); err != nil {
		return err
	}
	payload, err := decodeObject(c)
	if err != nil {
		return err
	}
	obj, err := h.service.Update(ctx, h.kind, id, payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, obj.ToMap())
}

// Delete removes an object.
//
// @Summary      Delete an object
// @Tags         resources
// @Produce      json
// @Param        resource  path      string  true  "amenities, users, states or cities"
// @Param        id        path      string  true  "Object id"
// @Success      200       {object}  map[string]any
// @Failure      404       {object}  errorResponse
// @Router       /{resource}/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), h.kind, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{})
}
