package handler

import (
	"net/http"

	"github.com/naimlawani01/facturerapide-api/internal/apierror"
	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/middleware"
	"github.com/naimlawani01/facturerapide-api/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientsHandler struct{ svc service.ClientService }

func NewClientsHandler(svc service.ClientService) *ClientsHandler { return &ClientsHandler{svc: svc} }

// Create godoc
// @Summary      Créer un client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ClientCreateRequest true "Client"
// @Success      201  {object} dto.ClientResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/clients [post]
func (h *ClientsHandler) Create(c *gin.Context) {
	var req dto.ClientCreateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Détail d'un client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du client"
// @Success      200  {object} dto.ClientResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clients/{id} [get]
func (h *ClientsHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id, middleware.OwnerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      Lister les clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Recherche sur nom et email"
// @Param        page   query int    false "Page (défaut 1)"
// @Param        limit  query int    false "Taille de page (défaut 20)"
// @Success      200  {object} dto.ClientListResponse
// @Router       /v1/clients [get]
func (h *ClientsHandler) List(c *gin.Context) {
	var filter dto.ClientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.OwnerID(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Modifier un client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID du client"
// @Param        body body dto.ClientUpdateRequest true "Champs à modifier"
// @Success      200  {object} dto.ClientResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clients/{id} [put]
func (h *ClientsHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ClientUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, middleware.OwnerID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Supprimer un client
// @Tags         clients
// @Security     BearerAuth
// @Param        id path string true "UUID du client"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clients/{id} [delete]
func (h *ClientsHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, middleware.OwnerID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
