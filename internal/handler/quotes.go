package handler

import (
	"net/http"

	"github.com/naimlawani01/facturerapide-api/internal/apierror"
	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/middleware"
	"github.com/naimlawani01/facturerapide-api/internal/service"

	"github.com/gin-gonic/gin"
)

type QuotesHandler struct{ svc service.QuoteService }

func NewQuotesHandler(svc service.QuoteService) *QuotesHandler { return &QuotesHandler{svc: svc} }

// Create godoc
// @Summary      Créer un devis
// @Description  Crée un devis en brouillon, numéroté DEV-{année}-{NNNNN}.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.QuoteCreateRequest true "Devis"
// @Success      201  {object} dto.QuoteResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/quotes [post]
func (h *QuotesHandler) Create(c *gin.Context) {
	var req dto.QuoteCreateRequest
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
// @Summary      Détail d'un devis
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du devis"
// @Success      200  {object} dto.QuoteResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/quotes/{id} [get]
func (h *QuotesHandler) Get(c *gin.Context) {
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
// @Summary      Lister les devis
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "draft | sent | accepted | rejected | expired | converted"
// @Param        client_id query string false "UUID du client"
// @Param        page      query int    false "Page (défaut 1)"
// @Param        limit     query int    false "Taille de page (défaut 20)"
// @Success      200  {object} dto.QuoteListResponse
// @Router       /v1/quotes [get]
func (h *QuotesHandler) List(c *gin.Context) {
	var filter dto.QuoteFilter
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
// @Summary      Modifier un devis en brouillon
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID du devis"
// @Param        body body dto.QuoteUpdateRequest true "Champs à modifier"
// @Success      200  {object} dto.QuoteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/quotes/{id} [put]
func (h *QuotesHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.QuoteUpdateRequest
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
// @Summary      Supprimer un devis en brouillon
// @Tags         quotes
// @Security     BearerAuth
// @Param        id path string true "UUID du devis"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/quotes/{id} [delete]
func (h *QuotesHandler) Delete(c *gin.Context) {
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

// AddItem godoc
// @Summary      Ajouter une ligne à un devis en brouillon
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "UUID du devis"
// @Param        body body dto.LineItemRequest true "Ligne"
// @Success      200  {object} dto.QuoteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/quotes/{id}/items [post]
func (h *QuotesHandler) AddItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.LineItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), id, middleware.OwnerID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem godoc
// @Summary      Retirer une ligne d'un devis en brouillon
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string true "UUID du devis"
// @Param        itemId path string true "UUID de la ligne"
// @Success      200  {object} dto.QuoteResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/quotes/{id}/items/{itemId} [delete]
func (h *QuotesHandler) RemoveItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), id, itemID, middleware.OwnerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Send godoc
// @Summary      Envoyer un devis
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string          true  "UUID du devis"
// @Param        body body dto.SendRequest false "Message optionnel"
// @Success      200  {object} dto.QuoteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/quotes/{id}/send [post]
func (h *QuotesHandler) Send(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SendRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Send(c.Request.Context(), id, middleware.OwnerID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Accept godoc
// @Summary      Accepter un devis envoyé
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du devis"
// @Success      200  {object} dto.QuoteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/quotes/{id}/accept [post]
func (h *QuotesHandler) Accept(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Accept(c.Request.Context(), id, middleware.OwnerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reject godoc
// @Summary      Refuser un devis envoyé
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du devis"
// @Success      200  {object} dto.QuoteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/quotes/{id}/reject [post]
func (h *QuotesHandler) Reject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Reject(c.Request.Context(), id, middleware.OwnerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Convert godoc
// @Summary      Convertir un devis accepté en facture
// @Description  Crée une facture en brouillon reprenant les lignes et totaux du devis. Un devis ne peut être converti qu'une seule fois.
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du devis"
// @Success      201  {object} dto.InvoiceResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/quotes/{id}/convert [post]
func (h *QuotesHandler) Convert(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Convert(c.Request.Context(), id, middleware.OwnerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DownloadPDF godoc
// @Summary      Télécharger le PDF d'un devis
// @Tags         quotes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID du devis"
// @Success      200  {file} file
// @Failure      404  {object} apierror.APIError
// @Router       /v1/quotes/{id}/pdf [get]
func (h *QuotesHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id, middleware.OwnerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if resp.PDFPath == nil || *resp.PDFPath == "" {
		c.JSON(http.StatusNotFound, apierror.New("PDF non disponible — le devis n'a pas encore été envoyé"))
		return
	}
	c.FileAttachment(*resp.PDFPath, resp.QuoteNumber+".pdf")
}
