package handler

import (
	"net/http"

	"github.com/naimlawani01/facturerapide-api/internal/apierror"
	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/middleware"
	"github.com/naimlawani01/facturerapide-api/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct{ svc service.InvoiceService }

func NewInvoicesHandler(svc service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

// Create godoc
// @Summary      Créer une facture
// @Description  Crée une facture en brouillon, numérotée FACT-{année}-{NNNNN}. Les lignes sans prix héritent du produit référencé.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.InvoiceCreateRequest true "Facture"
// @Success      201  {object} dto.InvoiceResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/invoices [post]
func (h *InvoicesHandler) Create(c *gin.Context) {
	var req dto.InvoiceCreateRequest
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
// @Summary      Détail d'une facture
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la facture"
// @Success      200  {object} dto.InvoiceResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/invoices/{id} [get]
func (h *InvoicesHandler) Get(c *gin.Context) {
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
// @Summary      Lister les factures
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "draft | sent | paid | partially_paid | overdue | cancelled"
// @Param        client_id query string false "UUID du client"
// @Param        from_date query string false "Date d'émission minimum (YYYY-MM-DD)"
// @Param        to_date   query string false "Date d'émission maximum (YYYY-MM-DD)"
// @Param        page      query int    false "Page (défaut 1)"
// @Param        limit     query int    false "Taille de page (défaut 20)"
// @Success      200  {object} dto.InvoiceListResponse
// @Router       /v1/invoices [get]
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
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
// @Summary      Modifier une facture en brouillon
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID de la facture"
// @Param        body body dto.InvoiceUpdateRequest true "Champs à modifier"
// @Success      200  {object} dto.InvoiceResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/invoices/{id} [put]
func (h *InvoicesHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.InvoiceUpdateRequest
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
// @Summary      Supprimer une facture en brouillon
// @Tags         invoices
// @Security     BearerAuth
// @Param        id path string true "UUID de la facture"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/invoices/{id} [delete]
func (h *InvoicesHandler) Delete(c *gin.Context) {
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
// @Summary      Ajouter une ligne à une facture en brouillon
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "UUID de la facture"
// @Param        body body dto.LineItemRequest true "Ligne"
// @Success      200  {object} dto.InvoiceResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/invoices/{id}/items [post]
func (h *InvoicesHandler) AddItem(c *gin.Context) {
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
// @Summary      Retirer une ligne d'une facture en brouillon
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string true "UUID de la facture"
// @Param        itemId path string true "UUID de la ligne"
// @Success      200  {object} dto.InvoiceResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/invoices/{id}/items/{itemId} [delete]
func (h *InvoicesHandler) RemoveItem(c *gin.Context) {
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
// @Summary      Envoyer une facture
// @Description  Passe la facture de brouillon à envoyée, génère le PDF et envoie l'email au client de façon asynchrone.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string          true  "UUID de la facture"
// @Param        body body dto.SendRequest false "Message optionnel"
// @Success      200  {object} dto.InvoiceResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/invoices/{id}/send [post]
func (h *InvoicesHandler) Send(c *gin.Context) {
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

// Cancel godoc
// @Summary      Annuler une facture
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la facture"
// @Success      200  {object} dto.InvoiceResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/invoices/{id}/cancel [post]
func (h *InvoicesHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id, middleware.OwnerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadPDF godoc
// @Summary      Télécharger le PDF d'une facture
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la facture"
// @Success      200  {file} file
// @Failure      404  {object} apierror.APIError
// @Router       /v1/invoices/{id}/pdf [get]
func (h *InvoicesHandler) DownloadPDF(c *gin.Context) {
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
		c.JSON(http.StatusNotFound, apierror.New("PDF non disponible — la facture n'a pas encore été envoyée"))
		return
	}
	c.FileAttachment(*resp.PDFPath, resp.InvoiceNumber+".pdf")
}
