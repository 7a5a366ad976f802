package handler

import (
	"net/http"

	"github.com/naimlawani01/facturerapide-api/internal/apierror"
	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/middleware"
	"github.com/naimlawani01/facturerapide-api/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// Create godoc
// @Summary      Enregistrer un paiement
// @Description  Applique un paiement sur une facture envoyée. Le montant ne peut pas dépasser le solde restant dû.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PaymentCreateRequest true "Paiement"
// @Success      201  {object} dto.PaymentResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/payments [post]
func (h *PaymentsHandler) Create(c *gin.Context) {
	var req dto.PaymentCreateRequest
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
// @Summary      Détail d'un paiement
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du paiement"
// @Success      200  {object} dto.PaymentResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/payments/{id} [get]
func (h *PaymentsHandler) Get(c *gin.Context) {
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
// @Summary      Lister les paiements
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        method    query string false "cash | card | bank_transfer | check | mobile_money | other"
// @Param        from_date query string false "Date minimum (YYYY-MM-DD)"
// @Param        to_date   query string false "Date maximum (YYYY-MM-DD)"
// @Param        page      query int    false "Page (défaut 1)"
// @Param        limit     query int    false "Taille de page (défaut 20)"
// @Success      200  {object} dto.PaymentListResponse
// @Router       /v1/payments [get]
func (h *PaymentsHandler) List(c *gin.Context) {
	var filter dto.PaymentFilter
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

// ListByInvoice godoc
// @Summary      Paiements d'une facture
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la facture"
// @Success      200  {array}  dto.PaymentResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/invoices/{id}/payments [get]
func (h *PaymentsHandler) ListByInvoice(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListByInvoice(c.Request.Context(), id, middleware.OwnerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Annuler un paiement
// @Description  Supprime le paiement et recalcule le solde et le statut de la facture.
// @Tags         payments
// @Security     BearerAuth
// @Param        id path string true "UUID du paiement"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/payments/{id} [delete]
func (h *PaymentsHandler) Delete(c *gin.Context) {
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
