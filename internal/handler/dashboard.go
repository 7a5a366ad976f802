package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/middleware"
	"github.com/naimlawani01/facturerapide-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const overviewCacheTTL = 60 * time.Second

type DashboardHandler struct {
	svc service.DashboardService
	rdb *redis.Client
}

func NewDashboardHandler(svc service.DashboardService, rdb *redis.Client) *DashboardHandler {
	return &DashboardHandler{svc: svc, rdb: rdb}
}

// Overview godoc
// @Summary      Vue d'ensemble du tableau de bord
// @Description  Chiffre d'affaires, encours, compteurs et factures en retard. Mis en cache 60 secondes.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.OverviewResponse
// @Router       /v1/dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.OwnerID(c)
	cacheKey := "dashboard:overview:" + ownerID.String()

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.OverviewResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	resp, err := h.svc.Overview(ctx, ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, overviewCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}

// RevenueByMonth godoc
// @Summary      Chiffre d'affaires encaissé par mois
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        year query int false "Année (défaut : année courante)"
// @Success      200  {object} dto.RevenueByMonthResponse
// @Router       /v1/dashboard/revenue [get]
func (h *DashboardHandler) RevenueByMonth(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	resp, err := h.svc.RevenueByMonth(c.Request.Context(), middleware.OwnerID(c), year)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopClients godoc
// @Summary      Meilleurs clients par chiffre d'affaires
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Nombre de clients (défaut 5)"
// @Success      200  {object} dto.TopClientsResponse
// @Router       /v1/dashboard/top-clients [get]
func (h *DashboardHandler) TopClients(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	resp, err := h.svc.TopClients(c.Request.Context(), middleware.OwnerID(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecentDocuments godoc
// @Summary      Derniers documents créés
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Nombre de documents (défaut 10)"
// @Success      200  {object} dto.RecentDocumentsResponse
// @Router       /v1/dashboard/recent [get]
func (h *DashboardHandler) RecentDocuments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	resp, err := h.svc.RecentDocuments(c.Request.Context(), middleware.OwnerID(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
