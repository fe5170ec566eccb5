package handler

import (
	"net/http"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// VentasPorPeriodo godoc
// @Summary      Reporte de ventas por periodo
// @Description  Totales y detalle diario para un dia, semana, mes o rango explicito.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        periodo      query string false "diario | semanal | mensual"
// @Param        fecha        query string false "Fecha ancla YYYY-MM-DD"
// @Param        fecha_inicio query string false "Inicio del rango YYYY-MM-DD"
// @Param        fecha_fin    query string false "Fin del rango YYYY-MM-DD"
// @Success      200 {object} dto.VentasPorPeriodoResponse
// @Router       /v1/reportes/ventas [get]
func (h *ReportesHandler) VentasPorPeriodo(c *gin.Context) {
	var filter dto.PeriodoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.VentasPorPeriodo(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GananciaReal computes gross profit using the purchase price frozen on each
// sale line.
func (h *ReportesHandler) GananciaReal(c *gin.Context) {
	var filter dto.RangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.GananciaReal(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VentasPorMetodoPago breaks sales down by payment method.
func (h *ReportesHandler) VentasPorMetodoPago(c *gin.Context) {
	var filter dto.RangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.VentasPorMetodoPago(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopClientes ranks identified customers by spend in the range.
func (h *ReportesHandler) TopClientes(c *gin.Context) {
	var filter dto.RangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.TopClientes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InventarioValorado values current stock at purchase price.
func (h *ReportesHandler) InventarioValorado(c *gin.Context) {
	var sucursalID *uuid.UUID
	if raw := c.Query("sucursal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		sucursalID = &id
	}
	resp, err := h.svc.InventarioValorado(c.Request.Context(), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProductosSinMovimiento lists products with stock but no sales in N days.
func (h *ReportesHandler) ProductosSinMovimiento(c *gin.Context) {
	var filter dto.RotacionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ProductosSinMovimiento(c.Request.Context(), filter.Dias)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// KardexProducto returns the chronological movement history of one product.
func (h *ReportesHandler) KardexProducto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var filter dto.RangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.KardexProducto(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopCategorias ranks categories by revenue in a range.
func (h *ReportesHandler) TopCategorias(c *gin.Context) {
	var filter dto.RangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.TopCategorias(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnalisisTallas ranks sizes by units sold in a range.
func (h *ReportesHandler) AnalisisTallas(c *gin.Context) {
	var filter dto.RangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.AnalisisTallas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReporteCajas summarizes recent sessions with their theoretical balance.
func (h *ReportesHandler) ReporteCajas(c *gin.Context) {
	var filter dto.ReporteCajasFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ReporteCajas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DashboardStats feeds the landing dashboard: totals, deltas against the
// previous window, monthly series and top products.
func (h *ReportesHandler) DashboardStats(c *gin.Context) {
	var filter dto.RangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.DashboardStats(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
