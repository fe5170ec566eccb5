package handler

import (
	"net/http"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/middleware"
	"github.com/Eduardv6/SisPOS-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// ActualizarStock godoc
// @Summary      Fijar stock absoluto
// @Description  Fija la cantidad de un producto en un almacen. La diferencia contra el valor previo queda registrada en el kardex.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ActualizarStockRequest true "Nueva cantidad"
// @Success      200  {object} dto.InventarioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/inventario/stock [put]
func (h *InventarioHandler) ActualizarStock(c *gin.Context) {
	var req dto.ActualizarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID := claimsUserID(c)

	resp, err := h.svc.ActualizarStock(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarStock applies a signed delta to the stock of one warehouse.
func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID := claimsUserID(c)

	resp, err := h.svc.AjustarStock(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transferir godoc
// @Summary      Transferir stock entre almacenes
// @Description  Descuenta del origen y acredita en el destino. Si el destino pertenece a otra sucursal se crea la variante gemela.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.TransferirStockRequest true "Detalle de la transferencia"
// @Success      200  {object} dto.TransferenciaResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/inventario/transferencias [post]
func (h *InventarioHandler) Transferir(c *gin.Context) {
	var req dto.TransferirStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID := claimsUserID(c)

	resp, err := h.svc.Transferir(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reconciliar recomputes cached stock totals against the inventory rows.
func (h *InventarioHandler) Reconciliar(c *gin.Context) {
	resp, err := h.svc.Reconciliar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarInventario returns paginated per-warehouse stock rows.
func (h *InventarioHandler) ListarInventario(c *gin.Context) {
	var filter dto.InventarioFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorProducto returns the stock of one product across warehouses.
func (h *InventarioHandler) ListarPorProducto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorProducto(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos returns the paginated kardex.
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoInvFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// claimsUserID extracts the authenticated user id from the JWT claims.
func claimsUserID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return id
}
