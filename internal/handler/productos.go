package handler

import (
	"net/http"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// CrearProducto godoc
// @Summary      Crear producto
// @Description  Alta de una variante (modelo + talla + color) con su stock inicial en un almacen.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Datos del producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/productos [post]
func (h *ProductosHandler) CrearProducto(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarProductos returns a paginated, filtered product list.
func (h *ProductosHandler) ListarProductos(c *gin.Context) {
	var filter dto.ProductoFilter
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

// ObtenerProducto returns one product by id.
func (h *ProductosHandler) ObtenerProducto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorBarcode godoc
// @Summary      Consulta rapida por codigo de barras
// @Description  Lookup cacheado en Redis para el escaner del punto de venta.
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        codigo path string true "Codigo de barras"
// @Success      200  {object} dto.ConsultaBarcodeResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/productos/barcode/{codigo} [get]
func (h *ProductosHandler) BuscarPorBarcode(c *gin.Context) {
	resp, err := h.svc.BuscarPorBarcode(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarProducto applies a partial update.
func (h *ProductosHandler) ActualizarProducto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactivarProducto soft-deletes a product.
func (h *ProductosHandler) DesactivarProducto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
