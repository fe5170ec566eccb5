package handler

import (
	"net/http"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogoHandler exposes sucursales, almacenes, categorias and clientes.
type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// ── Sucursales ───────────────────────────────────────────────────────────────

func (h *CatalogoHandler) CrearSucursal(c *gin.Context) {
	var req dto.CrearSucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearSucursal(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarSucursales(c *gin.Context) {
	resp, err := h.svc.ListarSucursales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ActualizarSucursal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarSucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarSucursal(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) DesactivarSucursal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DesactivarSucursal(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Almacenes ────────────────────────────────────────────────────────────────

func (h *CatalogoHandler) CrearAlmacen(c *gin.Context) {
	var req dto.CrearAlmacenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearAlmacen(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarAlmacenes(c *gin.Context) {
	var sucursalID *uuid.UUID
	if raw := c.Query("sucursal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		sucursalID = &id
	}
	resp, err := h.svc.ListarAlmacenes(c.Request.Context(), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ActualizarAlmacen(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarAlmacenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarAlmacen(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Categorias ───────────────────────────────────────────────────────────────

func (h *CatalogoHandler) CrearCategoria(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCategoria(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarCategorias(c *gin.Context) {
	resp, err := h.svc.ListarCategorias(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ActualizarCategoria(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCategoria(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) DesactivarCategoria(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DesactivarCategoria(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Clientes ─────────────────────────────────────────────────────────────────

func (h *CatalogoHandler) CrearCliente(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCliente(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarClientes(c *gin.Context) {
	var filter dto.ClienteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarClientes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ActualizarCliente(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCliente(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) EliminarCliente(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarCliente(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
