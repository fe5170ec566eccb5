package handler

import (
	"net/http"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajasHandler struct{ svc service.CajaService }

func NewCajasHandler(svc service.CajaService) *CajasHandler { return &CajasHandler{svc: svc} }

// CrearCaja registers a new physical register. Solo administradores.
func (h *CajasHandler) CrearCaja(c *gin.Context) {
	var req dto.CrearCajaRequest
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

// ListarCajas returns registers, optionally scoped to one sucursal.
func (h *CajasHandler) ListarCajas(c *gin.Context) {
	var sucursalID *uuid.UUID
	if raw := c.Query("sucursal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		sucursalID = &id
	}
	resp, err := h.svc.Listar(c.Request.Context(), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerCaja returns one register with its active session, if any.
func (h *CajasHandler) ObtenerCaja(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarCaja patches register metadata. Solo administradores.
func (h *CajasHandler) ActualizarCaja(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCajaRequest
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

// EliminarCaja retires a register. Returns 409 while a session is open.
func (h *CajasHandler) EliminarCaja(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AbrirCaja godoc
// @Summary      Abrir caja
// @Description  Abre una sesion sobre una caja LIBRE con el monto inicial declarado. Un usuario solo puede tener una sesion abierta.
// @Tags         cajas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "UUID de la caja"
// @Param        body body dto.AbrirCajaRequest true "Monto inicial"
// @Success      200  {object} dto.CajaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cajas/{id}/abrir [post]
func (h *CajasHandler) AbrirCaja(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), id, claimsUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CerrarCaja godoc
// @Summary      Cerrar caja
// @Description  Cierra la sesion activa y retorna el arqueo: esperado vs declarado con la diferencia.
// @Tags         cajas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "UUID de la caja"
// @Param        body body dto.CerrarCajaRequest true "Monto contado al cierre"
// @Success      200  {object} dto.ArqueoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cajas/{id}/cerrar [post]
func (h *CajasHandler) CerrarCaja(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id, claimsUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarIngreso adds a manual cash deposit to the open session.
func (h *CajasHandler) RegistrarIngreso(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MovimientoCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarIngreso(c.Request.Context(), id, claimsUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarRetiro withdraws cash from the open session. Rejected when the
// amount exceeds the current balance.
func (h *CajasHandler) RegistrarRetiro(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MovimientoCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarRetiro(c.Request.Context(), id, claimsUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SesionActiva returns the caller's open session, or 404.
func (h *CajasHandler) SesionActiva(c *gin.Context) {
	resp, err := h.svc.SesionActiva(c.Request.Context(), claimsUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarSesiones returns paginated session history.
func (h *CajasHandler) ListarSesiones(c *gin.Context) {
	var filter dto.SesionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarSesiones(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientosCaja returns the cash ledger across sessions, paginated
// and filterable by caja, sesion, usuario, tipo and date range.
func (h *CajasHandler) ListarMovimientosCaja(c *gin.Context) {
	var filter dto.MovimientoCajaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientosCaja(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientosSesion returns the full cash ledger of one session.
func (h *CajasHandler) ListarMovimientosSesion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
