package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/apierror"
	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"
	"github.com/Eduardv6/SisPOS-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaService interface {
	Crear(ctx context.Context, req dto.CrearCajaRequest) (*dto.CajaResponse, error)
	Listar(ctx context.Context, sucursalID *uuid.UUID) ([]dto.CajaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCajaRequest) (*dto.CajaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error

	Abrir(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error)
	Cerrar(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.ArqueoResponse, error)
	RegistrarIngreso(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error)
	RegistrarRetiro(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error)

	SesionActiva(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionCajaResponse, error)
	ListarSesiones(ctx context.Context, filter dto.SesionFilter) (*dto.ListResponse[dto.SesionCajaResponse], error)
	ListarMovimientos(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoCajaResponse, error)
	ListarMovimientosCaja(ctx context.Context, filter dto.MovimientoCajaFilter) (*dto.ListResponse[dto.MovimientoCajaResponse], error)
}

type cajaService struct {
	repo       repository.CajaRepository
	ventaRepo  repository.VentaRepository
	dispatcher *worker.Dispatcher
}

func NewCajaService(repo repository.CajaRepository, ventaRepo repository.VentaRepository, dispatcher *worker.Dispatcher) CajaService {
	return &cajaService{repo: repo, ventaRepo: ventaRepo, dispatcher: dispatcher}
}

func (s *cajaService) Crear(ctx context.Context, req dto.CrearCajaRequest) (*dto.CajaResponse, error) {
	sucID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, apierror.NotFound("sucursal")
	}
	caja := &model.Caja{
		Codigo:       req.Codigo,
		Nombre:       req.Nombre,
		SucursalID:   sucID,
		Estado:       model.CajaLibre,
		SaldoInicial: req.SaldoInicial,
		SaldoActual:  decimal.Zero,
	}
	if err := s.repo.Create(ctx, caja); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, caja.ID)
}

func (s *cajaService) Listar(ctx context.Context, sucursalID *uuid.UUID) ([]dto.CajaResponse, error) {
	cajas, err := s.repo.List(ctx, sucursalID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CajaResponse, len(cajas))
	for i := range cajas {
		resp[i] = s.cajaToResponse(ctx, &cajas[i])
	}
	return resp, nil
}

func (s *cajaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("caja")
	}
	resp := s.cajaToResponse(ctx, caja)
	return &resp, nil
}

func (s *cajaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCajaRequest) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("caja")
	}
	if req.Codigo != nil {
		caja.Codigo = *req.Codigo
	}
	if req.Nombre != nil {
		caja.Nombre = *req.Nombre
	}
	if err := s.repo.Update(ctx, caja); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, id)
}

// Eliminar retires a register. A register that never operated is removed
// outright; one with session history is marked CERRADA so past arqueos stay
// consultable. An OCUPADA register cannot be retired.
func (s *cajaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	caja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("caja")
	}
	if caja.Estado == model.CajaOcupada {
		return apierror.Conflict("la caja %s tiene una sesion abierta", caja.Codigo)
	}
	total, err := s.repo.CountSesiones(ctx, id)
	if err != nil {
		return err
	}
	if total > 0 {
		caja.Estado = model.CajaCerrada
		return s.repo.Update(ctx, caja)
	}
	return s.repo.Delete(ctx, id)
}

// ── Abrir ────────────────────────────────────────────────────────────────────
// Row lock on the caja serializes concurrent opens; the partial unique index
// on sesiones_caja backs the check at the database level.

func (s *cajaService) Abrir(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	if sesion, err := s.repo.FindSesionAbiertaPorUsuario(ctx, usuarioID); err == nil {
		return nil, apierror.Conflict("el usuario ya tiene una sesion abierta en la caja %s", sesion.CajaID)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.repo.FindByIDForUpdate(tx, cajaID)
		if err != nil {
			return apierror.NotFound("caja")
		}
		if caja.Estado != model.CajaLibre {
			return apierror.Conflict("la caja %s no esta libre (estado actual: %s)", caja.Codigo, caja.Estado)
		}

		sesion := &model.SesionCaja{
			CajaID:       cajaID,
			UsuarioID:    usuarioID,
			MontoInicial: req.MontoInicial,
			Estado:       model.SesionAbierta,
			FechaInicio:  time.Now(),
		}
		if err := s.repo.CreateSesionTx(tx, sesion); err != nil {
			return err
		}

		caja.Estado = model.CajaOcupada
		caja.SaldoInicial = req.MontoInicial
		caja.SaldoActual = req.MontoInicial
		if err := s.repo.UpdateTx(tx, caja); err != nil {
			return err
		}

		apertura := &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         model.MovCajaApertura,
			Monto:        req.MontoInicial,
			Motivo:       "Apertura de caja",
			UsuarioID:    usuarioID,
			Fecha:        time.Now(),
		}
		return s.repo.CreateMovimientoTx(tx, apertura)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Obtener(ctx, cajaID)
}

// ── Cerrar ───────────────────────────────────────────────────────────────────
// Arqueo: esperado = inicial + ventas en efectivo + ingresos manuales −
// retiros manuales. Sale-linked movements carry venta_id and are already
// counted through the ventas table, so they are excluded here.

func (s *cajaService) Cerrar(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.ArqueoResponse, error) {
	var arqueo *dto.ArqueoResponse

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.repo.FindByIDForUpdate(tx, cajaID)
		if err != nil {
			return apierror.NotFound("caja")
		}
		if caja.Estado != model.CajaOcupada {
			return apierror.Conflict("la caja %s no esta ocupada", caja.Codigo)
		}

		sesion, err := s.repo.FindSesionAbierta(ctx, cajaID)
		if err != nil {
			return apierror.Conflict("la caja %s no tiene sesion abierta", caja.Codigo)
		}

		// Omitted count defaults to the running balance.
		declarado := caja.SaldoActual
		if req.MontoFinal != nil {
			declarado = *req.MontoFinal
		}

		ventasEfectivo, totalVentas, err := s.ventaRepo.SumVentasEfectivoSesionTx(tx, sesion.ID)
		if err != nil {
			return err
		}
		ingresos, retiros, err := s.repo.SumMovimientosManualesTx(tx, sesion.ID)
		if err != nil {
			return err
		}

		esperado := sesion.MontoInicial.Add(ventasEfectivo).Add(ingresos).Sub(retiros)
		diferencia := declarado.Sub(esperado)

		ahora := time.Now()
		sesion.Estado = model.SesionCerrada
		sesion.MontoFinal = &declarado
		sesion.FechaFin = &ahora
		if err := s.repo.UpdateSesionTx(tx, sesion); err != nil {
			return err
		}

		motivo := "Cierre de caja"
		if req.Observaciones != nil && *req.Observaciones != "" {
			motivo = fmt.Sprintf("Cierre de caja: %s", *req.Observaciones)
		}
		cierre := &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         model.MovCajaCierre,
			Monto:        declarado,
			Motivo:       motivo,
			UsuarioID:    usuarioID,
			Fecha:        ahora,
		}
		if err := s.repo.CreateMovimientoTx(tx, cierre); err != nil {
			return err
		}

		caja.Estado = model.CajaLibre
		caja.SaldoInicial = decimal.Zero
		caja.SaldoActual = decimal.Zero
		if err := s.repo.UpdateTx(tx, caja); err != nil {
			return err
		}

		arqueo = &dto.ArqueoResponse{
			SesionID:       sesion.ID.String(),
			CajaID:         cajaID.String(),
			MontoInicial:   sesion.MontoInicial,
			VentasEfectivo: ventasEfectivo,
			Ingresos:       ingresos,
			Retiros:        retiros,
			MontoEsperado:  esperado,
			MontoDeclarado: declarado,
			Diferencia:     diferencia,
			TotalVentas:    totalVentas,
			FechaInicio:    sesion.FechaInicio.Format("2006-01-02T15:04:05Z"),
			FechaFin:       ahora.Format("2006-01-02T15:04:05Z"),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async: render the arqueo ticket PDF. Never blocks the close.
	if s.dispatcher != nil {
		payload := map[string]interface{}{"sesion_id": arqueo.SesionID}
		if err := s.dispatcher.EnqueueArqueoPDF(ctx, payload); err != nil {
			log.Warn().Err(err).Msg("no se pudo encolar el ticket de arqueo")
		}
	}
	return arqueo, nil
}

// ── Movimientos manuales ─────────────────────────────────────────────────────

func (s *cajaService) RegistrarIngreso(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error) {
	return s.registrarMovimiento(ctx, cajaID, usuarioID, model.MovCajaIngreso, req)
}

func (s *cajaService) RegistrarRetiro(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error) {
	return s.registrarMovimiento(ctx, cajaID, usuarioID, model.MovCajaRetiro, req)
}

func (s *cajaService) registrarMovimiento(ctx context.Context, cajaID, usuarioID uuid.UUID, tipo model.TipoMovimientoCaja, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error) {
	if req.Monto.LessThanOrEqual(decimal.Zero) {
		return nil, apierror.NewValidation(map[string]string{"monto": "debe ser mayor a cero"})
	}

	var mov *model.MovimientoCaja
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.repo.FindByIDForUpdate(tx, cajaID)
		if err != nil {
			return apierror.NotFound("caja")
		}
		if caja.Estado != model.CajaOcupada {
			return apierror.Conflict("la caja %s no esta ocupada", caja.Codigo)
		}
		sesion, err := s.repo.FindSesionAbierta(ctx, cajaID)
		if err != nil {
			return apierror.Conflict("la caja %s no tiene sesion abierta", caja.Codigo)
		}

		delta := req.Monto
		if tipo == model.MovCajaRetiro {
			if caja.SaldoActual.LessThan(req.Monto) {
				return &apierror.InsufficientFundsError{
					SaldoActual: caja.SaldoActual,
					Solicitado:  req.Monto,
				}
			}
			delta = req.Monto.Neg()
		}

		mov = &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         tipo,
			Monto:        req.Monto,
			Motivo:       req.Motivo,
			UsuarioID:    usuarioID,
			Fecha:        time.Now(),
		}
		if err := s.repo.CreateMovimientoTx(tx, mov); err != nil {
			return err
		}
		return s.repo.AjustarSaldoTx(tx, cajaID, delta)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := movimientoCajaToResponse(mov)
	return &resp, nil
}

// ── Sesiones ─────────────────────────────────────────────────────────────────

func (s *cajaService) SesionActiva(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionAbiertaPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, apierror.NotFound("sesion activa")
	}
	resp := sesionToResponse(sesion)
	return &resp, nil
}

func (s *cajaService) ListarSesiones(ctx context.Context, filter dto.SesionFilter) (*dto.ListResponse[dto.SesionCajaResponse], error) {
	sesiones, total, err := s.repo.ListSesiones(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SesionCajaResponse, len(sesiones))
	for i := range sesiones {
		data[i] = sesionToResponse(&sesiones[i])
	}
	return &dto.ListResponse[dto.SesionCajaResponse]{
		Data: data,
		Meta: dto.NewListMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *cajaService) ListarMovimientos(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoCajaResponse, error) {
	if _, err := s.repo.FindSesionByID(ctx, sesionID); err != nil {
		return nil, apierror.NotFound("sesion")
	}
	movs, err := s.repo.ListMovimientos(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoCajaResponse, len(movs))
	for i := range movs {
		resp[i] = movimientoCajaToResponse(&movs[i])
	}
	return resp, nil
}

func (s *cajaService) ListarMovimientosCaja(ctx context.Context, filter dto.MovimientoCajaFilter) (*dto.ListResponse[dto.MovimientoCajaResponse], error) {
	movs, total, err := s.repo.ListMovimientosCaja(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoCajaResponse, len(movs))
	for i := range movs {
		data[i] = movimientoCajaToResponse(&movs[i])
	}
	return &dto.ListResponse[dto.MovimientoCajaResponse]{
		Data: data,
		Meta: dto.NewListMeta(total, filter.Page, filter.Limit),
	}, nil
}

// ── mappers ──────────────────────────────────────────────────────────────────

func (s *cajaService) cajaToResponse(ctx context.Context, c *model.Caja) dto.CajaResponse {
	resp := dto.CajaResponse{
		ID:          c.ID.String(),
		Codigo:      c.Codigo,
		Nombre:      c.Nombre,
		SucursalID:  c.SucursalID.String(),
		Estado:      string(c.Estado),
		SaldoActual: c.SaldoActual,
	}
	if c.Sucursal != nil {
		resp.Sucursal = c.Sucursal.Nombre
	}
	if c.Estado == model.CajaOcupada {
		if sesion, err := s.repo.FindSesionAbierta(ctx, c.ID); err == nil {
			resumen := &dto.SesionResumen{
				ID:           sesion.ID.String(),
				UsuarioID:    sesion.UsuarioID.String(),
				MontoInicial: sesion.MontoInicial,
				FechaInicio:  sesion.FechaInicio.Format("2006-01-02T15:04:05Z"),
			}
			if sesion.Usuario != nil {
				resumen.Usuario = sesion.Usuario.Nombres
			}
			resp.SesionActiva = resumen
		}
	}
	return resp
}

func sesionToResponse(s *model.SesionCaja) dto.SesionCajaResponse {
	resp := dto.SesionCajaResponse{
		ID:           s.ID.String(),
		CajaID:       s.CajaID.String(),
		UsuarioID:    s.UsuarioID.String(),
		MontoInicial: s.MontoInicial,
		MontoFinal:   s.MontoFinal,
		Estado:       string(s.Estado),
		FechaInicio:  s.FechaInicio.Format("2006-01-02T15:04:05Z"),
	}
	if s.Caja != nil {
		resp.Caja = s.Caja.Nombre
	}
	if s.Usuario != nil {
		resp.Usuario = s.Usuario.Nombres
	}
	if s.FechaFin != nil {
		f := s.FechaFin.Format("2006-01-02T15:04:05Z")
		resp.FechaFin = &f
	}
	return resp
}

func movimientoCajaToResponse(m *model.MovimientoCaja) dto.MovimientoCajaResponse {
	resp := dto.MovimientoCajaResponse{
		ID:        m.ID.String(),
		Tipo:      string(m.Tipo),
		Monto:     m.Monto,
		Motivo:    m.Motivo,
		UsuarioID: m.UsuarioID.String(),
		Fecha:     m.Fecha.Format("2006-01-02T15:04:05Z"),
	}
	if m.VentaID != nil {
		v := m.VentaID.String()
		resp.VentaID = &v
	}
	return resp
}
