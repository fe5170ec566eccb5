package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/apierror"
	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Anular(ctx context.Context, id, usuarioID uuid.UUID, motivo string) (*dto.VentaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.ListResponse[dto.VentaResponse], error)
}

type ventaService struct {
	repo         repository.VentaRepository
	cajaRepo     repository.CajaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	inventario   InventarioService
}

func NewVentaService(
	repo repository.VentaRepository,
	cajaRepo repository.CajaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	inventario InventarioService,
) VentaService {
	return &ventaService{
		repo:         repo,
		cajaRepo:     cajaRepo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		inventario:   inventario,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Registrar ────────────────────────────────────────────────────────────────
// One ACID transaction covers: document number, venta + detalles, the stock
// decrements with their kardex entries, and the caja INGRESO when the payment
// moves cash. A stock shortage on any line rolls back everything.

func (s *ventaService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	cajaID, err := uuid.Parse(req.CajaID)
	if err != nil {
		return nil, apierror.NotFound("caja")
	}

	sesion, err := s.cajaRepo.FindSesionAbierta(ctx, cajaID)
	if err != nil {
		return nil, apierror.Conflict("la caja no tiene una sesion abierta")
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, apierror.NotFound("cliente")
		}
		if _, err := s.clienteRepo.FindByID(ctx, cid); err != nil {
			return nil, apierror.NotFound("cliente")
		}
		clienteID = &cid
	}

	// Pre-flight: resolve products and freeze prices outside the transaction.
	type linea struct {
		producto *model.Producto
		cantidad int
		precio   decimal.Decimal
		subtotal decimal.Decimal
	}
	lineas := make([]linea, 0, len(req.Items))
	total := decimal.Zero
	var sucursalID uuid.UUID

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, apierror.NotFound("producto")
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound("producto")
		}
		if !p.Activo {
			return nil, apierror.Conflict("el producto %s esta inactivo", p.Nombre)
		}

		precio := p.PrecioVenta
		if item.PrecioUnitario != nil {
			precio = *item.PrecioUnitario
		}
		subtotal := precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		total = total.Add(subtotal)
		sucursalID = p.SucursalID

		lineas = append(lineas, linea{producto: p, cantidad: item.Cantidad, precio: precio, subtotal: subtotal})
	}

	metodo := model.MetodoPago(req.MetodoPago)
	tipoDoc := model.TipoDocumento(req.TipoDocumento)

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.SiguienteNumeroTx(tx, tipoDoc)
		if err != nil {
			return err
		}

		venta = model.Venta{
			UsuarioID:       usuarioID,
			SucursalID:      sucursalID,
			CajaID:          cajaID,
			SesionCajaID:    sesion.ID,
			ClienteID:       clienteID,
			TipoDocumento:   tipoDoc,
			NumeroDocumento: numero,
			MetodoPago:      metodo,
			Total:           total,
			Estado:          model.VentaCompletada,
			Fecha:           time.Now(),
		}
		for _, l := range lineas {
			venta.Detalles = append(venta.Detalles, model.DetalleVenta{
				ProductoID:     l.producto.ID,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				PrecioCompra:   l.producto.PrecioCompra,
				Subtotal:       l.subtotal,
			})
		}
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}

		for _, l := range lineas {
			if !l.producto.ControlarStock {
				continue
			}
			if err := s.inventario.DescontarPorVentaTx(tx, l.producto, l.cantidad, venta.ID, usuarioID); err != nil {
				return err
			}
		}

		if metodo.EsEfectivo() {
			mov := &model.MovimientoCaja{
				SesionCajaID: sesion.ID,
				Tipo:         model.MovCajaIngreso,
				Monto:        total,
				Motivo:       fmt.Sprintf("Venta %s", venta.NumeroDocumento),
				UsuarioID:    usuarioID,
				VentaID:      &venta.ID,
				Fecha:        time.Now(),
			}
			if err := s.cajaRepo.CreateMovimientoTx(tx, mov); err != nil {
				return err
			}
			if err := s.cajaRepo.AjustarSaldoTx(tx, cajaID, total); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	completa, err := s.repo.FindByID(ctx, venta.ID)
	if err != nil {
		completa = &venta
	}
	resp := ventaToResponse(completa)
	return &resp, nil
}

// ── Anular ───────────────────────────────────────────────────────────────────
// Stock always returns via ENTRADA entries. Cash only leaves the register
// when the originating session is still open; a closed session already
// settled its arqueo and the refund becomes a manual operation.

func (s *ventaService) Anular(ctx context.Context, id, usuarioID uuid.UUID, motivo string) (*dto.VentaResponse, error) {
	var venta *model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Row lock serializes concurrent voids: the second one re-reads the
		// sale as anulada and gets the Conflict instead of restoring twice.
		var err error
		venta, err = s.repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return apierror.NotFound("venta")
		}
		if venta.Estado == model.VentaAnulada {
			return apierror.Conflict("la venta %s ya esta anulada", venta.NumeroDocumento)
		}

		motivoAnulacion := fmt.Sprintf("Anulacion venta %s: %s", venta.NumeroDocumento, motivo)

		for _, det := range venta.Detalles {
			p := det.Producto
			if p == nil {
				encontrado, err := s.productoRepo.FindByID(ctx, det.ProductoID)
				if err != nil {
					return err
				}
				p = encontrado
			}
			if !p.ControlarStock {
				continue
			}
			if err := s.inventario.ReponerPorAnulacionTx(tx, p, det.Cantidad, venta.ID, usuarioID, motivoAnulacion); err != nil {
				return err
			}
		}

		if venta.MetodoPago.EsEfectivo() {
			sesion, err := s.cajaRepo.FindSesionByID(ctx, venta.SesionCajaID)
			if err == nil && sesion.Estado == model.SesionAbierta {
				mov := &model.MovimientoCaja{
					SesionCajaID: sesion.ID,
					Tipo:         model.MovCajaRetiro,
					Monto:        venta.Total,
					Motivo:       motivoAnulacion,
					UsuarioID:    usuarioID,
					VentaID:      &venta.ID,
					Fecha:        time.Now(),
				}
				if err := s.cajaRepo.CreateMovimientoTx(tx, mov); err != nil {
					return err
				}
				if err := s.cajaRepo.AjustarSaldoTx(tx, venta.CajaID, venta.Total.Neg()); err != nil {
					return err
				}
			}
		}

		return s.repo.UpdateEstadoTx(tx, id, model.VentaAnulada)
	})
	if txErr != nil {
		return nil, txErr
	}

	anulada, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("venta_id", id.String()).Msg("venta anulada pero no recargada")
		venta.Estado = model.VentaAnulada
		anulada = venta
	}
	resp := ventaToResponse(anulada)
	return &resp, nil
}

func (s *ventaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("venta")
		}
		return nil, err
	}
	resp := ventaToResponse(venta)
	return &resp, nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.ListResponse[dto.VentaResponse], error) {
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		data[i] = ventaToResponse(&ventas[i])
	}
	return &dto.ListResponse[dto.VentaResponse]{
		Data: data,
		Meta: dto.NewListMeta(total, filter.Page, filter.Limit),
	}, nil
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		det := dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
		if d.Producto != nil {
			det.Producto = d.Producto.Nombre
			det.Talla = d.Producto.Talla
			det.Color = d.Producto.Color
		}
		detalles = append(detalles, det)
	}

	resp := dto.VentaResponse{
		ID:              v.ID.String(),
		NumeroDocumento: v.NumeroDocumento,
		TipoDocumento:   string(v.TipoDocumento),
		MetodoPago:      string(v.MetodoPago),
		Total:           v.Total,
		Estado:          string(v.Estado),
		UsuarioID:       v.UsuarioID.String(),
		SucursalID:      v.SucursalID.String(),
		CajaID:          v.CajaID.String(),
		SesionCajaID:    v.SesionCajaID.String(),
		Detalles:        detalles,
		Fecha:           v.Fecha.Format("2006-01-02T15:04:05Z"),
	}
	if v.Usuario != nil {
		resp.Usuario = v.Usuario.Nombres
	}
	if v.ClienteID != nil {
		c := v.ClienteID.String()
		resp.ClienteID = &c
	}
	if v.Cliente != nil {
		resp.Cliente = &v.Cliente.Nombre
	}
	return resp
}
