package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eduardv6/SisPOS-Backend/internal/apierror"
	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"
	"github.com/Eduardv6/SisPOS-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService owns the stock ledger: every quantity change goes through
// here and leaves a kardex entry in the same transaction.
type InventarioService interface {
	ActualizarStock(ctx context.Context, usuarioID uuid.UUID, req dto.ActualizarStockRequest) (*dto.InventarioResponse, error)
	AjustarStock(ctx context.Context, usuarioID uuid.UUID, req dto.AjustarStockRequest) (*dto.InventarioResponse, error)
	Transferir(ctx context.Context, usuarioID uuid.UUID, req dto.TransferirStockRequest) (*dto.TransferenciaResponse, error)
	Reconciliar(ctx context.Context) (*dto.ReconciliacionResponse, error)
	Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.ListResponse[dto.InventarioResponse], error)
	ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.InventarioResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoInvFilter) (*dto.ListResponse[dto.MovimientoInvResponse], error)

	// Called inside the sale transaction; decrements never drop below zero.
	DescontarPorVentaTx(tx *gorm.DB, p *model.Producto, cantidad int, ventaID, usuarioID uuid.UUID) error
	ReponerPorAnulacionTx(tx *gorm.DB, p *model.Producto, cantidad int, ventaID, usuarioID uuid.UUID, motivo string) error
}

type inventarioService struct {
	repo         repository.InventarioRepository
	productoRepo repository.ProductoRepository
	sucursales   repository.SucursalRepository
	dispatcher   *worker.Dispatcher
}

func NewInventarioService(
	repo repository.InventarioRepository,
	productoRepo repository.ProductoRepository,
	sucursales repository.SucursalRepository,
	dispatcher *worker.Dispatcher,
) InventarioService {
	return &inventarioService{repo: repo, productoRepo: productoRepo, sucursales: sucursales, dispatcher: dispatcher}
}

// ── ActualizarStock ──────────────────────────────────────────────────────────
// Sets the absolute quantity for (producto, almacen). The signed difference
// against the previous quantity is what lands in the kardex, so the ledger
// replays to the same state.

func (s *inventarioService) ActualizarStock(ctx context.Context, usuarioID uuid.UUID, req dto.ActualizarStockRequest) (*dto.InventarioResponse, error) {
	productoID, almacenID, err := s.parsearIDs(ctx, req.ProductoID, req.AlmacenID)
	if err != nil {
		return nil, err
	}

	motivo := "Ajuste manual de inventario"
	if req.Motivo != nil && *req.Motivo != "" {
		motivo = *req.Motivo
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		anterior := 0
		if inv, err := s.repo.FindByProductoAlmacenTx(tx, productoID, almacenID); err == nil {
			anterior = inv.Cantidad
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		cambioUbicacion := req.UbicacionFisica != nil && *req.UbicacionFisica != ""
		delta := req.Cantidad - anterior
		if delta == 0 && !cambioUbicacion {
			return nil
		}

		inv := &model.Inventario{ProductoID: productoID, AlmacenID: almacenID, Cantidad: req.Cantidad}
		if cambioUbicacion {
			inv.UbicacionFisica = *req.UbicacionFisica
		}
		if err := s.repo.UpsertTx(tx, inv); err != nil {
			return err
		}
		// A location-only change does not touch the kardex.
		if delta == 0 {
			return nil
		}

		tipo := model.MovInvEntrada
		cantidad := delta
		if delta < 0 {
			tipo = model.MovInvSalida
			cantidad = -delta
		}
		mov := &model.MovimientoInventario{
			ProductoID: productoID,
			AlmacenID:  almacenID,
			Tipo:       tipo,
			Cantidad:   cantidad,
			Motivo:     motivo,
			UsuarioID:  &usuarioID,
		}
		if err := s.repo.CreateMovimientoTx(tx, mov); err != nil {
			return err
		}
		return s.recomputarStockTx(tx, productoID)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.alertarStockBajo(ctx, productoID)
	return s.responderInventario(ctx, productoID, almacenID)
}

// ── AjustarStock ─────────────────────────────────────────────────────────────

func (s *inventarioService) AjustarStock(ctx context.Context, usuarioID uuid.UUID, req dto.AjustarStockRequest) (*dto.InventarioResponse, error) {
	productoID, almacenID, err := s.parsearIDs(ctx, req.ProductoID, req.AlmacenID)
	if err != nil {
		return nil, err
	}

	motivo := "Ajuste de inventario"
	if req.Motivo != nil && *req.Motivo != "" {
		motivo = *req.Motivo
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Delta > 0 {
			if err := s.repo.IncrementarTx(tx, productoID, almacenID, req.Delta); err != nil {
				return err
			}
		} else {
			ok, err := s.repo.DescontarTx(tx, productoID, almacenID, -req.Delta)
			if err != nil {
				return err
			}
			if !ok {
				disponible := 0
				if inv, err := s.repo.FindByProductoAlmacenTx(tx, productoID, almacenID); err == nil {
					disponible = inv.Cantidad
				}
				nombre := req.ProductoID
				if p, err := s.productoRepo.FindByID(ctx, productoID); err == nil {
					nombre = p.Nombre
				}
				return &apierror.InsufficientStockError{
					Producto:   nombre,
					Disponible: disponible,
					Solicitado: -req.Delta,
				}
			}
		}

		tipo := model.MovInvEntrada
		cantidad := req.Delta
		if req.Delta < 0 {
			tipo = model.MovInvSalida
			cantidad = -req.Delta
		}
		mov := &model.MovimientoInventario{
			ProductoID: productoID,
			AlmacenID:  almacenID,
			Tipo:       tipo,
			Cantidad:   cantidad,
			Motivo:     motivo,
			UsuarioID:  &usuarioID,
		}
		if err := s.repo.CreateMovimientoTx(tx, mov); err != nil {
			return err
		}
		return s.recomputarStockTx(tx, productoID)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.alertarStockBajo(ctx, productoID)
	return s.responderInventario(ctx, productoID, almacenID)
}

// ── Transferir ───────────────────────────────────────────────────────────────
// Moves units between warehouses. When the destination belongs to another
// branch the product is re-homed to a twin found (or created) by the natural
// key (nombre, talla, color). The twin never inherits the barcode.

func (s *inventarioService) Transferir(ctx context.Context, usuarioID uuid.UUID, req dto.TransferirStockRequest) (*dto.TransferenciaResponse, error) {
	productoID, origenID, err := s.parsearIDs(ctx, req.ProductoID, req.AlmacenOrigenID)
	if err != nil {
		return nil, err
	}
	destinoID, err := uuid.Parse(req.AlmacenDestinoID)
	if err != nil {
		return nil, apierror.NotFound("almacen destino")
	}
	almacenDestino, err := s.sucursales.FindAlmacenByID(ctx, destinoID)
	if err != nil {
		return nil, apierror.NotFound("almacen destino")
	}

	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, apierror.NotFound("producto")
	}

	motivo := fmt.Sprintf("Transferencia a %s", almacenDestino.Nombre)
	if req.Motivo != nil && *req.Motivo != "" {
		motivo = *req.Motivo
	}

	resp := &dto.TransferenciaResponse{
		AlmacenOrigenID:  origenID.String(),
		AlmacenDestinoID: destinoID.String(),
		Cantidad:         req.Cantidad,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.DescontarTx(tx, productoID, origenID, req.Cantidad)
		if err != nil {
			return err
		}
		if !ok {
			disponible := 0
			if inv, err := s.repo.FindByProductoAlmacenTx(tx, productoID, origenID); err == nil {
				disponible = inv.Cantidad
			}
			return &apierror.InsufficientStockError{
				Producto:   producto.Nombre,
				Disponible: disponible,
				Solicitado: req.Cantidad,
			}
		}

		salida := &model.MovimientoInventario{
			ProductoID: productoID,
			AlmacenID:  origenID,
			Tipo:       model.MovInvSalida,
			Cantidad:   req.Cantidad,
			Motivo:     motivo,
			UsuarioID:  &usuarioID,
		}
		if err := s.repo.CreateMovimientoTx(tx, salida); err != nil {
			return err
		}

		// The destination product resolves by warehouse: units land under the
		// twin homed at the destino, created on first transfer. Sales only
		// decrement a product's home warehouse, so stock parked under a
		// foreign product would be unsellable.
		destinoProductoID := productoID
		if destinoID != producto.AlmacenID {
			twin, err := s.productoRepo.FindVariante(ctx, producto.Nombre, producto.Talla, producto.Color, destinoID)
			switch {
			case err == nil:
				destinoProductoID = twin.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				nuevo := &model.Producto{
					Nombre:         producto.Nombre,
					CategoriaID:    producto.CategoriaID,
					SucursalID:     almacenDestino.SucursalID,
					AlmacenID:      destinoID,
					Talla:          producto.Talla,
					Color:          producto.Color,
					PrecioCompra:   producto.PrecioCompra,
					PrecioVenta:    producto.PrecioVenta,
					StockMinimo:    producto.StockMinimo,
					ControlarStock: producto.ControlarStock,
					Activo:         true,
				}
				if err := s.productoRepo.CreateTx(tx, nuevo); err != nil {
					return err
				}
				destinoProductoID = nuevo.ID
				resp.DestinoCreado = true
			default:
				return err
			}
		}
		resp.ProductoOrigenID = productoID.String()
		resp.ProductoDestinoID = destinoProductoID.String()

		if err := s.repo.IncrementarTx(tx, destinoProductoID, destinoID, req.Cantidad); err != nil {
			return err
		}
		entrada := &model.MovimientoInventario{
			ProductoID: destinoProductoID,
			AlmacenID:  destinoID,
			Tipo:       model.MovInvEntrada,
			Cantidad:   req.Cantidad,
			Motivo:     fmt.Sprintf("Transferencia desde almacen %s", origenID),
			UsuarioID:  &usuarioID,
		}
		if err := s.repo.CreateMovimientoTx(tx, entrada); err != nil {
			return err
		}

		if err := s.recomputarStockTx(tx, productoID); err != nil {
			return err
		}
		if destinoProductoID != productoID {
			return s.recomputarStockTx(tx, destinoProductoID)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.alertarStockBajo(ctx, productoID)
	return resp, nil
}

// ── Reconciliar ──────────────────────────────────────────────────────────────
// Re-derives every product's denormalized stock from the ledger and fixes
// drift. Also run periodically by the reconcile cron.

func (s *inventarioService) Reconciliar(ctx context.Context) (*dto.ReconciliacionResponse, error) {
	productos, err := s.productoRepo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReconciliacionResponse{
		Revisados: len(productos),
		Detalles:  []dto.ReconciliacionDiscrep{},
	}

	for i := range productos {
		p := &productos[i]
		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			real, err := s.repo.SumCantidadTx(tx, p.ID)
			if err != nil {
				return err
			}
			if real == p.Stock {
				return nil
			}
			if err := s.productoRepo.SetStockTx(tx, p.ID, real); err != nil {
				return err
			}
			resp.Corregidos++
			resp.Detalles = append(resp.Detalles, dto.ReconciliacionDiscrep{
				ProductoID:    p.ID.String(),
				Producto:      p.Nombre,
				StockAnterior: p.Stock,
				StockReal:     real,
			})
			return nil
		})
		if txErr != nil {
			log.Error().Err(txErr).Str("producto_id", p.ID.String()).Msg("error reconciliando stock")
		}
	}
	return resp, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *inventarioService) Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.ListResponse[dto.InventarioResponse], error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InventarioResponse, len(rows))
	for i := range rows {
		data[i] = inventarioToResponse(&rows[i])
	}
	return &dto.ListResponse[dto.InventarioResponse]{
		Data: data,
		Meta: dto.NewListMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *inventarioService) ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.InventarioResponse, error) {
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, apierror.NotFound("producto")
	}
	rows, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InventarioResponse, len(rows))
	for i := range rows {
		data[i] = inventarioToResponse(&rows[i])
	}
	return data, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoInvFilter) (*dto.ListResponse[dto.MovimientoInvResponse], error) {
	movs, total, err := s.repo.ListMovimientos(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoInvResponse, len(movs))
	for i := range movs {
		data[i] = movimientoInvToResponse(&movs[i])
	}
	return &dto.ListResponse[dto.MovimientoInvResponse]{
		Data: data,
		Meta: dto.NewListMeta(total, filter.Page, filter.Limit),
	}, nil
}

// ── Sale hooks ───────────────────────────────────────────────────────────────

func (s *inventarioService) DescontarPorVentaTx(tx *gorm.DB, p *model.Producto, cantidad int, ventaID, usuarioID uuid.UUID) error {
	ok, err := s.repo.DescontarTx(tx, p.ID, p.AlmacenID, cantidad)
	if err != nil {
		return err
	}
	if !ok {
		disponible := 0
		if inv, err := s.repo.FindByProductoAlmacenTx(tx, p.ID, p.AlmacenID); err == nil {
			disponible = inv.Cantidad
		}
		return &apierror.InsufficientStockError{
			Producto:   p.Nombre,
			Disponible: disponible,
			Solicitado: cantidad,
		}
	}
	mov := &model.MovimientoInventario{
		ProductoID: p.ID,
		AlmacenID:  p.AlmacenID,
		Tipo:       model.MovInvSalida,
		Cantidad:   cantidad,
		Motivo:     "Venta",
		UsuarioID:  &usuarioID,
		VentaID:    &ventaID,
	}
	if err := s.repo.CreateMovimientoTx(tx, mov); err != nil {
		return err
	}
	return s.recomputarStockTx(tx, p.ID)
}

func (s *inventarioService) ReponerPorAnulacionTx(tx *gorm.DB, p *model.Producto, cantidad int, ventaID, usuarioID uuid.UUID, motivo string) error {
	if err := s.repo.IncrementarTx(tx, p.ID, p.AlmacenID, cantidad); err != nil {
		return err
	}
	mov := &model.MovimientoInventario{
		ProductoID: p.ID,
		AlmacenID:  p.AlmacenID,
		Tipo:       model.MovInvEntrada,
		Cantidad:   cantidad,
		Motivo:     motivo,
		UsuarioID:  &usuarioID,
		VentaID:    &ventaID,
	}
	if err := s.repo.CreateMovimientoTx(tx, mov); err != nil {
		return err
	}
	return s.recomputarStockTx(tx, p.ID)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *inventarioService) parsearIDs(ctx context.Context, productoID, almacenID string) (uuid.UUID, uuid.UUID, error) {
	pid, err := uuid.Parse(productoID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.NotFound("producto")
	}
	if _, err := s.productoRepo.FindByID(ctx, pid); err != nil {
		return uuid.Nil, uuid.Nil, apierror.NotFound("producto")
	}
	aid, err := uuid.Parse(almacenID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.NotFound("almacen")
	}
	if _, err := s.sucursales.FindAlmacenByID(ctx, aid); err != nil {
		return uuid.Nil, uuid.Nil, apierror.NotFound("almacen")
	}
	return pid, aid, nil
}

func (s *inventarioService) recomputarStockTx(tx *gorm.DB, productoID uuid.UUID) error {
	total, err := s.repo.SumCantidadTx(tx, productoID)
	if err != nil {
		return err
	}
	return s.productoRepo.SetStockTx(tx, productoID, total)
}

// alertarStockBajo enqueues a low-stock email when the product crossed its
// minimum. Best effort: a full queue never fails the mutation.
func (s *inventarioService) alertarStockBajo(ctx context.Context, productoID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil || !p.ControlarStock || p.Stock > p.StockMinimo {
		return
	}
	payload := map[string]interface{}{
		"producto_id": p.ID.String(),
		"nombre":      p.Nombre,
		"stock":       p.Stock,
		"minimo":      p.StockMinimo,
	}
	if err := s.dispatcher.EnqueueStockAlert(ctx, payload); err != nil {
		log.Warn().Err(err).Msg("no se pudo encolar alerta de stock")
	}
}

func (s *inventarioService) responderInventario(ctx context.Context, productoID, almacenID uuid.UUID) (*dto.InventarioResponse, error) {
	inv, err := s.repo.FindByProductoAlmacen(ctx, productoID, almacenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.InventarioResponse{
				ProductoID: productoID.String(),
				AlmacenID:  almacenID.String(),
			}, nil
		}
		return nil, err
	}
	resp := inventarioToResponse(inv)
	if resp.Producto == "" {
		if p, err := s.productoRepo.FindByID(ctx, productoID); err == nil {
			resp.Producto = p.Nombre
			resp.Talla = p.Talla
			resp.Color = p.Color
			resp.StockMinimo = p.StockMinimo
		}
	}
	return &resp, nil
}

func inventarioToResponse(inv *model.Inventario) dto.InventarioResponse {
	resp := dto.InventarioResponse{
		ID:              inv.ID.String(),
		ProductoID:      inv.ProductoID.String(),
		AlmacenID:       inv.AlmacenID.String(),
		Cantidad:        inv.Cantidad,
		UbicacionFisica: inv.UbicacionFisica,
	}
	if inv.Producto != nil {
		resp.Producto = inv.Producto.Nombre
		resp.Talla = inv.Producto.Talla
		resp.Color = inv.Producto.Color
		resp.StockMinimo = inv.Producto.StockMinimo
	}
	if inv.Almacen != nil {
		resp.Almacen = inv.Almacen.Nombre
	}
	return resp
}

func movimientoInvToResponse(m *model.MovimientoInventario) dto.MovimientoInvResponse {
	resp := dto.MovimientoInvResponse{
		ID:         m.ID.String(),
		ProductoID: m.ProductoID.String(),
		AlmacenID:  m.AlmacenID.String(),
		Tipo:       string(m.Tipo),
		Cantidad:   m.Cantidad,
		Motivo:     m.Motivo,
		Fecha:      m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.Producto != nil {
		resp.Producto = m.Producto.Nombre
	}
	if m.Almacen != nil {
		resp.Almacen = m.Almacen.Nombre
	}
	if m.UsuarioID != nil {
		u := m.UsuarioID.String()
		resp.UsuarioID = &u
	}
	if m.VentaID != nil {
		v := m.VentaID.String()
		resp.VentaID = &v
	}
	return resp
}
