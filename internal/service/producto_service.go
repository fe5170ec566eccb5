package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/apierror"
	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	barcodeCachePrefix = "producto:barcode:"
	barcodeCacheTTL    = 5 * time.Minute
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	BuscarPorBarcode(ctx context.Context, barcode string) (*dto.ConsultaBarcodeResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ListResponse[dto.ProductoResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo       repository.ProductoRepository
	invRepo    repository.InventarioRepository
	categorias repository.CategoriaRepository
	rdb        *redis.Client
}

func NewProductoService(
	repo repository.ProductoRepository,
	invRepo repository.InventarioRepository,
	categorias repository.CategoriaRepository,
	rdb *redis.Client,
) ProductoService {
	return &productoService{repo: repo, invRepo: invRepo, categorias: categorias, rdb: rdb}
}

// Crear registers a product and seeds its inventory row in the default
// warehouse. A nonzero initial stock produces the opening kardex entry.
func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	catID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, apierror.NotFound("categoria")
	}
	if _, err := s.categorias.FindByID(ctx, catID); err != nil {
		return nil, apierror.NotFound("categoria")
	}
	sucID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, apierror.NotFound("sucursal")
	}
	almID, err := uuid.Parse(req.AlmacenID)
	if err != nil {
		return nil, apierror.NotFound("almacen")
	}

	if req.CodigoBarras != nil && *req.CodigoBarras != "" {
		if _, err := s.repo.FindByBarcode(ctx, *req.CodigoBarras); err == nil {
			return nil, apierror.Conflict("ya existe un producto con el codigo de barras %s", *req.CodigoBarras)
		}
	}

	controlar := true
	if req.ControlarStock != nil {
		controlar = *req.ControlarStock
	}

	producto := &model.Producto{
		Nombre:         req.Nombre,
		CategoriaID:    catID,
		SucursalID:     sucID,
		AlmacenID:      almID,
		Talla:          req.Talla,
		Color:          req.Color,
		PrecioCompra:   req.PrecioCompra,
		PrecioVenta:    req.PrecioVenta,
		CodigoBarras:   req.CodigoBarras,
		CodigoInterno:  req.CodigoInterno,
		Stock:          req.StockInicial,
		StockMinimo:    req.StockMinimo,
		ControlarStock: controlar,
		Activo:         true,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, producto); err != nil {
			return err
		}
		if req.StockInicial > 0 {
			inv := &model.Inventario{
				ProductoID: producto.ID,
				AlmacenID:  almID,
				Cantidad:   req.StockInicial,
			}
			if err := s.invRepo.UpsertTx(tx, inv); err != nil {
				return err
			}
			mov := &model.MovimientoInventario{
				ProductoID: producto.ID,
				AlmacenID:  almID,
				Tipo:       model.MovInvEntrada,
				Cantidad:   req.StockInicial,
				Motivo:     "Stock inicial",
			}
			if err := s.invRepo.CreateMovimientoTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	creado, err := s.repo.FindByID(ctx, producto.ID)
	if err != nil {
		creado = producto
	}
	resp := productoToResponse(creado)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("producto")
	}
	resp := productoToResponse(p)
	return &resp, nil
}

// BuscarPorBarcode serves the scan-to-sell lookup. The redis cache keeps the
// hot path fast during peak hours; stale entries are bounded by the TTL and
// invalidated on price or stock updates.
func (s *productoService) BuscarPorBarcode(ctx context.Context, barcode string) (*dto.ConsultaBarcodeResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, barcodeCachePrefix+barcode).Result(); err == nil {
			var cached dto.ConsultaBarcodeResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("producto")
		}
		return nil, err
	}

	resp := &dto.ConsultaBarcodeResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Talla:       p.Talla,
		Color:       p.Color,
		PrecioVenta: p.PrecioVenta,
		Stock:       p.Stock,
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, barcodeCachePrefix+barcode, raw, barcodeCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("no se pudo cachear producto")
			}
		}
	}
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ListResponse[dto.ProductoResponse], error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = productoToResponse(&productos[i])
	}
	return &dto.ListResponse[dto.ProductoResponse]{
		Data: data,
		Meta: dto.NewListMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("producto")
	}

	barcodeAnterior := p.CodigoBarras

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.CategoriaID != nil {
		catID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, apierror.NotFound("categoria")
		}
		if _, err := s.categorias.FindByID(ctx, catID); err != nil {
			return nil, apierror.NotFound("categoria")
		}
		p.CategoriaID = catID
	}
	if req.Talla != nil {
		p.Talla = *req.Talla
	}
	if req.Color != nil {
		p.Color = *req.Color
	}
	if req.PrecioCompra != nil {
		p.PrecioCompra = *req.PrecioCompra
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.CodigoBarras != nil {
		p.CodigoBarras = req.CodigoBarras
	}
	if req.CodigoInterno != nil {
		p.CodigoInterno = req.CodigoInterno
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.ControlarStock != nil {
		p.ControlarStock = *req.ControlarStock
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidarCache(ctx, barcodeAnterior)
	s.invalidarCache(ctx, p.CodigoBarras)

	resp := productoToResponse(p)
	return &resp, nil
}

// Desactivar removes a product. One that was never sold is deleted outright
// together with its warehouse rows and ledger; one referenced by sale lines
// is only deactivated so historical tickets keep resolving.
func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("producto")
	}
	vendido, err := s.repo.TieneVentas(ctx, id)
	if err != nil {
		return err
	}
	if vendido {
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return err
		}
	} else {
		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.invRepo.EliminarPorProductoTx(tx, id); err != nil {
				return err
			}
			return s.repo.DeleteTx(tx, id)
		})
		if txErr != nil {
			return txErr
		}
	}
	s.invalidarCache(ctx, p.CodigoBarras)
	return nil
}

func (s *productoService) invalidarCache(ctx context.Context, barcode *string) {
	if s.rdb == nil || barcode == nil || *barcode == "" {
		return
	}
	if err := s.rdb.Del(ctx, barcodeCachePrefix+*barcode).Err(); err != nil {
		log.Warn().Err(err).Msg(fmt.Sprintf("no se pudo invalidar cache de %s", *barcode))
	}
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:             p.ID.String(),
		Nombre:         p.Nombre,
		CategoriaID:    p.CategoriaID.String(),
		SucursalID:     p.SucursalID.String(),
		AlmacenID:      p.AlmacenID.String(),
		Talla:          p.Talla,
		Color:          p.Color,
		PrecioCompra:   p.PrecioCompra,
		PrecioVenta:    p.PrecioVenta,
		CodigoBarras:   p.CodigoBarras,
		CodigoInterno:  p.CodigoInterno,
		Stock:          p.Stock,
		StockMinimo:    p.StockMinimo,
		ControlarStock: p.ControlarStock,
		Activo:         p.Activo,
	}
	if p.Categoria != nil {
		resp.Categoria = p.Categoria.Nombre
	}
	return resp
}
