package service

import (
	"context"

	"github.com/Eduardv6/SisPOS-Backend/internal/apierror"
	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"

	"github.com/google/uuid"
)

// CatalogoService groups the small admin catalogs: branches, warehouses,
// categories and customers.
type CatalogoService interface {
	CrearSucursal(ctx context.Context, req dto.CrearSucursalRequest) (*dto.SucursalResponse, error)
	ListarSucursales(ctx context.Context) ([]dto.SucursalResponse, error)
	ActualizarSucursal(ctx context.Context, id uuid.UUID, req dto.ActualizarSucursalRequest) (*dto.SucursalResponse, error)
	DesactivarSucursal(ctx context.Context, id uuid.UUID) error

	CrearAlmacen(ctx context.Context, req dto.CrearAlmacenRequest) (*dto.AlmacenResponse, error)
	ListarAlmacenes(ctx context.Context, sucursalID *uuid.UUID) ([]dto.AlmacenResponse, error)
	ActualizarAlmacen(ctx context.Context, id uuid.UUID, req dto.ActualizarAlmacenRequest) (*dto.AlmacenResponse, error)

	CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error)
	ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error)
	DesactivarCategoria(ctx context.Context, id uuid.UUID) error

	CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ListarClientes(ctx context.Context, filter dto.ClienteFilter) (*dto.ListResponse[dto.ClienteResponse], error)
	ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	EliminarCliente(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	sucursales repository.SucursalRepository
	categorias repository.CategoriaRepository
	clientes   repository.ClienteRepository
}

func NewCatalogoService(
	sucursales repository.SucursalRepository,
	categorias repository.CategoriaRepository,
	clientes repository.ClienteRepository,
) CatalogoService {
	return &catalogoService{sucursales: sucursales, categorias: categorias, clientes: clientes}
}

// ── Sucursales ───────────────────────────────────────────────────────────────

func (s *catalogoService) CrearSucursal(ctx context.Context, req dto.CrearSucursalRequest) (*dto.SucursalResponse, error) {
	suc := &model.Sucursal{
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Activo:    true,
	}
	if err := s.sucursales.Create(ctx, suc); err != nil {
		return nil, err
	}
	resp := sucursalToResponse(suc)
	return &resp, nil
}

func (s *catalogoService) ListarSucursales(ctx context.Context) ([]dto.SucursalResponse, error) {
	sucs, err := s.sucursales.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SucursalResponse, len(sucs))
	for i := range sucs {
		resp[i] = sucursalToResponse(&sucs[i])
	}
	return resp, nil
}

func (s *catalogoService) ActualizarSucursal(ctx context.Context, id uuid.UUID, req dto.ActualizarSucursalRequest) (*dto.SucursalResponse, error) {
	suc, err := s.sucursales.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("sucursal")
	}
	if req.Nombre != nil {
		suc.Nombre = *req.Nombre
	}
	if req.Direccion != nil {
		suc.Direccion = req.Direccion
	}
	if req.Telefono != nil {
		suc.Telefono = req.Telefono
	}
	if req.Activo != nil {
		suc.Activo = *req.Activo
	}
	if err := s.sucursales.Update(ctx, suc); err != nil {
		return nil, err
	}
	resp := sucursalToResponse(suc)
	return &resp, nil
}

func (s *catalogoService) DesactivarSucursal(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sucursales.FindByID(ctx, id); err != nil {
		return apierror.NotFound("sucursal")
	}
	return s.sucursales.Desactivar(ctx, id)
}

// ── Almacenes ────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearAlmacen(ctx context.Context, req dto.CrearAlmacenRequest) (*dto.AlmacenResponse, error) {
	sid, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, apierror.NotFound("sucursal")
	}
	if _, err := s.sucursales.FindByID(ctx, sid); err != nil {
		return nil, apierror.NotFound("sucursal")
	}
	alm := &model.Almacen{
		Nombre:     req.Nombre,
		SucursalID: sid,
		Ubicacion:  req.Ubicacion,
		Activo:     true,
	}
	if err := s.sucursales.CreateAlmacen(ctx, alm); err != nil {
		return nil, err
	}
	creado, err := s.sucursales.FindAlmacenByID(ctx, alm.ID)
	if err != nil {
		return nil, err
	}
	resp := almacenToResponse(creado)
	return &resp, nil
}

func (s *catalogoService) ListarAlmacenes(ctx context.Context, sucursalID *uuid.UUID) ([]dto.AlmacenResponse, error) {
	almacenes, err := s.sucursales.ListAlmacenes(ctx, sucursalID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AlmacenResponse, len(almacenes))
	for i := range almacenes {
		resp[i] = almacenToResponse(&almacenes[i])
	}
	return resp, nil
}

func (s *catalogoService) ActualizarAlmacen(ctx context.Context, id uuid.UUID, req dto.ActualizarAlmacenRequest) (*dto.AlmacenResponse, error) {
	alm, err := s.sucursales.FindAlmacenByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("almacen")
	}
	if req.Nombre != nil {
		alm.Nombre = *req.Nombre
	}
	if req.Ubicacion != nil {
		alm.Ubicacion = req.Ubicacion
	}
	if req.Activo != nil {
		alm.Activo = *req.Activo
	}
	if err := s.sucursales.UpdateAlmacen(ctx, alm); err != nil {
		return nil, err
	}
	resp := almacenToResponse(alm)
	return &resp, nil
}

// ── Categorias ───────────────────────────────────────────────────────────────

func (s *catalogoService) CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	if _, err := s.categorias.FindByNombre(ctx, req.Nombre); err == nil {
		return nil, apierror.Conflict("ya existe la categoria %s", req.Nombre)
	}
	cat := &model.Categoria{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.categorias.Create(ctx, cat); err != nil {
		return nil, err
	}
	resp := categoriaToResponse(cat)
	return &resp, nil
}

func (s *catalogoService) ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error) {
	cats, err := s.categorias.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoriaResponse, len(cats))
	for i := range cats {
		resp[i] = categoriaToResponse(&cats[i])
	}
	return resp, nil
}

func (s *catalogoService) ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error) {
	cat, err := s.categorias.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("categoria")
	}
	if req.Nombre != nil {
		cat.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		cat.Descripcion = req.Descripcion
	}
	if req.Activo != nil {
		cat.Activo = *req.Activo
	}
	if err := s.categorias.Update(ctx, cat); err != nil {
		return nil, err
	}
	resp := categoriaToResponse(cat)
	return &resp, nil
}

func (s *catalogoService) DesactivarCategoria(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categorias.FindByID(ctx, id); err != nil {
		return apierror.NotFound("categoria")
	}
	return s.categorias.Desactivar(ctx, id)
}

// ── Clientes ─────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	cli := &model.Cliente{
		Nombre:    req.Nombre,
		Email:     req.Email,
		Celular:   req.Celular,
		Direccion: req.Direccion,
	}
	if err := s.clientes.Create(ctx, cli); err != nil {
		return nil, err
	}
	resp := clienteToResponse(cli)
	return &resp, nil
}

func (s *catalogoService) ListarClientes(ctx context.Context, filter dto.ClienteFilter) (*dto.ListResponse[dto.ClienteResponse], error) {
	clientes, total, err := s.clientes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		data[i] = clienteToResponse(&clientes[i])
	}
	return &dto.ListResponse[dto.ClienteResponse]{
		Data: data,
		Meta: dto.NewListMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *catalogoService) ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	cli, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("cliente")
	}
	if req.Nombre != nil {
		cli.Nombre = *req.Nombre
	}
	if req.Email != nil {
		cli.Email = req.Email
	}
	if req.Celular != nil {
		cli.Celular = req.Celular
	}
	if req.Direccion != nil {
		cli.Direccion = req.Direccion
	}
	if err := s.clientes.Update(ctx, cli); err != nil {
		return nil, err
	}
	resp := clienteToResponse(cli)
	return &resp, nil
}

func (s *catalogoService) EliminarCliente(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientes.FindByID(ctx, id); err != nil {
		return apierror.NotFound("cliente")
	}
	return s.clientes.Delete(ctx, id)
}

// ── mappers ──────────────────────────────────────────────────────────────────

func sucursalToResponse(s *model.Sucursal) dto.SucursalResponse {
	return dto.SucursalResponse{
		ID:        s.ID.String(),
		Nombre:    s.Nombre,
		Direccion: s.Direccion,
		Telefono:  s.Telefono,
		Activo:    s.Activo,
	}
}

func almacenToResponse(a *model.Almacen) dto.AlmacenResponse {
	resp := dto.AlmacenResponse{
		ID:         a.ID.String(),
		Nombre:     a.Nombre,
		SucursalID: a.SucursalID.String(),
		Ubicacion:  a.Ubicacion,
		Activo:     a.Activo,
	}
	if a.Sucursal != nil {
		resp.Sucursal = a.Sucursal.Nombre
	}
	return resp
}

func categoriaToResponse(c *model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Email:     c.Email,
		Celular:   c.Celular,
		Direccion: c.Direccion,
	}
}
