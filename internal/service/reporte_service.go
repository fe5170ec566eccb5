package service

import (
	"context"
	"sort"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/apierror"
	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const cien = 100

type ReporteService interface {
	VentasPorPeriodo(ctx context.Context, filter dto.PeriodoFilter) (*dto.VentasPorPeriodoResponse, error)
	GananciaReal(ctx context.Context, filter dto.RangoFilter) (*dto.GananciaResponse, error)
	VentasPorMetodoPago(ctx context.Context, filter dto.RangoFilter) ([]dto.MetodoPagoResumen, error)
	TopClientes(ctx context.Context, filter dto.RangoFilter) ([]dto.ClienteVentaResumen, error)
	InventarioValorado(ctx context.Context, sucursalID *uuid.UUID) (*dto.InventarioValoradoResponse, error)
	ProductosSinMovimiento(ctx context.Context, dias int) (*dto.RotacionResponse, error)
	KardexProducto(ctx context.Context, productoID uuid.UUID, filter dto.RangoFilter) (*dto.KardexProductoResponse, error)
	TopCategorias(ctx context.Context, filter dto.RangoFilter) ([]dto.CategoriaVentaResumen, error)
	AnalisisTallas(ctx context.Context, filter dto.RangoFilter) ([]dto.TallaVentaResumen, error)
	ReporteCajas(ctx context.Context, filter dto.ReporteCajasFilter) ([]dto.SesionCajaReporte, error)
	DashboardStats(ctx context.Context, filter dto.RangoFilter) (*dto.DashboardStatsResponse, error)
}

type reporteService struct {
	repo         repository.ReporteRepository
	invRepo      repository.InventarioRepository
	productoRepo repository.ProductoRepository
	sucursales   repository.SucursalRepository
}

func NewReporteService(
	repo repository.ReporteRepository,
	invRepo repository.InventarioRepository,
	productoRepo repository.ProductoRepository,
	sucursales repository.SucursalRepository,
) ReporteService {
	return &reporteService{repo: repo, invRepo: invRepo, productoRepo: productoRepo, sucursales: sucursales}
}

// ── rango helpers ────────────────────────────────────────────────────────────

func parseFecha(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

func finDeDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// rangoDesdeFiltro resolves the optional YYYY-MM-DD pair into pointers.
func rangoDesdeFiltro(f dto.RangoFilter) (*time.Time, *time.Time) {
	var desde, hasta *time.Time
	if t, ok := parseFecha(f.FechaInicio); ok {
		desde = &t
	}
	if t, ok := parseFecha(f.FechaFin); ok {
		fin := finDeDia(t)
		hasta = &fin
	}
	return desde, hasta
}

// resolverPeriodo computes the window for the period report. Explicit range
// wins over single date, which wins over the named period (relative to now,
// weeks starting Monday).
func resolverPeriodo(f dto.PeriodoFilter) (time.Time, time.Time) {
	if inicio, ok := parseFecha(f.FechaInicio); ok {
		if fin, ok := parseFecha(f.FechaFin); ok {
			return inicio, finDeDia(fin)
		}
	}
	if dia, ok := parseFecha(f.Fecha); ok {
		return dia, finDeDia(dia)
	}

	ahora := time.Now()
	hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	switch f.Periodo {
	case "diario":
		return hoy, finDeDia(hoy)
	case "semanal":
		dia := int(hoy.Weekday())
		if dia == 0 {
			dia = 7
		}
		lunes := hoy.AddDate(0, 0, -(dia - 1))
		return lunes, finDeDia(lunes.AddDate(0, 0, 6))
	default: // mensual
		primero := time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, hoy.Location())
		ultimo := primero.AddDate(0, 1, -1)
		return primero, finDeDia(ultimo)
	}
}

// ── VentasPorPeriodo ─────────────────────────────────────────────────────────

func (s *reporteService) VentasPorPeriodo(ctx context.Context, filter dto.PeriodoFilter) (*dto.VentasPorPeriodoResponse, error) {
	desde, hasta := resolverPeriodo(filter)
	ventas, err := s.repo.VentasCompletadasEnRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.VentasPorPeriodoResponse{Periodo: filter.Periodo}
	if resp.Periodo == "" {
		resp.Periodo = "mensual"
	}
	resp.Rango.Inicio = desde.Format("2006-01-02")
	resp.Rango.Fin = hasta.Format("2006-01-02")
	resp.Totales.TotalEfectivo = decimal.Zero
	resp.Totales.TotalQR = decimal.Zero
	resp.Totales.TotalBruto = decimal.Zero

	porFecha := map[string]*dto.VentasDiaResumen{}
	for _, v := range ventas {
		resp.Totales.CantidadVentas++
		resp.Totales.TotalBruto = resp.Totales.TotalBruto.Add(v.Total)
		if v.MetodoPago.EsEfectivo() {
			resp.Totales.TotalEfectivo = resp.Totales.TotalEfectivo.Add(v.Total)
		}
		if v.MetodoPago == model.PagoQR {
			resp.Totales.TotalQR = resp.Totales.TotalQR.Add(v.Total)
		}

		key := v.Fecha.Format("2006-01-02")
		fila, ok := porFecha[key]
		if !ok {
			fila = &dto.VentasDiaResumen{Fecha: key, Total: decimal.Zero}
			porFecha[key] = fila
		}
		fila.Cantidad++
		fila.Total = fila.Total.Add(v.Total)
	}

	detalle := make([]dto.VentasDiaResumen, 0, len(porFecha))
	for _, fila := range porFecha {
		detalle = append(detalle, *fila)
	}
	sort.Slice(detalle, func(i, j int) bool { return detalle[i].Fecha < detalle[j].Fecha })
	resp.DetallePorFecha = detalle
	return resp, nil
}

// ── GananciaReal ─────────────────────────────────────────────────────────────

func (s *reporteService) GananciaReal(ctx context.Context, filter dto.RangoFilter) (*dto.GananciaResponse, error) {
	desde, hasta := rangoDesdeFiltro(filter)
	detalles, err := s.repo.DetallesEnRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.GananciaResponse{Periodo: filter}
	venta, costo := decimal.Zero, decimal.Zero
	for _, d := range detalles {
		cant := decimal.NewFromInt(int64(d.Cantidad))
		venta = venta.Add(d.PrecioUnitario.Mul(cant))
		costo = costo.Add(d.PrecioCompra.Mul(cant))
	}
	utilidad := venta.Sub(costo)

	resp.Resumen.VentaTotal = venta
	resp.Resumen.CostoTotal = costo
	resp.Resumen.UtilidadBruta = utilidad
	resp.Resumen.MargenPct = decimal.Zero
	if venta.IsPositive() {
		resp.Resumen.MargenPct = utilidad.Div(venta).Mul(decimal.NewFromInt(cien)).Round(2)
	}
	return resp, nil
}

// ── VentasPorMetodoPago ──────────────────────────────────────────────────────

func (s *reporteService) VentasPorMetodoPago(ctx context.Context, filter dto.RangoFilter) ([]dto.MetodoPagoResumen, error) {
	desde, hasta := rangoDesdeFiltro(filter)
	filas, err := s.repo.VentasPorMetodo(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	resumen := make([]dto.MetodoPagoResumen, len(filas))
	for i, f := range filas {
		resumen[i] = dto.MetodoPagoResumen{MetodoPago: f.MetodoPago, Cantidad: f.Cantidad, Total: f.Total}
	}
	return resumen, nil
}

const topClientesLimit = 50

func (s *reporteService) TopClientes(ctx context.Context, filter dto.RangoFilter) ([]dto.ClienteVentaResumen, error) {
	desde, hasta := rangoDesdeFiltro(filter)
	filas, err := s.repo.VentasPorCliente(ctx, desde, hasta, topClientesLimit)
	if err != nil {
		return nil, err
	}
	resumen := make([]dto.ClienteVentaResumen, len(filas))
	for i, f := range filas {
		promedio := decimal.Zero
		if f.Compras > 0 {
			promedio = f.Total.Div(decimal.NewFromInt(f.Compras)).Round(2)
		}
		resumen[i] = dto.ClienteVentaResumen{
			ClienteID:      f.ClienteID.String(),
			Nombre:         f.Nombre,
			Compras:        f.Compras,
			Total:          f.Total,
			TicketPromedio: promedio,
			UltimaCompra:   f.UltimaCompra.Format("2006-01-02T15:04:05Z"),
		}
	}
	return resumen, nil
}

// ── InventarioValorado ───────────────────────────────────────────────────────

func (s *reporteService) InventarioValorado(ctx context.Context, sucursalID *uuid.UUID) (*dto.InventarioValoradoResponse, error) {
	var almacenIDs []uuid.UUID
	if sucursalID != nil {
		ids, err := s.sucursales.AlmacenIDsPorSucursal(ctx, *sucursalID)
		if err != nil {
			return nil, err
		}
		almacenIDs = ids
	}

	rows, err := s.repo.InventarioCompleto(ctx, almacenIDs)
	if err != nil {
		return nil, err
	}

	resp := &dto.InventarioValoradoResponse{Detalle: []dto.InventarioValoradoLinea{}}
	resp.Resumen.ValorTotal = decimal.Zero
	for _, inv := range rows {
		if inv.Producto == nil {
			continue
		}
		valor := inv.Producto.PrecioCompra.Mul(decimal.NewFromInt(int64(inv.Cantidad)))
		linea := dto.InventarioValoradoLinea{
			Producto:      inv.Producto.Nombre,
			CodigoBarras:  inv.Producto.CodigoBarras,
			Categoria:     "Sin Categoria",
			Cantidad:      inv.Cantidad,
			CostoUnitario: inv.Producto.PrecioCompra,
			ValorTotal:    valor,
		}
		if inv.Producto.Categoria != nil {
			linea.Categoria = inv.Producto.Categoria.Nombre
		}
		if inv.Almacen != nil {
			linea.Almacen = inv.Almacen.Nombre
			if inv.Almacen.Sucursal != nil {
				linea.Sucursal = inv.Almacen.Sucursal.Nombre
			}
		}
		resp.Detalle = append(resp.Detalle, linea)
		resp.Resumen.TotalUnidades += inv.Cantidad
		resp.Resumen.ValorTotal = resp.Resumen.ValorTotal.Add(valor)
	}
	resp.Resumen.TotalProductos = len(resp.Detalle)
	return resp, nil
}

// ── ProductosSinMovimiento ───────────────────────────────────────────────────

func (s *reporteService) ProductosSinMovimiento(ctx context.Context, dias int) (*dto.RotacionResponse, error) {
	fechaLimite := time.Now().AddDate(0, 0, -dias)
	productos, err := s.repo.ProductosSinVentaDesde(ctx, fechaLimite)
	if err != nil {
		return nil, err
	}

	resp := &dto.RotacionResponse{DiasSinVenta: dias, Productos: []dto.ProductoSinMovimiento{}}
	for _, p := range productos {
		item := dto.ProductoSinMovimiento{
			ID:           p.ID.String(),
			Nombre:       p.Nombre,
			CodigoBarras: p.CodigoBarras,
			Categoria:    "Sin Categoria",
			StockTotal:   p.Stock,
			PrecioVenta:  p.PrecioVenta,
			Costo:        p.PrecioCompra,
		}
		if p.Categoria != nil {
			item.Categoria = p.Categoria.Nombre
		}
		resp.Productos = append(resp.Productos, item)
	}
	resp.CantidadProductos = len(resp.Productos)
	return resp, nil
}

// ── KardexProducto ───────────────────────────────────────────────────────────

func (s *reporteService) KardexProducto(ctx context.Context, productoID uuid.UUID, filter dto.RangoFilter) (*dto.KardexProductoResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, apierror.NotFound("producto")
	}

	desde, hasta := rangoDesdeFiltro(filter)
	movs, err := s.invRepo.ListMovimientosProducto(ctx, productoID, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.KardexProductoResponse{Movimientos: make([]dto.MovimientoInvResponse, len(movs))}
	resp.Producto.Nombre = p.Nombre
	resp.Producto.CodigoBarras = p.CodigoBarras
	resp.Producto.Stock = p.Stock
	for i := range movs {
		resp.Movimientos[i] = movimientoInvToResponse(&movs[i])
	}
	return resp, nil
}

// ── TopCategorias / AnalisisTallas ───────────────────────────────────────────

func (s *reporteService) TopCategorias(ctx context.Context, filter dto.RangoFilter) ([]dto.CategoriaVentaResumen, error) {
	desde, hasta := rangoDesdeFiltro(filter)
	detalles, err := s.repo.DetallesEnRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	agrupado := map[string]*dto.CategoriaVentaResumen{}
	for _, d := range detalles {
		nombre := "Sin Categoria"
		if d.Producto != nil && d.Producto.Categoria != nil {
			nombre = d.Producto.Categoria.Nombre
		}
		fila, ok := agrupado[nombre]
		if !ok {
			fila = &dto.CategoriaVentaResumen{Nombre: nombre, Total: decimal.Zero}
			agrupado[nombre] = fila
		}
		fila.Cantidad += d.Cantidad
		fila.Total = fila.Total.Add(d.Subtotal)
	}

	resumen := make([]dto.CategoriaVentaResumen, 0, len(agrupado))
	for _, fila := range agrupado {
		resumen = append(resumen, *fila)
	}
	sort.Slice(resumen, func(i, j int) bool { return resumen[i].Total.GreaterThan(resumen[j].Total) })
	return resumen, nil
}

func (s *reporteService) AnalisisTallas(ctx context.Context, filter dto.RangoFilter) ([]dto.TallaVentaResumen, error) {
	desde, hasta := rangoDesdeFiltro(filter)
	detalles, err := s.repo.DetallesEnRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	agrupado := map[string]*dto.TallaVentaResumen{}
	for _, d := range detalles {
		talla := "Sin Talla"
		if d.Producto != nil && d.Producto.Talla != "" {
			talla = d.Producto.Talla
		}
		fila, ok := agrupado[talla]
		if !ok {
			fila = &dto.TallaVentaResumen{Talla: talla, Total: decimal.Zero}
			agrupado[talla] = fila
		}
		fila.Cantidad += d.Cantidad
		fila.Total = fila.Total.Add(d.Subtotal)
	}

	resumen := make([]dto.TallaVentaResumen, 0, len(agrupado))
	for _, fila := range agrupado {
		resumen = append(resumen, *fila)
	}
	sort.Slice(resumen, func(i, j int) bool { return resumen[i].Cantidad > resumen[j].Cantidad })
	return resumen, nil
}

// ── ReporteCajas ─────────────────────────────────────────────────────────────

const maxSesionesReporte = 50

func (s *reporteService) ReporteCajas(ctx context.Context, filter dto.ReporteCajasFilter) ([]dto.SesionCajaReporte, error) {
	desde, hasta := rangoDesdeFiltro(filter.RangoFilter)

	var usuarioID, cajaID *uuid.UUID
	if filter.UsuarioID != "" {
		if id, err := uuid.Parse(filter.UsuarioID); err == nil {
			usuarioID = &id
		}
	}
	if filter.CajaID != "" {
		if id, err := uuid.Parse(filter.CajaID); err == nil {
			cajaID = &id
		}
	}

	sesiones, err := s.repo.SesionesConDetalle(ctx, desde, hasta, usuarioID, cajaID, maxSesionesReporte)
	if err != nil {
		return nil, err
	}
	if len(sesiones) == 0 {
		return []dto.SesionCajaReporte{}, nil
	}

	ids := make([]uuid.UUID, len(sesiones))
	for i, ses := range sesiones {
		ids[i] = ses.ID
	}
	ventasPorSesion, err := s.repo.VentasPorSesion(ctx, ids)
	if err != nil {
		return nil, err
	}
	movsPorSesion, err := s.repo.MovimientosPorSesion(ctx, ids)
	if err != nil {
		return nil, err
	}

	reporte := make([]dto.SesionCajaReporte, 0, len(sesiones))
	for _, ses := range sesiones {
		fila := dto.SesionCajaReporte{
			ID:             ses.ID.String(),
			FechaApertura:  ses.FechaInicio.Format("2006-01-02T15:04:05Z"),
			Estado:         string(ses.Estado),
			MontoInicial:   ses.MontoInicial,
			VentasEfectivo: decimal.Zero,
			VentasQR:       decimal.Zero,
			Ingresos:       decimal.Zero,
			Retiros:        decimal.Zero,
			MontoFinal:     ses.MontoFinal,
		}
		if ses.FechaFin != nil {
			f := ses.FechaFin.Format("2006-01-02T15:04:05Z")
			fila.FechaCierre = &f
		}
		if ses.Caja != nil {
			fila.Caja = ses.Caja.Nombre
			if ses.Caja.Sucursal != nil {
				fila.Sucursal = ses.Caja.Sucursal.Nombre
			}
		}
		if ses.Usuario != nil {
			fila.Usuario = ses.Usuario.Nombres
		}

		for _, v := range ventasPorSesion[ses.ID] {
			if v.MetodoPago.EsEfectivo() {
				fila.VentasEfectivo = fila.VentasEfectivo.Add(v.Total)
			}
			if v.MetodoPago == model.PagoQR {
				fila.VentasQR = fila.VentasQR.Add(v.Total)
			}
		}
		for _, m := range movsPorSesion[ses.ID] {
			if m.VentaID != nil {
				continue
			}
			switch m.Tipo {
			case model.MovCajaIngreso:
				fila.Ingresos = fila.Ingresos.Add(m.Monto)
			case model.MovCajaRetiro:
				fila.Retiros = fila.Retiros.Add(m.Monto)
			}
		}

		fila.TotalVendido = fila.VentasEfectivo.Add(fila.VentasQR)
		fila.SaldoTeorico = ses.MontoInicial.Add(fila.VentasEfectivo).Add(fila.Ingresos).Sub(fila.Retiros)
		reporte = append(reporte, fila)
	}
	return reporte, nil
}

// ── DashboardStats ───────────────────────────────────────────────────────────

func (s *reporteService) DashboardStats(ctx context.Context, filter dto.RangoFilter) (*dto.DashboardStatsResponse, error) {
	desde, hasta := rangoDesdeFiltro(filter)
	ahora := time.Now()
	if desde == nil {
		inicio := time.Date(ahora.Year()-1, ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())
		desde = &inicio
	}
	if hasta == nil {
		fin := finDeDia(ahora)
		hasta = &fin
	}

	ventas, err := s.repo.VentasCompletadasEnRango(ctx, *desde, *hasta)
	if err != nil {
		return nil, err
	}

	total, productos, ganancias := resumenVentas(ventas)

	resp := &dto.DashboardStatsResponse{
		TotalVentas:       total.Round(2),
		ProductosVendidos: productos,
		Ganancias:         ganancias.Round(2),
		CambioVentas:      decimal.Zero,
		CambioProductos:   decimal.Zero,
		CambioGanancias:   decimal.Zero,
	}

	// Previous window of the same length, for the comparison deltas.
	if filter.FechaInicio != "" && filter.FechaFin != "" {
		duracion := hasta.Sub(*desde)
		inicioAnterior := desde.Add(-duracion)
		finAnterior := desde.Add(-time.Nanosecond)
		anteriores, err := s.repo.VentasCompletadasEnRango(ctx, inicioAnterior, finAnterior)
		if err != nil {
			return nil, err
		}
		totalAnt, prodAnt, ganAnt := resumenVentas(anteriores)
		resp.CambioVentas = cambioPorcentual(total, totalAnt)
		resp.CambioProductos = cambioPorcentual(decimal.NewFromInt(int64(productos)), decimal.NewFromInt(int64(prodAnt)))
		resp.CambioGanancias = cambioPorcentual(ganancias, ganAnt)
	}

	// Monthly buckets over the last 12 months.
	hace12Meses := time.Date(ahora.Year()-1, ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())
	anuales, err := s.repo.VentasCompletadasEnRango(ctx, hace12Meses, finDeDia(ahora))
	if err != nil {
		return nil, err
	}
	porMes := make([]decimal.Decimal, 12)
	for i := range porMes {
		porMes[i] = decimal.Zero
	}
	for _, v := range anuales {
		porMes[int(v.Fecha.Month())-1] = porMes[int(v.Fecha.Month())-1].Add(v.Total)
	}
	for i := range porMes {
		porMes[i] = porMes[i].Round(2)
	}
	resp.VentasPorMes = porMes

	// Top products by quantity and by amount.
	type agg struct {
		id       string
		nombre   string
		cantidad int
		monto    decimal.Decimal
	}
	porProducto := map[uuid.UUID]*agg{}
	for _, v := range ventas {
		for _, d := range v.Detalles {
			fila, ok := porProducto[d.ProductoID]
			if !ok {
				nombre := "Producto"
				if d.Producto != nil {
					nombre = d.Producto.Nombre
				}
				fila = &agg{id: d.ProductoID.String(), nombre: nombre, monto: decimal.Zero}
				porProducto[d.ProductoID] = fila
			}
			fila.cantidad += d.Cantidad
			fila.monto = fila.monto.Add(d.Subtotal)
		}
	}
	todos := make([]*agg, 0, len(porProducto))
	for _, fila := range porProducto {
		todos = append(todos, fila)
	}

	sort.Slice(todos, func(i, j int) bool { return todos[i].cantidad > todos[j].cantidad })
	for i := 0; i < len(todos) && i < 5; i++ {
		resp.TopProductosCantidad = append(resp.TopProductosCantidad, dto.TopProducto{
			ID: todos[i].id, Nombre: todos[i].nombre, Cantidad: todos[i].cantidad,
		})
	}

	sort.Slice(todos, func(i, j int) bool { return todos[i].monto.GreaterThan(todos[j].monto) })
	for i := 0; i < len(todos) && i < 5; i++ {
		resp.TopProductosMonto = append(resp.TopProductosMonto, dto.TopProducto{
			ID: todos[i].id, Nombre: todos[i].nombre, Monto: todos[i].monto.Round(2),
		})
	}
	return resp, nil
}

func resumenVentas(ventas []model.Venta) (total decimal.Decimal, productos int, ganancias decimal.Decimal) {
	total, ganancias = decimal.Zero, decimal.Zero
	for _, v := range ventas {
		total = total.Add(v.Total)
		for _, d := range v.Detalles {
			productos += d.Cantidad
			cant := decimal.NewFromInt(int64(d.Cantidad))
			ganancias = ganancias.Add(d.PrecioUnitario.Sub(d.PrecioCompra).Mul(cant))
		}
	}
	return total, productos, ganancias
}

func cambioPorcentual(actual, anterior decimal.Decimal) decimal.Decimal {
	if !anterior.IsPositive() {
		return decimal.Zero
	}
	return actual.Sub(anterior).Div(anterior).Mul(decimal.NewFromInt(cien)).Round(1)
}
