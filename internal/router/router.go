package router

import (
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/config"
	"github.com/Eduardv6/SisPOS-Backend/internal/handler"
	"github.com/Eduardv6/SisPOS-Backend/internal/middleware"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"
	"github.com/Eduardv6/SisPOS-Backend/internal/service"
	"github.com/Eduardv6/SisPOS-Backend/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	catalogoSvc := service.NewCatalogoService(sucursalRepo, categoriaRepo, clienteRepo)
	productoSvc := service.NewProductoService(productoRepo, inventarioRepo, categoriaRepo, rdb)
	inventarioSvc := service.NewInventarioService(inventarioRepo, productoRepo, sucursalRepo, dispatcher)
	cajaSvc := service.NewCajaService(cajaRepo, ventaRepo, dispatcher)
	ventaSvc := service.NewVentaService(ventaRepo, cajaRepo, productoRepo, clienteRepo, inventarioSvc)
	reporteSvc := service.NewReporteService(reporteRepo, inventarioRepo, productoRepo, sucursalRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	cajasH := handler.NewCajasHandler(cajaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole("cajero", "vendedor", "administrador")
	admin := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/perfil", staff, authH.Perfil)
		v1.PUT("/auth/password", staff, authH.CambiarPassword)

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.RegistrarUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}

		// ── Catalogo ─────────────────────────────────────────────────────────
		v1.GET("/sucursales", staff, catalogoH.ListarSucursales)
		sucursales := v1.Group("/sucursales", admin)
		{
			sucursales.POST("", catalogoH.CrearSucursal)
			sucursales.PUT("/:id", catalogoH.ActualizarSucursal)
			sucursales.DELETE("/:id", catalogoH.DesactivarSucursal)
		}

		v1.GET("/almacenes", staff, catalogoH.ListarAlmacenes)
		almacenes := v1.Group("/almacenes", admin)
		{
			almacenes.POST("", catalogoH.CrearAlmacen)
			almacenes.PUT("/:id", catalogoH.ActualizarAlmacen)
		}

		v1.GET("/categorias", staff, catalogoH.ListarCategorias)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", catalogoH.CrearCategoria)
			categorias.PUT("/:id", catalogoH.ActualizarCategoria)
			categorias.DELETE("/:id", catalogoH.DesactivarCategoria)
		}

		clientes := v1.Group("/clientes", staff)
		{
			clientes.POST("", catalogoH.CrearCliente)
			clientes.GET("", catalogoH.ListarClientes)
			clientes.PUT("/:id", catalogoH.ActualizarCliente)
			clientes.DELETE("/:id", middleware.RequireRole("administrador"), catalogoH.EliminarCliente)
		}

		// ── Productos ────────────────────────────────────────────────────────
		v1.GET("/productos", staff, productosH.ListarProductos)
		v1.GET("/productos/barcode/:codigo", staff, productosH.BuscarPorBarcode)
		v1.GET("/productos/:id", staff, productosH.ObtenerProducto)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.CrearProducto)
			prods.PUT("/:id", productosH.ActualizarProducto)
			prods.DELETE("/:id", productosH.DesactivarProducto)
		}

		// ── Inventario ───────────────────────────────────────────────────────
		inv := v1.Group("/inventario")
		{
			inv.GET("", staff, inventarioH.ListarInventario)
			inv.GET("/producto/:id", staff, inventarioH.ListarPorProducto)
			inv.GET("/movimientos", staff, inventarioH.ListarMovimientos)
			inv.PUT("/stock", admin, inventarioH.ActualizarStock)
			inv.POST("/ajustes", admin, inventarioH.AjustarStock)
			inv.POST("/transferencias", admin, inventarioH.Transferir)
			inv.POST("/reconciliar", admin, inventarioH.Reconciliar)
		}

		// ── Cajas ────────────────────────────────────────────────────────────
		cajas := v1.Group("/cajas")
		{
			cajas.GET("", staff, cajasH.ListarCajas)
			cajas.POST("", admin, cajasH.CrearCaja)
			cajas.GET("/sesion-activa", staff, cajasH.SesionActiva)
			cajas.GET("/sesiones", staff, cajasH.ListarSesiones)
			cajas.GET("/sesiones/:id/movimientos", staff, cajasH.ListarMovimientosSesion)
			cajas.GET("/movimientos", staff, cajasH.ListarMovimientosCaja)
			cajas.GET("/:id", staff, cajasH.ObtenerCaja)
			cajas.PUT("/:id", admin, cajasH.ActualizarCaja)
			cajas.DELETE("/:id", admin, cajasH.EliminarCaja)
			cajas.POST("/:id/abrir", staff, cajasH.AbrirCaja)
			cajas.POST("/:id/cerrar", staff, cajasH.CerrarCaja)
			cajas.POST("/:id/ingreso", staff, cajasH.RegistrarIngreso)
			cajas.POST("/:id/retiro", staff, cajasH.RegistrarRetiro)
		}

		// ── Ventas ───────────────────────────────────────────────────────────
		ventas := v1.Group("/ventas", staff)
		{
			ventas.POST("", ventasH.RegistrarVenta)
			ventas.GET("", ventasH.ListarVentas)
			ventas.GET("/:id", ventasH.ObtenerVenta)
			ventas.POST("/:id/anular", middleware.RequireRole("administrador"), ventasH.AnularVenta)
		}

		// ── Reportes ─────────────────────────────────────────────────────────
		reportes := v1.Group("/reportes", admin)
		{
			reportes.GET("/ventas", reportesH.VentasPorPeriodo)
			reportes.GET("/ganancias", reportesH.GananciaReal)
			reportes.GET("/metodos-pago", reportesH.VentasPorMetodoPago)
			reportes.GET("/inventario-valorado", reportesH.InventarioValorado)
			reportes.GET("/rotacion", reportesH.ProductosSinMovimiento)
			reportes.GET("/kardex/:id", reportesH.KardexProducto)
			reportes.GET("/categorias", reportesH.TopCategorias)
			reportes.GET("/tallas", reportesH.AnalisisTallas)
			reportes.GET("/cajas", reportesH.ReporteCajas)
			reportes.GET("/clientes", reportesH.TopClientes)
		}
		v1.GET("/dashboard/stats", staff, reportesH.DashboardStats)
	}

	// Swagger UI — only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
