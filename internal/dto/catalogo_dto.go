package dto

// ─── Sucursales / Almacenes ──────────────────────────────────────────────────

type CrearSucursalRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=120"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
}

type ActualizarSucursalRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=120"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Activo    *bool   `json:"activo"`
}

type SucursalResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Activo    bool    `json:"activo"`
}

type CrearAlmacenRequest struct {
	Nombre     string  `json:"nombre"      validate:"required,min=2,max=120"`
	SucursalID string  `json:"sucursal_id" validate:"required,uuid"`
	Ubicacion  *string `json:"ubicacion"`
}

type ActualizarAlmacenRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=120"`
	Ubicacion *string `json:"ubicacion"`
	Activo    *bool   `json:"activo"`
}

type AlmacenResponse struct {
	ID         string  `json:"id"`
	Nombre     string  `json:"nombre"`
	SucursalID string  `json:"sucursal_id"`
	Sucursal   string  `json:"sucursal"`
	Ubicacion  *string `json:"ubicacion"`
	Activo     bool    `json:"activo"`
}

// ─── Categorias ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre      string  `json:"nombre" validate:"required,min=2,max=80"`
	Descripcion *string `json:"descripcion"`
}

type ActualizarCategoriaRequest struct {
	Nombre      *string `json:"nombre" validate:"omitempty,min=2,max=80"`
	Descripcion *string `json:"descripcion"`
	Activo      *bool   `json:"activo"`
}

type CategoriaResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Activo      bool    `json:"activo"`
}

// ─── Clientes ────────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=120"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Celular   *string `json:"celular"`
	Direccion *string `json:"direccion"`
}

type ActualizarClienteRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=120"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Celular   *string `json:"celular"`
	Direccion *string `json:"direccion"`
}

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Email     *string `json:"email"`
	Celular   *string `json:"celular"`
	Direccion *string `json:"direccion"`
}

type ClienteFilter struct {
	Buscar string `form:"buscar"`
	PageFilter
}
