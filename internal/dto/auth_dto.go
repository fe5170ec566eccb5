package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegistrarUsuarioRequest struct {
	Email      string  `json:"email"       validate:"required,email"`
	Password   string  `json:"password"    validate:"required,min=6"`
	Nombres    string  `json:"nombres"     validate:"required,min=2,max=120"`
	Rol        string  `json:"rol"         validate:"required,oneof=administrador vendedor cajero"`
	SucursalID *string `json:"sucursal_id" validate:"omitempty,uuid"`
}

type CambiarPasswordRequest struct {
	PasswordActual string `json:"password_actual" validate:"required"`
	PasswordNuevo  string `json:"password_nuevo"  validate:"required,min=6"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Nombres    string  `json:"nombres"`
	Rol        string  `json:"rol"`
	SucursalID *string `json:"sucursal_id"`
	Activo     bool    `json:"activo"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expires_at"`
	Usuario   UsuarioResponse `json:"usuario"`
}
