package tests

import (
	"context"
	"testing"

	"github.com/Eduardv6/SisPOS-Backend/internal/apierror"
	"github.com/Eduardv6/SisPOS-Backend/internal/config"
	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "unit-test-secret",
		JWTExpiryMinutes: 60,
	}
}

func seedUsuario(t *testing.T, repo *fakeUsuarioRepo, email, password string, rol model.Rol) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		ID:           uuid.New(),
		Email:        email,
		Nombres:      "Usuario de Prueba",
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
	}
	repo.usuarios[u.ID] = u
	return u
}

func TestLogin(t *testing.T) {
	repo := newFakeUsuarioRepo()
	cfg := testConfig()
	svc := service.NewAuthService(repo, cfg)
	user := seedUsuario(t, repo, "cajero@sispos.local", "secreto123", model.RolCajero)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "cajero@sispos.local", Password: "secreto123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, user.Email, resp.Usuario.Email)
	assert.Equal(t, string(model.RolCajero), resp.Usuario.Rol)

	// The token carries the identity claims the middleware reads.
	parsed, err := jwt.Parse(resp.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, string(model.RolCajero), claims["rol"])
}

func TestLoginPasswordIncorrecto(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := service.NewAuthService(repo, testConfig())
	seedUsuario(t, repo, "cajero@sispos.local", "secreto123", model.RolCajero)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "cajero@sispos.local", Password: "otra-clave"})
	require.EqualError(t, err, "credenciales invalidas")
}

func TestLoginEmailDesconocido(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := service.NewAuthService(repo, testConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "nadie@sispos.local", Password: "loquesea"})
	require.EqualError(t, err, "credenciales invalidas")
}

func TestLoginUsuarioInactivo(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := service.NewAuthService(repo, testConfig())
	user := seedUsuario(t, repo, "baja@sispos.local", "secreto123", model.RolVendedor)
	user.Activo = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "baja@sispos.local", Password: "secreto123"})
	require.EqualError(t, err, "usuario inactivo")
}

func TestRegistrarUsuario(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := service.NewAuthService(repo, testConfig())
	sucursalID := uuid.New().String()

	resp, err := svc.RegistrarUsuario(context.Background(), dto.RegistrarUsuarioRequest{
		Email:      "nuevo@sispos.local",
		Password:   "clave-segura",
		Nombres:    "Vendedor Nuevo",
		Rol:        "vendedor",
		SucursalID: &sucursalID,
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@sispos.local", resp.Email)
	assert.True(t, resp.Activo)
	require.NotNil(t, resp.SucursalID)
	assert.Equal(t, sucursalID, *resp.SucursalID)

	// Plaintext never stored.
	stored, err := repo.FindByEmail(context.Background(), "nuevo@sispos.local")
	require.NoError(t, err)
	assert.NotEqual(t, "clave-segura", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura")))
}

func TestRegistrarUsuarioEmailDuplicado(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := service.NewAuthService(repo, testConfig())
	seedUsuario(t, repo, "existente@sispos.local", "secreto123", model.RolCajero)

	_, err := svc.RegistrarUsuario(context.Background(), dto.RegistrarUsuarioRequest{
		Email:    "existente@sispos.local",
		Password: "clave123",
		Nombres:  "Repetido",
		Rol:      "cajero",
	})
	require.Error(t, err)
	assert.Equal(t, 409, apierror.StatusFor(err))
}

func TestCambiarPassword(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := service.NewAuthService(repo, testConfig())
	user := seedUsuario(t, repo, "cajero@sispos.local", "vieja-clave", model.RolCajero)

	err := svc.CambiarPassword(context.Background(), user.ID, dto.CambiarPasswordRequest{
		PasswordActual: "vieja-clave",
		PasswordNuevo:  "nueva-clave",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "cajero@sispos.local", Password: "nueva-clave"})
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "cajero@sispos.local", Password: "vieja-clave"})
	require.Error(t, err)
}

func TestCambiarPasswordActualIncorrecta(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := service.NewAuthService(repo, testConfig())
	user := seedUsuario(t, repo, "cajero@sispos.local", "vieja-clave", model.RolCajero)

	err := svc.CambiarPassword(context.Background(), user.ID, dto.CambiarPasswordRequest{
		PasswordActual: "no-es-esta",
		PasswordNuevo:  "nueva-clave",
	})
	require.EqualError(t, err, "password actual incorrecto")
}

func TestDesactivarUsuario(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := service.NewAuthService(repo, testConfig())
	user := seedUsuario(t, repo, "saliente@sispos.local", "secreto123", model.RolVendedor)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), user.ID))
	assert.False(t, repo.usuarios[user.ID].Activo)

	err := svc.DesactivarUsuario(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apierror.StatusFor(err))
}
