package service

import (
	"context"
	"errors"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/apierror"
	"github.com/Eduardv6/SisPOS-Backend/internal/config"
	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	RegistrarUsuario(ctx context.Context, req dto.RegistrarUsuarioRequest) (*dto.UsuarioResponse, error)
	Perfil(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioResponse, error)
	CambiarPassword(ctx context.Context, usuarioID uuid.UUID, req dto.CambiarPasswordRequest) error
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	if !user.Activo {
		return nil, errors.New("usuario inactivo")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales invalidas")
	}

	expiry := time.Duration(s.cfg.JWTExpiryMinutes) * time.Minute
	token, err := s.generateToken(user, expiry)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(expiry).Format(time.RFC3339),
		Usuario:   usuarioToResponse(user),
	}, nil
}

func (s *authService) RegistrarUsuario(ctx context.Context, req dto.RegistrarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierror.Conflict("ya existe un usuario con el email %s", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}

	user := &model.Usuario{
		Email:        req.Email,
		Nombres:      req.Nombres,
		PasswordHash: string(hash),
		Rol:          model.Rol(req.Rol),
		Activo:       true,
	}
	if req.SucursalID != nil {
		sid, err := uuid.Parse(*req.SucursalID)
		if err != nil {
			return nil, errors.New("sucursal_id invalido")
		}
		user.SucursalID = &sid
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) Perfil(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, apierror.NotFound("usuario")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) CambiarPassword(ctx context.Context, usuarioID uuid.UUID, req dto.CambiarPasswordRequest) error {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return apierror.NotFound("usuario")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.PasswordActual)); err != nil {
		return errors.New("password actual incorrecto")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordNuevo), 12)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.repo.Update(ctx, user)
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("usuario")
	}
	return s.repo.Desactivar(ctx, id)
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"rol":     string(user.Rol),
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	if user.SucursalID != nil {
		claims["sucursal_id"] = user.SucursalID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		ID:      u.ID.String(),
		Email:   u.Email,
		Nombres: u.Nombres,
		Rol:     string(u.Rol),
		Activo:  u.Activo,
	}
	if u.SucursalID != nil {
		s := u.SucursalID.String()
		resp.SucursalID = &s
	}
	return resp
}
