package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/thyagolima23/cozinha-backend/apperr"
	"github.com/thyagolima23/cozinha-backend/database"
	"github.com/thyagolima23/cozinha-backend/model"
	"github.com/thyagolima23/cozinha-backend/utils"
	"github.com/thyagolima23/cozinha-backend/validation"
)

const (
	msgMissingFields  = "Campos obrigatórios faltando"
	msgMissingLogin   = "Email e senha são obrigatórios"
	msgEmailTaken     = "Email já cadastrado"
	msgBadCredentials = "Credenciais inválidas"
	msgInvalidToken   = "Token inválido ou expirado"
	msgSignupFailed   = "Erro interno"
	msgSigninFailed   = "Erro ao realizar login"
)

// CookStore is the part of the store the auth service needs.
type CookStore interface {
	CreateCook(ctx context.Context, cook *model.Cook) error
	FindCookByEmail(ctx context.Context, email string) (*model.Cook, error)
}

type SignupInput struct {
	Name     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

// Session is the result of a successful sign-in.
type Session struct {
	Token string
	Cook  model.Cook
}

type Service struct {
	store    CookStore
	tokens   *utils.TokenManager
	hashCost int
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.hashCost = cost
	}
}

func NewService(store CookStore, tokens *utils.TokenManager, opts ...Option) *Service {
	s := &Service{store: store, tokens: tokens, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a cook and returns the new cook's ID. The password is
// hashed exactly as given.
func (s *Service) Signup(ctx context.Context, in SignupInput) (uint, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in, msgMissingFields); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, msgSignupFailed, err)
	}

	cook := &model.Cook{Name: in.Name, Email: in.Email, PasswordHash: string(hash)}
	if err := s.store.CreateCook(ctx, cook); err != nil {
		if database.KindOf(err) == database.KindUniqueViolation {
			return 0, apperr.Wrap(apperr.KindConflict, msgEmailTaken, err)
		}
		return 0, apperr.Wrap(apperr.KindInternal, msgSignupFailed, err)
	}
	return cook.ID, nil
}

// Signin checks the credentials and issues a session token. An unknown email
// and a wrong password fail the same way.
func (s *Service) Signin(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.KindValidation, msgMissingLogin)
	}

	cook, err := s.store.FindCookByEmail(ctx, email)
	if err != nil {
		if database.KindOf(err) == database.KindNotFound {
			return nil, apperr.Wrap(apperr.KindAuth, msgBadCredentials, err)
		}
		return nil, apperr.Wrap(apperr.KindInternal, msgSigninFailed, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cook.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperr.Wrap(apperr.KindAuth, msgBadCredentials, err)
		}
		return nil, apperr.Wrap(apperr.KindInternal, msgSigninFailed, err)
	}

	token, err := s.tokens.GenerateToken(model.Identity{CookID: cook.ID, Email: cook.Email})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgSigninFailed, err)
	}

	return &Session{Token: token, Cook: *cook}, nil
}

// Authenticate verifies a session token.
func (s *Service) Authenticate(token string) (model.Identity, error) {
	id, err := s.tokens.ValidateToken(token)
	if err != nil {
		return model.Identity{}, apperr.Wrap(apperr.KindAuth, msgInvalidToken, err)
	}
	return id, nil
}
