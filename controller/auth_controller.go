package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thyagolima23/cozinha-backend/auth"
)

type AuthService interface {
	Signup(ctx context.Context, in auth.SignupInput) (uint, error)
	Signin(ctx context.Context, email, password string) (*auth.Session, error)
}

type AuthController struct {
	auth AuthService
	log  *slog.Logger
}

func NewAuthController(svc AuthService, log *slog.Logger) *AuthController {
	return &AuthController{auth: svc, log: loggerOr(log)}
}

func (ac *AuthController) Signup(c *gin.Context) {
	var req auth.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidFields)
		return
	}

	id, err := ac.auth.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, ac.log, err, msgInternal)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Usuária criada",
		"id_usuario": id,
	})
}

func (ac *AuthController) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"senha"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidFields)
		return
	}

	session, err := ac.auth.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, ac.log, err, "Erro ao realizar login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login bem-sucedido",
		"token":      session.Token,
		"id_usuario": session.Cook.ID,
		"nome":       session.Cook.Name,
		"email":      session.Cook.Email,
	})
}
