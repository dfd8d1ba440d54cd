package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thyagolima23/cozinha-backend/apperr"
	"github.com/thyagolima23/cozinha-backend/utils"
)

const (
	msgInvalidFields = "Campos inválidos"
	msgInvalidID     = "ID inválido"
	msgInternal      = "Erro interno"
)

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicateVote:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message} with the status for err's kind.
// Internal causes are logged here and never sent to the client.
func respondError(c *gin.Context, log *slog.Logger, err error, fallback string) {
	kind := apperr.KindOf(err)
	status := statusOf(kind)
	if status == http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed",
			"route", c.FullPath(),
			"request_id", c.GetString(utils.ContextRequestID),
			"error", err,
		)
	}
	c.JSON(status, gin.H{"error": apperr.MessageOf(err, fallback)})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, msgInvalidID)
		return 0, false
	}
	return uint(id), true
}

// currentCookID returns the session cook. The route must be behind CookMiddleware.
func currentCookID(c *gin.Context) (uint, bool) {
	id, ok := utils.CurrentCook(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token não fornecido"})
		return 0, false
	}
	return id.CookID, true
}

func loggerOr(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
