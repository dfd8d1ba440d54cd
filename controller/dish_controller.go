package controller

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thyagolima23/cozinha-backend/dish"
	"github.com/thyagolima23/cozinha-backend/model"
	"github.com/thyagolima23/cozinha-backend/utils"
)

const (
	maxImportSize = 5 << 20

	msgListFailed = "Erro ao buscar pratos"
)

type DishService interface {
	Create(ctx context.Context, ownerID uint, in dish.Input) (*model.Dish, error)
	ListAll(ctx context.Context) ([]model.Dish, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Dish, error)
	Search(ctx context.Context, in dish.SearchInput) ([]model.Dish, error)
	Update(ctx context.Context, dishID, ownerID uint, in dish.Input) (*model.Dish, error)
	Delete(ctx context.Context, dishID, ownerID uint) error
	Import(ctx context.Context, ownerID uint, r io.Reader) (*dish.ImportResult, error)
}

type DishController struct {
	dishes DishService
	log    *slog.Logger
}

func NewDishController(svc DishService, log *slog.Logger) *DishController {
	return &DishController{dishes: svc, log: loggerOr(log)}
}

func (dc *DishController) ListAll(c *gin.Context) {
	dishes, err := dc.dishes.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, dc.log, err, msgListFailed)
		return
	}
	c.JSON(http.StatusOK, dishes)
}

func (dc *DishController) ListByOwner(c *gin.Context) {
	ownerID, ok := parseID(c, "id_usuario")
	if !ok {
		return
	}

	dishes, err := dc.dishes.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, dc.log, err, msgListFailed)
		return
	}
	c.JSON(http.StatusOK, dishes)
}

// Search filters by id_usuario, data and nome. Without id_usuario, a signed-in
// cook sees only their own dishes.
func (dc *DishController) Search(c *gin.Context) {
	var in dish.SearchInput

	if raw := c.Query("id_usuario"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			badRequest(c, "id_usuario inválido")
			return
		}
		ownerID := uint(id)
		in.OwnerID = &ownerID
	} else if cook, ok := utils.CurrentCook(c); ok {
		in.OwnerID = &cook.CookID
	}

	if raw := c.Query("data"); raw != "" {
		day, err := model.ParseDate(raw)
		if err != nil {
			badRequest(c, "data inválida")
			return
		}
		in.Day = &day
	}
	in.Name = c.Query("nome")

	dishes, err := dc.dishes.Search(c.Request.Context(), in)
	if err != nil {
		respondError(c, dc.log, err, msgListFailed)
		return
	}
	c.JSON(http.StatusOK, dishes)
}

func (dc *DishController) Create(c *gin.Context) {
	ownerID, ok := currentCookID(c)
	if !ok {
		return
	}

	var req dish.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidFields)
		return
	}

	created, err := dc.dishes.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, dc.log, err, "Erro ao criar prato")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (dc *DishController) Update(c *gin.Context) {
	ownerID, ok := currentCookID(c)
	if !ok {
		return
	}
	dishID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dish.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidFields)
		return
	}

	updated, err := dc.dishes.Update(c.Request.Context(), dishID, ownerID, req)
	if err != nil {
		respondError(c, dc.log, err, "Erro ao atualizar prato")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (dc *DishController) Delete(c *gin.Context) {
	ownerID, ok := currentCookID(c)
	if !ok {
		return
	}
	dishID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := dc.dishes.Delete(c.Request.Context(), dishID, ownerID); err != nil {
		respondError(c, dc.log, err, "Erro ao excluir prato")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prato excluído com sucesso"})
}

func (dc *DishController) Import(c *gin.Context) {
	ownerID, ok := currentCookID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("arquivo")
	if err != nil {
		badRequest(c, "Arquivo Excel é obrigatório")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		badRequest(c, "Apenas arquivos .xlsx são aceitos")
		return
	}
	if fileHeader.Size > maxImportSize {
		badRequest(c, "Arquivo muito grande (máximo 5 MB)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, dc.log, err, "Erro ao ler arquivo")
		return
	}
	defer file.Close()

	result, err := dc.dishes.Import(c.Request.Context(), ownerID, file)
	if err != nil {
		respondError(c, dc.log, err, "Erro ao importar pratos")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Pratos importados com sucesso",
		"criados":          result.Created,
		"linhas_ignoradas": result.Skipped,
	})
}
