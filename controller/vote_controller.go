package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thyagolima23/cozinha-backend/model"
	"github.com/thyagolima23/cozinha-backend/voting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type VotingService interface {
	CastVote(ctx context.Context, in voting.VoteInput) (*model.Vote, error)
	DailyTally(ctx context.Context) ([]model.DishTally, error)
	ExportDailyTally(ctx context.Context, w io.Writer) error
	Today() model.Date
}

type VoteController struct {
	voting VotingService
	log    *slog.Logger
}

func NewVoteController(svc VotingService, log *slog.Logger) *VoteController {
	return &VoteController{voting: svc, log: loggerOr(log)}
}

// voteRequest uses pointers so a missing field can be told apart from a zero value.
type voteRequest struct {
	DishID  *int64  `json:"id_prato" binding:"required,gt=0"`
	Approve *bool   `json:"voto" binding:"required"`
	VoterID *string `json:"ip_usuario"`
}

func (vc *VoteController) CastVote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidFields)
		return
	}

	// The voter is identified by network origin, never by session.
	voter := c.ClientIP()
	if req.VoterID != nil && strings.TrimSpace(*req.VoterID) != "" {
		voter = *req.VoterID
	}

	vote, err := vc.voting.CastVote(c.Request.Context(), voting.VoteInput{
		DishID:  uint(*req.DishID),
		Approve: *req.Approve,
		VoterID: voter,
	})
	if err != nil {
		respondError(c, vc.log, err, "Erro ao registrar voto")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Voto registrado com sucesso",
		"voto":    vote,
	})
}

func (vc *VoteController) DailyTally(c *gin.Context) {
	tally, err := vc.voting.DailyTally(c.Request.Context())
	if err != nil {
		respondError(c, vc.log, err, "Erro ao buscar resultados")
		return
	}
	c.JSON(http.StatusOK, tally)
}

func (vc *VoteController) ExportDailyTally(c *gin.Context) {
	var buf bytes.Buffer
	if err := vc.voting.ExportDailyTally(c.Request.Context(), &buf); err != nil {
		respondError(c, vc.log, err, "Erro ao exportar resultados")
		return
	}

	filename := fmt.Sprintf("votacao-%s.xlsx", vc.voting.Today())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
