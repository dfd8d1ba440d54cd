// Package voting records anonymous daily votes on dishes and aggregates them.
//
// A voter may vote once per dish per calendar day. The day is taken in the
// service's time zone and enforced by a unique index in the store, so
// concurrent duplicates resolve to exactly one accepted vote without any
// locking in this process.
package voting

import (
	"context"
	"strings"
	"time"

	"github.com/thyagolima23/cozinha-backend/apperr"
	"github.com/thyagolima23/cozinha-backend/database"
	"github.com/thyagolima23/cozinha-backend/metrics"
	"github.com/thyagolima23/cozinha-backend/model"
)

const (
	msgInvalidFields = "Campos inválidos"
	msgDishNotFound  = "Prato não encontrado"
	msgDuplicateVote = "Você já votou neste prato hoje"
	msgVoteFailed    = "Erro ao registrar voto"
	msgTallyFailed   = "Erro ao buscar resultados"
)

type Store interface {
	DishExists(ctx context.Context, id uint) (bool, error)
	CreateVote(ctx context.Context, vote *model.Vote) error
	DailyTally(ctx context.Context, day model.Date) ([]model.DishTally, error)
}

type VoteInput struct {
	DishID  uint
	Approve bool
	// VoterID identifies the voter by network origin, never by session.
	VoterID string
}

type Service struct {
	store    Store
	now      func() time.Time
	location *time.Location
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the time zone that decides which calendar day a vote belongs to.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now, location: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current calendar day in the service time zone.
func (s *Service) Today() model.Date {
	return model.DateOf(s.now().In(s.location))
}

// CastVote records one vote for today. A second vote by the same voter on the
// same dish and day fails with KindDuplicateVote; the store's unique index
// decides that. Unknown dishes fail with KindNotFound, but the existence check
// is not atomic with the insert: a dish deleted between the two still gets the
// vote, which then never shows up in a tally.
func (s *Service) CastVote(ctx context.Context, in VoteInput) (*model.Vote, error) {
	in.VoterID = strings.TrimSpace(in.VoterID)
	if in.DishID == 0 || in.VoterID == "" {
		metrics.VotesTotal.WithLabelValues(metrics.VoteRejected).Inc()
		return nil, apperr.New(apperr.KindValidation, msgInvalidFields)
	}

	exists, err := s.store.DishExists(ctx, in.DishID)
	if err != nil {
		metrics.VotesTotal.WithLabelValues(metrics.VoteFailed).Inc()
		return nil, apperr.Wrap(apperr.KindInternal, msgVoteFailed, err)
	}
	if !exists {
		metrics.VotesTotal.WithLabelValues(metrics.VoteRejected).Inc()
		return nil, apperr.New(apperr.KindNotFound, msgDishNotFound)
	}

	now := s.now().In(s.location)
	vote := &model.Vote{
		DishID:  in.DishID,
		Approve: in.Approve,
		CastAt:  now,
		VoterID: in.VoterID,
		CastOn:  model.DateOf(now),
	}
	if err := s.store.CreateVote(ctx, vote); err != nil {
		switch database.KindOf(err) {
		case database.KindUniqueViolation:
			metrics.VotesTotal.WithLabelValues(metrics.VoteDuplicate).Inc()
			return nil, apperr.Wrap(apperr.KindDuplicateVote, msgDuplicateVote, err)
		default:
			metrics.VotesTotal.WithLabelValues(metrics.VoteFailed).Inc()
			return nil, apperr.Wrap(apperr.KindInternal, msgVoteFailed, err)
		}
	}

	metrics.VotesTotal.WithLabelValues(metrics.VoteAccepted).Inc()
	return vote, nil
}

// DailyTally counts today's yes and no votes for each of today's dishes,
// ordered by dish ID. Dishes without votes are reported with zero counts.
func (s *Service) DailyTally(ctx context.Context) ([]model.DishTally, error) {
	tally, err := s.store.DailyTally(ctx, s.Today())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgTallyFailed, err)
	}
	if tally == nil {
		tally = []model.DishTally{}
	}
	return tally, nil
}
