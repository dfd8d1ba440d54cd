// Package databasetest provides an in-memory store with the same contract
// as database.Store, including its uniqueness constraints, for tests.
package databasetest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/thyagolima23/cozinha-backend/database"
	"github.com/thyagolima23/cozinha-backend/model"
)

var errNoRows = errors.New("record not found")

type voteKey struct {
	dishID  uint
	voterID string
	day     model.Date
}

type Store struct {
	mu       sync.Mutex
	cooks    map[uint]model.Cook
	dishes   map[uint]model.Dish
	votes    []model.Vote
	voteKeys map[voteKey]struct{}
	nextCook uint
	nextDish uint
	nextVote uint
	failWith error
}

func NewStore() *Store {
	return &Store{
		cooks:    map[uint]model.Cook{},
		dishes:   map[uint]model.Dish{},
		voteKeys: map[voteKey]struct{}{},
	}
}

// FailWith makes every following call return err wrapped as an internal
// store error. Pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *Store) failure(op string) error {
	if s.failWith != nil {
		return database.NewError(database.KindInternal, op, s.failWith)
	}
	return nil
}

func (s *Store) CreateCook(_ context.Context, cook *model.Cook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("create cook"); err != nil {
		return err
	}

	for _, c := range s.cooks {
		if c.Email == cook.Email {
			return database.NewError(database.KindUniqueViolation, "create cook", errors.New("duplicate email"))
		}
	}
	s.nextCook++
	cook.ID = s.nextCook
	s.cooks[cook.ID] = *cook
	return nil
}

func (s *Store) FindCookByEmail(_ context.Context, email string) (*model.Cook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("find cook by email"); err != nil {
		return nil, err
	}

	for _, c := range s.cooks {
		if c.Email == email {
			found := c
			return &found, nil
		}
	}
	return nil, database.NewError(database.KindNotFound, "find cook by email", errNoRows)
}

func (s *Store) CreateDish(_ context.Context, dish *model.Dish) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("create dish"); err != nil {
		return err
	}
	s.insertDish(dish)
	return nil
}

func (s *Store) CreateDishes(_ context.Context, dishes []model.Dish) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("create dishes"); err != nil {
		return err
	}
	for i := range dishes {
		s.insertDish(&dishes[i])
	}
	return nil
}

func (s *Store) insertDish(dish *model.Dish) {
	s.nextDish++
	dish.ID = s.nextDish
	dish.Owner = nil
	s.dishes[dish.ID] = *dish
}

func (s *Store) ListDishes(_ context.Context) ([]model.Dish, error) {
	return s.filterDishes("list dishes", func(model.Dish) bool { return true })
}

func (s *Store) ListDishesByOwner(_ context.Context, ownerID uint) ([]model.Dish, error) {
	return s.filterDishes("list dishes by owner", func(d model.Dish) bool { return d.OwnerID == ownerID })
}

func (s *Store) SearchDishes(_ context.Context, filter database.DishFilter) ([]model.Dish, error) {
	needle := strings.ToLower(filter.MainContains)
	return s.filterDishes("search dishes", func(d model.Dish) bool {
		if filter.OwnerID != nil && d.OwnerID != *filter.OwnerID {
			return false
		}
		if filter.Day != nil && d.Day != *filter.Day {
			return false
		}
		return strings.Contains(strings.ToLower(d.Main), needle)
	})
}

func (s *Store) filterDishes(op string, keep func(model.Dish) bool) ([]model.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(op); err != nil {
		return nil, err
	}

	out := []model.Dish{}
	for _, d := range s.dishes {
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateOwnedDish(_ context.Context, id, ownerID uint, apply func(*model.Dish)) (*model.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("update dish"); err != nil {
		return nil, err
	}

	dish, ok := s.dishes[id]
	if !ok || dish.OwnerID != ownerID {
		return nil, database.NewError(database.KindNotFound, "update dish", errNoRows)
	}
	apply(&dish)
	dish.ID = id
	dish.OwnerID = ownerID
	s.dishes[id] = dish
	return &dish, nil
}

func (s *Store) DeleteOwnedDish(_ context.Context, id, ownerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("delete dish"); err != nil {
		return err
	}

	dish, ok := s.dishes[id]
	if !ok || dish.OwnerID != ownerID {
		return database.NewError(database.KindNotFound, "delete dish", errNoRows)
	}
	delete(s.dishes, id)
	return nil
}

func (s *Store) DishExists(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("check dish"); err != nil {
		return false, err
	}
	_, ok := s.dishes[id]
	return ok, nil
}

func (s *Store) CreateVote(_ context.Context, vote *model.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("create vote"); err != nil {
		return err
	}

	key := voteKey{dishID: vote.DishID, voterID: vote.VoterID, day: vote.CastOn}
	if _, dup := s.voteKeys[key]; dup {
		return database.NewError(database.KindUniqueViolation, "create vote", errors.New("duplicate vote"))
	}
	s.voteKeys[key] = struct{}{}
	s.nextVote++
	vote.ID = s.nextVote
	s.votes = append(s.votes, *vote)
	return nil
}

func (s *Store) DailyTally(_ context.Context, day model.Date) ([]model.DishTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("daily tally"); err != nil {
		return nil, err
	}

	tally := []model.DishTally{}
	for _, d := range s.dishes {
		if d.Day != day {
			continue
		}
		t := model.DishTally{DishID: d.ID, Main: d.Main}
		for _, v := range s.votes {
			if v.DishID != d.ID || v.CastOn != day {
				continue
			}
			if v.Approve {
				t.YesCount++
			} else {
				t.NoCount++
			}
		}
		tally = append(tally, t)
	}
	sort.Slice(tally, func(i, j int) bool { return tally[i].DishID < tally[j].DishID })
	return tally, nil
}

// Votes returns a copy of every stored vote.
func (s *Store) Votes() []model.Vote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Vote(nil), s.votes...)
}
