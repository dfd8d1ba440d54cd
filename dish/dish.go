package dish

import (
	"context"
	"strings"

	"github.com/thyagolima23/cozinha-backend/apperr"
	"github.com/thyagolima23/cozinha-backend/database"
	"github.com/thyagolima23/cozinha-backend/model"
	"github.com/thyagolima23/cozinha-backend/validation"
)

const (
	msgMissingFields = "Campos obrigatórios faltando"
	msgNotFound      = "Prato não encontrado ou sem permissão"
	msgCreateFailed  = "Erro ao criar prato"
	msgListFailed    = "Erro ao buscar pratos"
	msgUpdateFailed  = "Erro ao atualizar prato"
	msgDeleteFailed  = "Erro ao excluir prato"
)

type Store interface {
	CreateDish(ctx context.Context, dish *model.Dish) error
	CreateDishes(ctx context.Context, dishes []model.Dish) error
	ListDishes(ctx context.Context) ([]model.Dish, error)
	ListDishesByOwner(ctx context.Context, ownerID uint) ([]model.Dish, error)
	SearchDishes(ctx context.Context, filter database.DishFilter) ([]model.Dish, error)
	UpdateOwnedDish(ctx context.Context, id, ownerID uint, apply func(*model.Dish)) (*model.Dish, error)
	DeleteOwnedDish(ctx context.Context, id, ownerID uint) error
}

// Input holds every field a cook can set on a dish.
type Input struct {
	Day     model.Date  `json:"dia" validate:"required"`
	Shift   model.Shift `json:"turno" validate:"required,oneof=Manhã Tarde Noturno"`
	Main    string      `json:"principal" validate:"required"`
	Dessert string      `json:"sobremesa" validate:"required"`
	Drink   string      `json:"bebida" validate:"required"`
	Image   *string     `json:"imagem"`
}

func (in Input) normalize() Input {
	in.Shift = model.Shift(strings.TrimSpace(string(in.Shift)))
	in.Main = strings.TrimSpace(in.Main)
	in.Dessert = strings.TrimSpace(in.Dessert)
	in.Drink = strings.TrimSpace(in.Drink)
	if in.Image != nil {
		image := strings.TrimSpace(*in.Image)
		if image == "" {
			in.Image = nil
		} else {
			in.Image = &image
		}
	}
	return in
}

func (in Input) apply(d *model.Dish) {
	d.Day = in.Day
	d.Shift = in.Shift
	d.Main = in.Main
	d.Dessert = in.Dessert
	d.Drink = in.Drink
	d.Image = in.Image
}

// SearchInput filters are combined with AND; unset filters match everything.
type SearchInput struct {
	OwnerID *uint
	Day     *model.Date
	Name    string
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, ownerID uint, in Input) (*model.Dish, error) {
	in = in.normalize()
	if err := validation.Struct(in, msgMissingFields); err != nil {
		return nil, err
	}

	dish := &model.Dish{OwnerID: ownerID}
	in.apply(dish)
	if err := s.store.CreateDish(ctx, dish); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgCreateFailed, err)
	}
	return dish, nil
}

func (s *Service) ListAll(ctx context.Context) ([]model.Dish, error) {
	dishes, err := s.store.ListDishes(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgListFailed, err)
	}
	return dishes, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uint) ([]model.Dish, error) {
	dishes, err := s.store.ListDishesByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgListFailed, err)
	}
	return dishes, nil
}

func (s *Service) Search(ctx context.Context, in SearchInput) ([]model.Dish, error) {
	filter := database.DishFilter{
		OwnerID:      in.OwnerID,
		Day:          in.Day,
		MainContains: strings.TrimSpace(in.Name),
	}
	dishes, err := s.store.SearchDishes(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgListFailed, err)
	}
	return dishes, nil
}

// Update overwrites every mutable field of a dish the cook owns. A dish that
// does not exist and a dish owned by someone else are reported alike.
func (s *Service) Update(ctx context.Context, dishID, ownerID uint, in Input) (*model.Dish, error) {
	in = in.normalize()
	if err := validation.Struct(in, msgMissingFields); err != nil {
		return nil, err
	}

	dish, err := s.store.UpdateOwnedDish(ctx, dishID, ownerID, in.apply)
	if err != nil {
		if database.KindOf(err) == database.KindNotFound {
			return nil, apperr.Wrap(apperr.KindNotFound, msgNotFound, err)
		}
		return nil, apperr.Wrap(apperr.KindInternal, msgUpdateFailed, err)
	}
	return dish, nil
}

// Delete removes a dish the cook owns. Votes already cast on it are kept.
func (s *Service) Delete(ctx context.Context, dishID, ownerID uint) error {
	if err := s.store.DeleteOwnedDish(ctx, dishID, ownerID); err != nil {
		if database.KindOf(err) == database.KindNotFound {
			return apperr.Wrap(apperr.KindNotFound, msgNotFound, err)
		}
		return apperr.Wrap(apperr.KindInternal, msgDeleteFailed, err)
	}
	return nil
}
