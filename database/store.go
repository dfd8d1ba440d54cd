package database

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/thyagolima23/cozinha-backend/model"
)

// Store is the gorm-backed data store for cooks, dishes and votes.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DishFilter narrows a dish search. Nil or empty fields are not applied.
type DishFilter struct {
	OwnerID      *uint
	Day          *model.Date
	MainContains string
}

func (s *Store) CreateCook(ctx context.Context, cook *model.Cook) error {
	return classify("create cook", s.db.WithContext(ctx).Create(cook).Error)
}

func (s *Store) FindCookByEmail(ctx context.Context, email string) (*model.Cook, error) {
	var cook model.Cook
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&cook).Error; err != nil {
		return nil, classify("find cook by email", err)
	}
	return &cook, nil
}

func (s *Store) CreateDish(ctx context.Context, dish *model.Dish) error {
	return classify("create dish", s.db.WithContext(ctx).Omit("Owner").Create(dish).Error)
}

// CreateDishes inserts all dishes in one transaction.
func (s *Store) CreateDishes(ctx context.Context, dishes []model.Dish) error {
	if len(dishes) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Owner").Create(&dishes).Error
	})
	return classify("create dishes", err)
}

func (s *Store) ListDishes(ctx context.Context) ([]model.Dish, error) {
	dishes := []model.Dish{}
	if err := s.db.WithContext(ctx).Order("id_prato ASC").Find(&dishes).Error; err != nil {
		return nil, classify("list dishes", err)
	}
	return dishes, nil
}

func (s *Store) ListDishesByOwner(ctx context.Context, ownerID uint) ([]model.Dish, error) {
	dishes := []model.Dish{}
	err := s.db.WithContext(ctx).
		Where("id_usuario = ?", ownerID).
		Order("id_prato ASC").
		Find(&dishes).Error
	if err != nil {
		return nil, classify("list dishes by owner", err)
	}
	return dishes, nil
}

func (s *Store) SearchDishes(ctx context.Context, filter DishFilter) ([]model.Dish, error) {
	query := s.db.WithContext(ctx).Model(&model.Dish{})
	if filter.OwnerID != nil {
		query = query.Where("id_usuario = ?", *filter.OwnerID)
	}
	if filter.Day != nil {
		query = query.Where("dia = ?", *filter.Day)
	}
	if filter.MainContains != "" {
		query = query.Where(`principal ILIKE ? ESCAPE '\'`, "%"+escapeLike(filter.MainContains)+"%")
	}

	dishes := []model.Dish{}
	if err := query.Order("id_prato ASC").Find(&dishes).Error; err != nil {
		return nil, classify("search dishes", err)
	}
	return dishes, nil
}

// UpdateOwnedDish loads the dish only if ownerID owns it, lets apply rewrite
// its mutable fields and saves it, all in one transaction.
func (s *Store) UpdateOwnedDish(ctx context.Context, id, ownerID uint, apply func(*model.Dish)) (*model.Dish, error) {
	var dish model.Dish
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_prato = ? AND id_usuario = ?", id, ownerID).First(&dish).Error; err != nil {
			return err
		}

		apply(&dish)
		dish.ID = id
		dish.OwnerID = ownerID

		return tx.Omit("Owner").Save(&dish).Error
	})
	if err != nil {
		return nil, classify("update dish", err)
	}
	return &dish, nil
}

// DeleteOwnedDish removes the dish only if ownerID owns it.
func (s *Store) DeleteOwnedDish(ctx context.Context, id, ownerID uint) error {
	result := s.db.WithContext(ctx).
		Where("id_prato = ? AND id_usuario = ?", id, ownerID).
		Delete(&model.Dish{})
	if result.Error != nil {
		return classify("delete dish", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewError(KindNotFound, "delete dish", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *Store) DishExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Dish{}).Where("id_prato = ?", id).Count(&count).Error
	if err != nil {
		return false, classify("check dish", err)
	}
	return count > 0, nil
}

func (s *Store) CreateVote(ctx context.Context, vote *model.Vote) error {
	return classify("create vote", s.db.WithContext(ctx).Create(vote).Error)
}

type tallyRow struct {
	DishID   uint
	Main     string
	YesCount int64
	NoCount  int64
}

const dailyTallyQuery = `
	SELECT
		p.id_prato AS dish_id,
		p.principal AS main,
		COUNT(CASE WHEN v.voto = TRUE THEN 1 END) AS yes_count,
		COUNT(CASE WHEN v.voto = FALSE THEN 1 END) AS no_count
	FROM prato_tb p
	LEFT JOIN votacao_tb v
		ON p.id_prato = v.id_prato
		AND v.dia_voto = ?
	WHERE p.dia = ?
	GROUP BY p.id_prato, p.principal
	ORDER BY p.id_prato
`

// DailyTally counts yes/no votes cast on day for every dish scheduled on day.
func (s *Store) DailyTally(ctx context.Context, day model.Date) ([]model.DishTally, error) {
	var rows []tallyRow
	if err := s.db.WithContext(ctx).Raw(dailyTallyQuery, day, day).Scan(&rows).Error; err != nil {
		return nil, classify("daily tally", err)
	}

	tally := make([]model.DishTally, 0, len(rows))
	for _, r := range rows {
		tally = append(tally, model.DishTally{
			DishID:   r.DishID,
			Main:     r.Main,
			YesCount: int(r.YesCount),
			NoCount:  int(r.NoCount),
		})
	}
	return tally, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
