package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thyagolima23/cozinha-backend/model"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("cozinha"),
		postgres.WithUsername("cozinha"),
		postgres.WithPassword("cozinha"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgContainer)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(ctx, Config{DSN: dsn, LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestStore(t *testing.T) {
	db := setupPostgres(t)
	store := NewStore(db)
	ctx := context.Background()

	today := model.NewDate(2025, time.June, 2)
	tomorrow := today.AddDays(1)

	ana := &model.Cook{Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"}
	bia := &model.Cook{Name: "Bia", Email: "bia@x.com", PasswordHash: "hash"}
	require.NoError(t, store.CreateCook(ctx, ana))
	require.NoError(t, store.CreateCook(ctx, bia))

	t.Run("duplicate email is a unique violation", func(t *testing.T) {
		err := store.CreateCook(ctx, &model.Cook{Name: "Ana 2", Email: "ana@x.com", PasswordHash: "h"})
		require.Error(t, err)
		assert.Equal(t, KindUniqueViolation, KindOf(err))
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := store.FindCookByEmail(ctx, "nobody@x.com")
		assert.Equal(t, KindNotFound, KindOf(err))

		found, err := store.FindCookByEmail(ctx, "bia@x.com")
		require.NoError(t, err)
		assert.Equal(t, bia.ID, found.ID)
	})

	image := "https://img.example/feijoada.jpg"
	feijoada := &model.Dish{Day: today, Shift: model.ShiftMorning, Main: "Feijoada", Dessert: "Pudim", Drink: "Suco", Image: &image, OwnerID: ana.ID}
	lasanha := &model.Dish{Day: today, Shift: model.ShiftNight, Main: "Lasanha 100%", Dessert: "Mousse", Drink: "Água", OwnerID: bia.ID}
	require.NoError(t, store.CreateDish(ctx, feijoada))
	require.NoError(t, store.CreateDish(ctx, lasanha))
	require.NoError(t, store.CreateDishes(ctx, []model.Dish{
		{Day: tomorrow, Shift: model.ShiftAfternoon, Main: "Estrogonofe", Dessert: "Gelatina", Drink: "Chá", OwnerID: ana.ID},
	}))

	t.Run("round trip by owner", func(t *testing.T) {
		dishes, err := store.ListDishesByOwner(ctx, ana.ID)
		require.NoError(t, err)
		require.Len(t, dishes, 2)
		assert.Equal(t, *feijoada, dishes[0])
		assert.Equal(t, "Estrogonofe", dishes[1].Main)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		dishes, err := store.ListDishes(ctx)
		require.NoError(t, err)
		require.Len(t, dishes, 3)
		for i := 1; i < len(dishes); i++ {
			assert.Less(t, dishes[i-1].ID, dishes[i].ID)
		}
	})

	t.Run("search combines filters", func(t *testing.T) {
		dishes, err := store.SearchDishes(ctx, DishFilter{MainContains: "FEIJ"})
		require.NoError(t, err)
		require.Len(t, dishes, 1)
		assert.Equal(t, feijoada.ID, dishes[0].ID)

		dishes, err = store.SearchDishes(ctx, DishFilter{OwnerID: &ana.ID, Day: &tomorrow})
		require.NoError(t, err)
		require.Len(t, dishes, 1)
		assert.Equal(t, "Estrogonofe", dishes[0].Main)

		dishes, err = store.SearchDishes(ctx, DishFilter{MainContains: "%"})
		require.NoError(t, err)
		require.Len(t, dishes, 1, "wildcards in the name are matched literally")
		assert.Equal(t, lasanha.ID, dishes[0].ID)
	})

	t.Run("update checks ownership", func(t *testing.T) {
		_, err := store.UpdateOwnedDish(ctx, feijoada.ID, bia.ID, func(d *model.Dish) { d.Main = "Hacked" })
		assert.Equal(t, KindNotFound, KindOf(err))

		updated, err := store.UpdateOwnedDish(ctx, feijoada.ID, ana.ID, func(d *model.Dish) {
			d.Main = "Feijoada completa"
			d.OwnerID = bia.ID
		})
		require.NoError(t, err)
		assert.Equal(t, "Feijoada completa", updated.Main)
		assert.Equal(t, ana.ID, updated.OwnerID)
	})

	t.Run("one vote per voter per dish per day", func(t *testing.T) {
		castAt := today.Time().Add(12 * time.Hour)
		vote := func(voter string, approve bool, day model.Date) error {
			return store.CreateVote(ctx, &model.Vote{DishID: feijoada.ID, Approve: approve, CastAt: castAt, VoterID: voter, CastOn: day})
		}

		require.NoError(t, vote("10.0.0.1", true, today))
		require.NoError(t, vote("10.0.0.2", true, today))
		require.NoError(t, vote("10.0.0.3", true, today))
		require.NoError(t, vote("10.0.0.4", false, today))
		assert.Equal(t, KindUniqueViolation, KindOf(vote("10.0.0.1", false, today)))
		require.NoError(t, vote("10.0.0.1", false, tomorrow))
	})

	t.Run("concurrent duplicate votes admit exactly one", func(t *testing.T) {
		var wg sync.WaitGroup
		results := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- store.CreateVote(ctx, &model.Vote{DishID: lasanha.ID, Approve: true, CastAt: time.Now(), VoterID: "race", CastOn: today})
			}()
		}
		wg.Wait()
		close(results)

		var ok, dup int
		for err := range results {
			if err == nil {
				ok++
			} else if KindOf(err) == KindUniqueViolation {
				dup++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 7, dup)
	})

	t.Run("daily tally", func(t *testing.T) {
		tally, err := store.DailyTally(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, []model.DishTally{
			{DishID: feijoada.ID, Main: "Feijoada completa", YesCount: 3, NoCount: 1},
			{DishID: lasanha.ID, Main: "Lasanha 100%", YesCount: 1, NoCount: 0},
		}, tally)

		tally, err = store.DailyTally(ctx, tomorrow)
		require.NoError(t, err)
		require.Len(t, tally, 1)
		assert.Equal(t, 0, tally[0].YesCount)
		assert.Equal(t, 0, tally[0].NoCount, "votes on another dish do not leak into this one")
	})

	t.Run("delete checks ownership and leaves votes", func(t *testing.T) {
		assert.Equal(t, KindNotFound, KindOf(store.DeleteOwnedDish(ctx, feijoada.ID, bia.ID)))
		require.NoError(t, store.DeleteOwnedDish(ctx, feijoada.ID, ana.ID))
		assert.Equal(t, KindNotFound, KindOf(store.DeleteOwnedDish(ctx, feijoada.ID, ana.ID)))

		exists, err := store.DishExists(ctx, feijoada.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		var orphans int64
		require.NoError(t, db.Model(&model.Vote{}).Where("id_prato = ?", feijoada.ID).Count(&orphans).Error)
		assert.Equal(t, int64(5), orphans)
	})
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]logger.LogLevel{
		"silent": logger.Silent,
		"error":  logger.Error,
		"warn":   logger.Warn,
		"":       logger.Warn,
		"info":   logger.Info,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}
