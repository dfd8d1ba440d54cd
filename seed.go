package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thyagolima23/cozinha-backend/auth"
	"github.com/thyagolima23/cozinha-backend/database"
	"github.com/thyagolima23/cozinha-backend/dish"
	"github.com/thyagolima23/cozinha-backend/model"
)

const (
	seedCookName     = "Maria da Cozinha"
	seedCookEmail    = "maria@example.com"
	seedCookPassword = "senha123"
	seedImage        = "https://www.gastronomia.com.br/wp-content/uploads/2024/01/comida-com-f-feijoada-falafel-fondue-e-muito-mais.jpg"
)

var seedMenu = []struct{ main, dessert, drink string }{
	{"Lasanha de Carne", "Pudim", "Suco de Laranja"},
	{"Feijoada", "Mousse de Maracujá", "Refrigerante"},
	{"Estrogonofe", "Gelatina", "Água"},
	{"Macarrão ao molho branco", "Sorvete", "Suco de Uva"},
	{"Arroz carreteiro", "Doce de leite", "Coca-Cola"},
	{"Frango grelhado", "Bolo de chocolate", "Chá gelado"},
	{"Escondidinho de carne seca", "Torta de limão", "Suco de manga"},
}

// weekMonday is the Monday of day's week; on a Sunday it is the next day.
func weekMonday(day model.Date) model.Date {
	if day.Weekday() == time.Sunday {
		return day.AddDays(1)
	}
	return day.AddDays(int(time.Monday - day.Weekday()))
}

type seeder struct {
	cooks  auth.CookStore
	auth   *auth.Service
	dishes *dish.Service
	log    *slog.Logger
}

// run creates the demo cook and a week of dishes starting on the Monday of
// today's week. It does nothing when the demo cook already exists.
func (s *seeder) run(ctx context.Context, today model.Date) error {
	_, err := s.cooks.FindCookByEmail(ctx, seedCookEmail)
	switch {
	case err == nil:
		s.log.InfoContext(ctx, "seed data already present", "email", seedCookEmail)
		return nil
	case database.KindOf(err) != database.KindNotFound:
		return fmt.Errorf("failed to look up seed cook: %w", err)
	}

	cookID, err := s.auth.Signup(ctx, auth.SignupInput{Name: seedCookName, Email: seedCookEmail, Password: seedCookPassword})
	if err != nil {
		return fmt.Errorf("failed to create seed cook: %w", err)
	}

	monday := weekMonday(today)
	image := seedImage
	for i, item := range seedMenu {
		_, err := s.dishes.Create(ctx, cookID, dish.Input{
			Day:     monday.AddDays(i),
			Shift:   model.Shifts[i%len(model.Shifts)],
			Main:    item.main,
			Dessert: item.dessert,
			Drink:   item.drink,
			Image:   &image,
		})
		if err != nil {
			return fmt.Errorf("failed to create seed dish %q: %w", item.main, err)
		}
	}

	s.log.InfoContext(ctx, "seed data inserted", "cook_id", cookID, "dishes", len(seedMenu), "from", monday.String())
	return nil
}
