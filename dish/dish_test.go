package dish

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/thyagolima23/cozinha-backend/apperr"
	"github.com/thyagolima23/cozinha-backend/database/databasetest"
	"github.com/thyagolima23/cozinha-backend/model"
)

var monday = model.NewDate(2025, time.June, 2)

func validInput() Input {
	return Input{Day: monday, Shift: model.ShiftMorning, Main: "Feijoada", Dessert: "Pudim", Drink: "Suco"}
}

func newService(t *testing.T) (*Service, *databasetest.Store, uint, uint) {
	t.Helper()
	store := databasetest.NewStore()
	ctx := context.Background()
	ana := &model.Cook{Name: "Ana", Email: "ana@x.com", PasswordHash: "h"}
	bia := &model.Cook{Name: "Bia", Email: "bia@x.com", PasswordHash: "h"}
	require.NoError(t, store.CreateCook(ctx, ana))
	require.NoError(t, store.CreateCook(ctx, bia))
	return NewService(store), store, ana.ID, bia.ID
}

func TestCreate(t *testing.T) {
	svc, _, ana, _ := newService(t)
	ctx := context.Background()

	in := validInput()
	image := "  "
	in.Main = "  Feijoada  "
	in.Image = &image

	created, err := svc.Create(ctx, ana, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, ana, created.OwnerID)
	assert.Equal(t, "Feijoada", created.Main)
	assert.Nil(t, created.Image, "blank image is stored as null")

	listed, err := svc.ListByOwner(ctx, ana)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, *created, listed[0])
}

func TestCreateValidation(t *testing.T) {
	svc, store, ana, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Input)
		want   string
	}{
		{name: "missing day", mutate: func(in *Input) { in.Day = model.Date{} }, want: "dia"},
		{name: "missing main", mutate: func(in *Input) { in.Main = " " }, want: "principal"},
		{name: "missing drink", mutate: func(in *Input) { in.Drink = "" }, want: "bebida"},
		{name: "unknown shift", mutate: func(in *Input) { in.Shift = "Madrugada" }, want: "Campos inválidos: turno"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(ctx, ana, in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Contains(t, apperr.MessageOf(err, ""), tt.want)
		})
	}

	all, err := store.ListDishes(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListAndSearch(t *testing.T) {
	svc, _, ana, bia := newService(t)
	ctx := context.Background()

	mk := func(owner uint, day model.Date, main string) *model.Dish {
		in := validInput()
		in.Day = day
		in.Main = main
		d, err := svc.Create(ctx, owner, in)
		require.NoError(t, err)
		return d
	}
	feijoada := mk(ana, monday, "Feijoada")
	lasanha := mk(bia, monday, "Lasanha")
	sopa := mk(ana, monday.AddDays(1), "Sopa de feijão")

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{feijoada.ID, lasanha.ID, sopa.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})

	ids := func(dishes []model.Dish) []uint {
		out := []uint{}
		for _, d := range dishes {
			out = append(out, d.ID)
		}
		return out
	}
	tuesday := monday.AddDays(1)

	tests := []struct {
		name string
		in   SearchInput
		want []uint
	}{
		{name: "no filters", in: SearchInput{}, want: []uint{feijoada.ID, lasanha.ID, sopa.ID}},
		{name: "owner", in: SearchInput{OwnerID: &ana}, want: []uint{feijoada.ID, sopa.ID}},
		{name: "day", in: SearchInput{Day: &tuesday}, want: []uint{sopa.ID}},
		{name: "name is a case-insensitive substring", in: SearchInput{Name: " FEIJ "}, want: []uint{feijoada.ID, sopa.ID}},
		{name: "day and name", in: SearchInput{Day: &tuesday, Name: "feij"}, want: []uint{sopa.ID}},
		{name: "owner and name", in: SearchInput{OwnerID: &bia, Name: "sopa"}, want: []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestUpdate(t *testing.T) {
	svc, _, ana, bia := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, ana, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Main = "Feijoada completa"
	in.Shift = model.ShiftNight

	_, err = svc.Update(ctx, created.ID, bia, in)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Update(ctx, 999, ana, in)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	updated, err := svc.Update(ctx, created.ID, ana, in)
	require.NoError(t, err)
	assert.Equal(t, "Feijoada completa", updated.Main)
	assert.Equal(t, model.ShiftNight, updated.Shift)
	assert.Equal(t, ana, updated.OwnerID)

	in.Dessert = ""
	_, err = svc.Update(ctx, created.ID, ana, in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDelete(t *testing.T) {
	svc, store, ana, bia := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, ana, validInput())
	require.NoError(t, err)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(ctx, created.ID, bia)))
	require.NoError(t, svc.Delete(ctx, created.ID, ana))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(ctx, created.ID, ana)))

	store.FailWith(errors.New("disk full"))
	err = svc.Delete(ctx, created.ID, ana)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, "Erro ao excluir prato", apperr.MessageOf(err, ""))
}

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	xl := excelize.NewFile()
	defer xl.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, xl.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := xl.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImport(t *testing.T) {
	svc, _, ana, _ := newService(t)
	ctx := context.Background()

	buf := workbook(t, [][]interface{}{
		{"dia", "turno", "principal", "sobremesa", "bebida", "imagem"},
		{"2025-06-02", "Manhã", "Feijoada", "Pudim", "Suco", "https://img.example/f.jpg"},
		{"03/06/2025", "Tarde", "Estrogonofe", "Gelatina", "Chá"},
		{time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC), "Noturno", "Sopa", "Fruta", "Água"},
		{"2025-06-05", "Madrugada", "Pizza", "Sorvete", "Refri"},
		{"ontem", "Manhã", "Arroz", "Doce", "Suco"},
		{},
		{"2025-06-06", "Tarde", "Peixe", "", "Suco"},
	})

	result, err := svc.Import(ctx, ana, buf)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, []int{5, 6, 8}, result.Skipped)

	dishes, err := svc.ListByOwner(ctx, ana)
	require.NoError(t, err)
	require.Len(t, dishes, 3)
	assert.Equal(t, monday, dishes[0].Day)
	require.NotNil(t, dishes[0].Image)
	assert.Equal(t, "https://img.example/f.jpg", *dishes[0].Image)
	assert.Equal(t, monday.AddDays(1), dishes[1].Day)
	assert.Nil(t, dishes[1].Image)
	assert.Equal(t, monday.AddDays(2), dishes[2].Day)
	assert.Equal(t, model.ShiftNight, dishes[2].Shift)
}

func TestImportRejects(t *testing.T) {
	svc, store, ana, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, ana, bytes.NewBufferString("not a workbook"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Import(ctx, ana, workbook(t, [][]interface{}{{"dia", "turno", "principal", "sobremesa", "bebida"}}))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Import(ctx, ana, workbook(t, [][]interface{}{
		{"dia", "turno", "principal", "sobremesa", "bebida"},
		{"", "Manhã", "Feijoada", "Pudim", "Suco"},
	}))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	store.FailWith(errors.New("tx aborted"))
	_, err = svc.Import(ctx, ana, workbook(t, [][]interface{}{
		{"dia", "turno", "principal", "sobremesa", "bebida"},
		{"2025-06-02", "Manhã", "Feijoada", "Pudim", "Suco"},
	}))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
