package dish

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/thyagolima23/cozinha-backend/apperr"
	"github.com/thyagolima23/cozinha-backend/model"
	"github.com/thyagolima23/cozinha-backend/validation"
)

const (
	MaxImportRows = 5000

	msgBadWorkbook  = "Arquivo Excel inválido"
	msgEmptySheet   = "A planilha deve ter pelo menos uma linha de dados"
	msgTooManyRows  = "A planilha tem linhas demais"
	msgNoValidRows  = "Nenhuma linha válida na planilha"
	msgImportFailed = "Erro ao importar pratos"
)

// ImportResult reports how many dishes were created and which sheet rows
// (1-based, header is row 1) were skipped as invalid.
type ImportResult struct {
	Created int
	Skipped []int
}

// Import reads dishes from the first sheet of an xlsx workbook. Columns are
// dia, turno, principal, sobremesa, bebida and an optional imagem; the first
// row is a header. Invalid rows are skipped and reported, and the valid ones
// are inserted together or not at all.
func (s *Service) Import(ctx context.Context, ownerID uint, r io.Reader) (*ImportResult, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, msgBadWorkbook, err)
	}
	defer xl.Close()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.New(apperr.KindValidation, msgEmptySheet)
	}
	rows, err := xl.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, msgBadWorkbook, err)
	}
	if len(rows) < 2 {
		return nil, apperr.New(apperr.KindValidation, msgEmptySheet)
	}
	if len(rows)-1 > MaxImportRows {
		return nil, apperr.New(apperr.KindValidation, fmt.Sprintf("%s (máximo %d)", msgTooManyRows, MaxImportRows))
	}

	result := &ImportResult{Skipped: []int{}}
	var dishes []model.Dish
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		in, err := parseRow(row)
		if err == nil {
			in = in.normalize()
			err = validation.Struct(in, msgMissingFields)
		}
		if err != nil {
			result.Skipped = append(result.Skipped, i+2)
			continue
		}

		dish := model.Dish{OwnerID: ownerID}
		in.apply(&dish)
		dishes = append(dishes, dish)
	}

	if len(dishes) == 0 {
		return nil, apperr.New(apperr.KindValidation, msgNoValidRows)
	}
	if err := s.store.CreateDishes(ctx, dishes); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgImportFailed, err)
	}

	result.Created = len(dishes)
	return result, nil
}

func parseRow(row []string) (Input, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	day, err := parseSheetDate(cell(0))
	if err != nil {
		return Input{}, err
	}

	in := Input{
		Day:     day,
		Shift:   model.Shift(cell(1)),
		Main:    cell(2),
		Dessert: cell(3),
		Drink:   cell(4),
	}
	if image := cell(5); image != "" {
		in.Image = &image
	}
	return in, nil
}

// parseSheetDate accepts ISO dates, dd/mm/yyyy and Excel date serials.
func parseSheetDate(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, nil
	}
	if d, err := model.ParseDate(s); err == nil {
		return d, nil
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return model.DateOf(t), nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return model.Date{}, err
		}
		return model.DateOf(t), nil
	}
	return model.Date{}, fmt.Errorf("invalid date %q", s)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
