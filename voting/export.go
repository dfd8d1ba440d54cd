package voting

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/thyagolima23/cozinha-backend/apperr"
)

const (
	TallySheet = "Votacao"

	msgExportFailed = "Erro ao exportar resultados"
)

var tallyHeader = []interface{}{"id_prato", "principal", "votos_sim", "votos_nao"}

// ExportDailyTally writes today's tally to w as an xlsx workbook with a
// header row followed by one row per dish.
func (s *Service) ExportDailyTally(ctx context.Context, w io.Writer) error {
	tally, err := s.DailyTally(ctx)
	if err != nil {
		return err
	}

	xl := excelize.NewFile()
	defer xl.Close()

	if err := xl.SetSheetName("Sheet1", TallySheet); err != nil {
		return apperr.Wrap(apperr.KindInternal, msgExportFailed, err)
	}
	if err := xl.SetSheetRow(TallySheet, "A1", &tallyHeader); err != nil {
		return apperr.Wrap(apperr.KindInternal, msgExportFailed, err)
	}

	for i, t := range tally {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, msgExportFailed, err)
		}
		row := []interface{}{t.DishID, t.Main, t.YesCount, t.NoCount}
		if err := xl.SetSheetRow(TallySheet, cell, &row); err != nil {
			return apperr.Wrap(apperr.KindInternal, msgExportFailed, err)
		}
	}

	if _, err := xl.WriteTo(w); err != nil {
		return apperr.Wrap(apperr.KindInternal, msgExportFailed, err)
	}
	return nil
}
