// Package report выгружает передачи смен в Excel.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	OfferedSheet = "Offered"
	CreatedSheet = "Created"
)

var header = []any{"ID", "Status", "Created by", "Start", "End", "Value", "Location", "Candidates", "Final user"}

// WriteShiftPasses пишет книгу с двумя листами: передачи, предложенные
// сотруднику, и созданные им.
func WriteShiftPasses(w io.Writer, offered, created []*models.ShiftPass) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OfferedSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CreatedSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	if err := fillSheet(f, OfferedSheet, offered); err != nil {
		return err
	}
	if err := fillSheet(f, CreatedSheet, created); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, passes []*models.ShiftPass) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for i, p := range passes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := passRow(p)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func passRow(p *models.ShiftPass) []any {
	status := "accepted"
	if p.Active {
		status = "active"
	}

	candidates := make([]string, 0, len(p.OfferedUsers))
	for _, u := range p.OfferedUsers {
		candidates = append(candidates, u.Email)
	}

	final := ""
	if p.FinalUser != nil {
		final = p.FinalUser.Email
	}

	return []any{
		p.ID,
		status,
		p.CreatedBy.Email,
		p.StartTime.UTC().Format(time.RFC3339),
		p.EndTime.UTC().Format(time.RFC3339),
		p.Value,
		p.LocationName,
		strings.Join(candidates, ", "),
		final,
	}
}
