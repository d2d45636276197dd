package services

import (
	"bytes"
	"fmt"
	"strings"

	"lexcase_app_go/models"

	"github.com/xuri/excelize/v2"
)

const caseRegisterSheet = "Cases"

// caseRegisterHeaders is the column layout of the exported register.
var caseRegisterHeaders = []string{
	"Reference",    // A
	"Type",         // B
	"Court",        // C
	"Formation",    // D
	"Client",       // E
	"Opposing",     // F
	"Status",       // G
	"Initiated",    // H
	"Next hearing", // I
	"Archive no.",  // J
	"Notes",        // K
}

// ExportCaseRegister renders a firm's cases into an xlsx workbook. Rows
// come out in the order the slice is given; callers sort beforehand.
func ExportCaseRegister(firmName string, cases []models.CaseRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", caseRegisterSheet)

	f.SetCellValue(caseRegisterSheet, "A1", firmName)
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(caseRegisterSheet, "A1", "A1", titleStyle)

	for i, header := range caseRegisterHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(caseRegisterSheet, cell, header)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(caseRegisterSheet, "A3", "K3", headerStyle)
	f.SetColWidth(caseRegisterSheet, "A", "K", 18)

	for i, c := range cases {
		row := i + 4
		values := []interface{}{
			c.Reference(),
			c.Type,
			c.Court,
			c.Formation,
			c.ClientName,
			c.OpposingParty,
			exportStatusLabel(c),
			c.InitiationDate,
			c.NextHearingDate,
			c.ArchiveNumber,
			c.Notes,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(caseRegisterSheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// exportStatusLabel renders archived cases with their archive number the
// way the register is kept on paper.
func exportStatusLabel(c models.CaseRecord) string {
	label := capitalize(c.Status)
	if c.IsArchived() && c.ArchiveNumber != "" {
		return fmt.Sprintf("%s (%s)", label, c.ArchiveNumber)
	}
	return label
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
