package measurement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/measurement"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/safeconv"
)

// XLSXContentType is the media type of the generated workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaxImportRows bounds the data rows accepted in one import.
const MaxImportRows = 1000

// importColumns is the column order of the import sheet.
var importColumns = []string{
	measurement.ColumnAthleteID,
	measurement.FieldRegistrationDate,
	measurement.FieldWeight,
	measurement.FieldHeight,
	measurement.FieldSittingHeight,
	measurement.FieldWingspan,
	measurement.ColumnNotes,
}

// File is a generated workbook.
type File struct {
	Content     []byte
	Name        string
	ContentType string
}

// ExportQuery narrows the exported measurements.
type ExportQuery struct {
	AthleteID *int64
	IsActive  *bool
}

// ImportCommand carries an uploaded workbook.
type ImportCommand struct {
	FileContent []byte
	FileName    string
}

// ImportResult summarises an import.
type ImportResult struct {
	SuccessCount int32         `json:"success_count"`
	FailedCount  int32         `json:"failed_count"`
	Errors       []ImportError `json:"errors"`
}

// ImportError is one rejected cell or row.
type ImportError struct {
	RowNumber int32  `json:"row_number"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
}

var headerStyle = &excelize.Style{
	Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
	Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	Alignment: &excelize.Alignment{Horizontal: "center"},
}

// Export writes the selected measurements to a workbook.
func (s *Service) Export(ctx context.Context, query ExportQuery) *shared.Result {
	criteria := shared.Fields{}
	if query.AthleteID != nil {
		criteria[measurement.ColumnAthleteID] = *query.AthleteID
	}
	if query.IsActive != nil {
		criteria[measurement.ColumnIsActive] = *query.IsActive
	}

	var (
		items []*measurement.Measurement
		err   error
	)
	if len(criteria) == 0 {
		items, err = s.repo.GetAll(ctx)
	} else {
		items, err = s.repo.GetByFilter(ctx, criteria)
	}
	if err != nil {
		return common.StorageError(err, "Error al exportar las mediciones", table, 0)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Mediciones"
	index, _ := f.NewSheet(sheet)
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"No", "ID", "Atleta", "Fecha", "Peso (kg)", "Estatura (m)", "Altura sentado (m)", "Envergadura (m)",
		"IMC", "Índice córmico", "Notas", "Registrado por", "Rol", "Activo",
	}
	writeHeaders(f, sheet, headers)

	for i, m := range items {
		row := []any{
			i + 1, m.ID, m.AthleteID, m.RegistrationDate.Format(shared.DateLayout),
			m.Weight.InexactFloat64(), m.Height.InexactFloat64(), m.SittingHeight.InexactFloat64(), m.Wingspan.InexactFloat64(),
			m.BMI.InexactFloat64(), m.CormicIndex.InexactFloat64(), m.Notes, m.RecordedBy, m.RecordedByRole, m.IsActive,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(sheet, cell, &row)
	}

	_ = f.SetColWidth(sheet, "A", "C", 8)
	_ = f.SetColWidth(sheet, "D", "J", 14)
	_ = f.SetColWidth(sheet, "K", "K", 40)
	_ = f.SetColWidth(sheet, "L", "M", 25)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		log.Error().Err(err).Msg("Failed to write measurement export")
		return shared.Error("Error al generar el archivo de exportación")
	}
	return shared.Success(&File{Content: buffer.Bytes(), Name: "mediciones.xlsx", ContentType: XLSXContentType}, "")
}

// Template returns the import workbook with a sample row and instructions.
func (s *Service) Template() *shared.Result {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Plantilla"
	index, _ := f.NewSheet(sheet)
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	writeHeaders(f, sheet, importColumns)

	// Text format keeps dates as typed instead of serial numbers.
	textStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 49})
	_ = f.SetColStyle(sheet, "B", textStyle)

	sample := []any{1, s.clock.Now().Format(shared.DateLayout), 70.5, 1.8, 0.9, 1.85, "Control mensual"}
	_ = f.SetSheetRow(sheet, "A2", &sample)
	_ = f.SetColWidth(sheet, "A", "F", 16)
	_ = f.SetColWidth(sheet, "G", "G", 40)

	notes := "Instrucciones"
	_, _ = f.NewSheet(notes)
	lines := []string{
		"Instrucciones de importación",
		"",
		"1. athlete_id: ID de un atleta activo con inscripción habilitada (requerido)",
		"2. registration_date: fecha AAAA-MM-DD, vacía para hoy; no futura ni anterior a 10 años",
		"3. weight: peso en kg entre 20 y 200",
		"4. height: estatura en m entre 1.0 y 2.5",
		"5. sitting_height: altura sentado en m entre 0.5 y 1.5, no mayor que la estatura",
		"6. wingspan: envergadura en m entre 1.0 y 3.0, entre 0.9 y 1.4 veces la estatura",
		"7. notes: observaciones (opcional)",
		"",
		"Elimine la fila de ejemplo antes de importar y guarde el archivo como .xlsx",
	}
	for i, line := range lines {
		_ = f.SetCellValue(notes, fmt.Sprintf("A%d", i+1), line)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		log.Error().Err(err).Msg("Failed to write measurement template")
		return shared.Error("Error al generar la plantilla")
	}
	return shared.Success(&File{Content: buffer.Bytes(), Name: "plantilla_mediciones.xlsx", ContentType: XLSXContentType}, "")
}

// Import records every data row of the workbook through Create. Rejected rows
// are reported and do not stop the remaining ones.
func (s *Service) Import(ctx context.Context, cmd ImportCommand) *shared.Result {
	rows, err := readRows(cmd.FileContent, cmd.FileName)
	if err != nil {
		return shared.ValidationError("Archivo de importación inválido", err.Error())
	}

	result := &ImportResult{Errors: []ImportError{}}
	if len(rows) <= 1 {
		return shared.Success(result, "El archivo no contiene filas para importar")
	}
	if len(rows)-1 > MaxImportRows {
		return shared.ValidationError("Archivo de importación inválido",
			fmt.Sprintf("El archivo no puede superar %d filas", MaxImportRows))
	}

	for i, row := range rows[1:] {
		rowNum := safeconv.IntToInt32(i + 2)
		data := parseRow(row)
		if data == nil {
			continue
		}
		s.importRow(ctx, rowNum, data, result)
	}

	message := fmt.Sprintf("Importación finalizada: %d registradas, %d con errores", result.SuccessCount, result.FailedCount)
	return shared.Success(result, message)
}

func (s *Service) importRow(ctx context.Context, rowNum int32, data map[string]any, result *ImportResult) {
	res := s.Create(ctx, data)
	if res.IsSuccess() {
		result.SuccessCount++
		return
	}

	result.FailedCount++
	if fieldErrs := res.FieldErrors(); len(fieldErrs) > 0 {
		for _, fe := range fieldErrs {
			result.Errors = append(result.Errors, ImportError{RowNumber: rowNum, Field: fe.Field, Message: fe.Message})
		}
		return
	}
	message := res.Message()
	if errs := res.Errors(); len(errs) > 0 {
		message = strings.Join(errs, "; ")
	}
	result.Errors = append(result.Errors, ImportError{RowNumber: rowNum, Message: message})
}

// readRows opens the workbook and returns the rows of its first sheet.
func readRows(content []byte, fileName string) ([][]string, error) {
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != ".xlsx" {
		return nil, fmt.Errorf("formato de archivo no soportado: %q (use .xlsx)", ext)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.New("no se pudo leer el archivo Excel")
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close Excel file")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("el archivo no contiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.New("no se pudieron leer las filas del archivo")
	}
	return rows, nil
}

// parseRow maps the cells of a row to Create input. Blank rows return nil;
// blank cells are left out so required checks report them.
func parseRow(row []string) map[string]any {
	data := make(map[string]any, len(importColumns))
	for i, column := range importColumns {
		if value := getCell(row, i); value != "" {
			data[column] = value
		}
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

func getCell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	_ = f.SetSheetRow(sheet, "A1", &headers)
	style, _ := f.NewStyle(headerStyle)
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, style)
}
