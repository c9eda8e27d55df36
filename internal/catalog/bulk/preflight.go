// Package bulk queues spreadsheet imports and shows their outcome.
package bulk

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"

	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// RequiredColumns are the header names the import needs, in display order.
var RequiredColumns = []string{
	"descripcion",
	"codigo_importacion",
	"costo_final",
	"cant_disponible",
	"cod_linea",
	"nombre_marca",
	"nombre_modelo",
	"anio",
}

// FileField is the multipart field carrying the spreadsheet.
const FileField = "file"

var (
	// ErrUnsupportedFormat rejects anything that is not a spreadsheet.
	ErrUnsupportedFormat = errors.New("Formato no soportado. Usá un archivo .xlsx, .xls o .csv")
	// ErrEmptyFile rejects a spreadsheet without a header row.
	ErrEmptyFile = errors.New("El archivo está vacío")
)

// Report is what the local inspection learned about a file.
type Report struct {
	Format string
	// Rows counts data rows below the header.
	Rows int
	// Verified is false for legacy .xls files, which are forwarded unread.
	Verified bool
}

// Inspect checks a spreadsheet before it is queued: the extension must be
// known and every required column present in the header row.
func Inspect(filename string, data []byte) (Report, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		rows [][]string
		err  error
	)
	switch ext {
	case ".xlsx":
		rows, err = readXLSX(data)
	case ".csv":
		rows, err = readCSV(data)
	case ".xls":
		return Report{Format: ext}, nil
	default:
		return Report{}, fieldError(ErrUnsupportedFormat.Error())
	}
	if err != nil {
		return Report{}, fieldError(fmt.Sprintf("No se pudo leer el archivo: %v", err))
	}
	if len(rows) == 0 {
		return Report{}, fieldError(ErrEmptyFile.Error())
	}
	if missing := MissingColumns(rows[0]); len(missing) > 0 {
		return Report{}, fieldError("Faltan columnas: " + strings.Join(missing, ", "))
	}
	return Report{Format: ext, Rows: countDataRows(rows[1:]), Verified: true}, nil
}

// MissingColumns lists the required columns absent from header, matched
// case-insensitively after trimming.
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func fieldError(msg string) error {
	return &internalShared.ValidationError{Fields: map[string]string{FileField: msg}}
}

func readXLSX(data []byte) ([][]string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	sheet := book.GetSheetName(1)
	if sheet == "" {
		return nil, nil
	}
	return book.GetRows(sheet), nil
}

// readCSV reads the header and counts records; ragged rows are left for
// the import itself to report.
func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.Comma = sniffComma(data)
	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
}

// sniffComma picks ';' for spreadsheets exported with a comma decimal
// locale, ',' otherwise.
func sniffComma(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func countDataRows(rows [][]string) int {
	n := 0
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				n++
				break
			}
		}
	}
	return n
}
