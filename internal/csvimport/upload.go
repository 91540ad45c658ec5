// Package csvimport turns a spreadsheet export into Workout records in three
// steps: parse the upload, map columns to fields, then preview or transform.
//
// The dialect is deliberately minimal: every line is split on ',' and one
// leading and one trailing double quote is stripped from each cell. Quoted
// commas and escaped quotes are not supported.
package csvimport

import (
	"errors"
	"strings"
)

// PreviewRows is the number of data rows shown before committing.
const PreviewRows = 5

// Template is a one-row example file users can download and fill in.
const Template = "date,sport,distance_m,duration_s,rpe,notes\n2024-01-15,run,5000,1800,7,Morning run in the park"

var ErrEmptyUpload = errors.New("csv file has no rows")

// Upload is a parsed CSV file. Headers comes from the first row, which is
// never treated as data.
type Upload struct {
	Headers []string
	Rows    [][]string
}

// ParseUpload splits raw text into a header row and data rows. Blank lines
// are skipped.
func ParseUpload(text string) (*Upload, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	var records [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		for i, cell := range cells {
			cells[i] = cleanCell(cell)
		}
		records = append(records, cells)
	}
	if len(records) == 0 {
		return nil, ErrEmptyUpload
	}
	return &Upload{Headers: records[0], Rows: records[1:]}, nil
}

func cleanCell(cell string) string {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimPrefix(cell, `"`)
	cell = strings.TrimSuffix(cell, `"`)
	return cell
}

// ColumnIndex returns the position of the first header named name, or -1.
func (u *Upload) ColumnIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, h := range u.Headers {
		if h == name {
			return i
		}
	}
	return -1
}
