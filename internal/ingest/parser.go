package ingest

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawRow is one data row of an uploaded snapshot, untouched except for cell
// trimming. SheetRow is the 1-based spreadsheet row the values came from,
// which embedded pictures anchor against.
type RawRow struct {
	SheetRow int
	Style    string
	Color    string
	Division string
	Outsole  string
	Gender   string
	ImageURL string
}

// Picture is an image embedded in the workbook, identified by the cell its
// anchor sits in.
type Picture struct {
	AnchorRow int
	AnchorCol int
	Extension string
	Data      []byte
}

type Workbook struct {
	Rows     []RawRow
	Pictures []Picture
}

// ParseWorkbook reads the first sheet of an xlsx stream. Header names are
// matched case-insensitively after trimming; "style" and "color" are
// required, everything else is optional. Rows are returned in document
// order. Rows with neither style nor color are skipped.
func ParseWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols := map[string]int{}
	for idx, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, required := range []string{"style", "color"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("required column %q not found, have %v", required, headerNames(rows[0]))
		}
	}

	wb := &Workbook{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		raw := RawRow{
			SheetRow: i + 1,
			Style:    cell(row, cols, "style"),
			Color:    cell(row, cols, "color"),
			Division: cell(row, cols, "division"),
			Outsole:  cell(row, cols, "outsole"),
			Gender:   cell(row, cols, "gender"),
			ImageURL: cell(row, cols, "image"),
		}
		if raw.ImageURL == "" {
			raw.ImageURL = cell(row, cols, "image_url")
		}
		if raw.Style == "" && raw.Color == "" {
			continue
		}
		wb.Rows = append(wb.Rows, raw)
	}

	pics, err := readPictures(f, sheet)
	if err != nil {
		return nil, err
	}
	wb.Pictures = pics
	return wb, nil
}

func readPictures(f *excelize.File, sheet string) ([]Picture, error) {
	cells, err := f.GetPictureCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("list picture cells: %w", err)
	}

	var pics []Picture
	for _, cellRef := range cells {
		col, row, err := excelize.CellNameToCoordinates(cellRef)
		if err != nil {
			return nil, fmt.Errorf("picture anchor %q: %w", cellRef, err)
		}
		imgs, err := f.GetPictures(sheet, cellRef)
		if err != nil {
			return nil, fmt.Errorf("read pictures at %q: %w", cellRef, err)
		}
		for _, img := range imgs {
			pics = append(pics, Picture{
				AnchorRow: row,
				AnchorCol: col,
				Extension: img.Extension,
				Data:      img.File,
			})
		}
	}

	// Document order: top to bottom, then left to right.
	sort.SliceStable(pics, func(i, j int) bool {
		if pics[i].AnchorRow != pics[j].AnchorRow {
			return pics[i].AnchorRow < pics[j].AnchorRow
		}
		return pics[i].AnchorCol < pics[j].AnchorCol
	})
	return pics, nil
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func headerNames(header []string) []string {
	names := make([]string, 0, len(header))
	for _, h := range header {
		names = append(names, strings.ToLower(strings.TrimSpace(h)))
	}
	return names
}
