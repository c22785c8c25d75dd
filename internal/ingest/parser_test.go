package ingest

import (
	"bytes"
	_ "image/png"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, header []interface{}, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseWorkbook(t *testing.T) {
	src := buildWorkbook(t,
		[]interface{}{" Style ", "COLOR", "Division", "Outsole", "Gender", "Image"},
		[][]interface{}{
			{"104437", "Black/White", "Running", "Rubber", "Mens", "https://cdn.example.com/a.png"},
			{"45123", " Navy ", "", "", "", ""},
			{"", "", "", "", "", ""},
			{"104438", "Red", "Court", "Gum", "Womens", ""},
		},
	)

	wb, err := ParseWorkbook(src)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(wb.Rows) != 3 {
		t.Fatalf("got %d rows, want 3 (blank row skipped): %+v", len(wb.Rows), wb.Rows)
	}

	first := wb.Rows[0]
	if first.SheetRow != 2 {
		t.Errorf("first row SheetRow = %d, want 2", first.SheetRow)
	}
	if first.Style != "104437" || first.Color != "Black/White" {
		t.Errorf("first row = %+v", first)
	}
	if first.ImageURL != "https://cdn.example.com/a.png" {
		t.Errorf("first row ImageURL = %q", first.ImageURL)
	}

	second := wb.Rows[1]
	if second.Color != "Navy" {
		t.Errorf("cell values should be trimmed, got color %q", second.Color)
	}

	third := wb.Rows[2]
	if third.SheetRow != 5 {
		t.Errorf("third row SheetRow = %d, want 5 (blank row keeps numbering)", third.SheetRow)
	}
}

func TestParseWorkbookImageURLFallback(t *testing.T) {
	src := buildWorkbook(t,
		[]interface{}{"style", "color", "image_url"},
		[][]interface{}{
			{"104437", "Black", "https://cdn.example.com/b.png"},
		},
	)
	wb, err := ParseWorkbook(src)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if wb.Rows[0].ImageURL != "https://cdn.example.com/b.png" {
		t.Fatalf("image_url column not picked up: %+v", wb.Rows[0])
	}
}

func TestParseWorkbookMissingRequiredColumn(t *testing.T) {
	src := buildWorkbook(t,
		[]interface{}{"style", "division"},
		[][]interface{}{{"104437", "Running"}},
	)
	_, err := ParseWorkbook(src)
	if err == nil || !strings.Contains(err.Error(), `"color"`) {
		t.Fatalf("expected missing color column error, got %v", err)
	}
}

func TestParseWorkbookNotSpreadsheet(t *testing.T) {
	if _, err := ParseWorkbook(strings.NewReader("not an xlsx")); err == nil {
		t.Fatal("expected error for non-xlsx input")
	}
}

func TestParseWorkbookPictures(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"style", "color"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	row := []interface{}{"104437", "Black"}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		t.Fatalf("set row: %v", err)
	}
	if err := f.AddPictureFromBytes(sheet, "C2", &excelize.Picture{
		Extension: ".png",
		File:      pngBytes(),
	}); err != nil {
		t.Fatalf("add picture: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	wb, err := ParseWorkbook(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(wb.Pictures) != 1 {
		t.Fatalf("got %d pictures, want 1", len(wb.Pictures))
	}
	pic := wb.Pictures[0]
	if pic.AnchorRow != 2 || pic.AnchorCol != 3 {
		t.Errorf("anchor = (%d,%d), want (2,3)", pic.AnchorRow, pic.AnchorCol)
	}
	if pic.Extension != ".png" || len(pic.Data) == 0 {
		t.Errorf("picture = ext %q, %d bytes", pic.Extension, len(pic.Data))
	}
}

// pngBytes is a 1x1 transparent PNG.
func pngBytes() []byte {
	return []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
		0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
		0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}
}
