package xlbind

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// newTestSheet creates a workbook with one sheet whose cells hold the given
// values, keyed by reference.
func newTestSheet(t *testing.T, name string, cells map[string]any) (*Workbook, *Sheet) {
	t.Helper()
	wb := NewWorkbook()
	s, err := wb.AddSheet(name)
	require.NoError(t, err)
	for ref, v := range cells {
		c := mustCell(t, ref)
		s.EnsureCell(c)
		require.NoError(t, s.WriteValue(c, v))
	}
	return wb, s
}

func mustCell(t *testing.T, ref string) Cell {
	t.Helper()
	c, err := ParseCell(ref)
	require.NoError(t, err)
	return c
}

func mustNamed(t *testing.T, name, def string) NamedRange {
	t.Helper()
	nr, err := ParseNamedRange(name, def)
	require.NoError(t, err)
	return nr
}

// valueAt reads a cell back, failing the test when it is missing.
func valueAt(t *testing.T, s *Sheet, ref string) any {
	t.Helper()
	v, err := s.ValueAt(mustCell(t, ref))
	require.NoError(t, err)
	return v
}

func rowIndexes(s *Sheet) []RowIndex {
	out := make([]RowIndex, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Index
	}
	return out
}

// createInvoiceTemplate creates a template with scalar and block anchors.
// Layout of sheet "Invoice":
//
//	A1: "Invoice" merged A1:C1
//	A2: "Customer"   B2: "-"            (Customer)
//	A3: "Issued"     B3: "-"            (IssuedOn)
//	A4: "Item"       B4: "Qty"   C4: "Price"   table InvoiceLines A4:C5
//	A5: "-"          B5: 0       C5: 0  (Lines)
//	A6: "Total"                  C6: =SUM(C5:C5)
//	A7: "Terms"      link to https://example.com/terms
func createInvoiceTemplate(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Invoice"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)

	f.SetCellValue(sheet, "A1", "Invoice")
	require.NoError(t, f.MergeCell(sheet, "A1", "C1"))
	f.SetCellValue(sheet, "A2", "Customer")
	f.SetCellValue(sheet, "B2", "-")
	f.SetCellValue(sheet, "A3", "Issued")
	f.SetCellValue(sheet, "B3", "-")
	f.SetCellValue(sheet, "A4", "Item")
	f.SetCellValue(sheet, "B4", "Qty")
	f.SetCellValue(sheet, "C4", "Price")
	f.SetCellStyle(sheet, "A4", "C4", bold)
	f.SetCellValue(sheet, "A5", "-")
	f.SetCellValue(sheet, "B5", 0)
	f.SetCellValue(sheet, "C5", 0)
	f.SetCellValue(sheet, "A6", "Total")
	require.NoError(t, f.SetCellFormula(sheet, "C6", "SUM(C5:C5)"))
	f.SetCellValue(sheet, "A7", "Terms")
	require.NoError(t, f.SetCellHyperLink(sheet, "A7", "https://example.com/terms", "External"))
	require.NoError(t, f.AddTable(sheet, &excelize.Table{Range: "A4:C5", Name: "InvoiceLines", StyleName: "TableStyleMedium2"}))

	for _, dn := range []excelize.DefinedName{
		{Name: "Customer", RefersTo: "'Invoice'!$B$2"},
		{Name: "IssuedOn", RefersTo: "'Invoice'!$B$3"},
		{Name: "Lines", RefersTo: "'Invoice'!$A$5:$C$5"},
	} {
		require.NoError(t, f.SetDefinedName(&dn))
	}

	path := filepath.Join(t.TempDir(), "invoice.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// createPagedTemplate creates sheet "S" with a one-cell anchor "Items" at A1.
func createPagedTemplate(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "S"))
	f.SetCellValue("S", "A1", "-")
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{Name: "Items", RefersTo: "'S'!$A$1"}))

	path := filepath.Join(t.TempDir(), "paged.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

var issued = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
