package xlbind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookSheets(t *testing.T) {
	wb := NewWorkbook()
	a, err := wb.AddSheet("A")
	require.NoError(t, err)
	_, err = wb.AddSheet("B")
	require.NoError(t, err)

	_, err = wb.AddSheet("A")
	assert.ErrorIs(t, err, ErrSheetExists)

	got, err := wb.Sheet("A")
	require.NoError(t, err)
	assert.Same(t, a, got)
	_, err = wb.Sheet("C")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	assert.Nil(t, wb.ActiveSheet())
	a.Active = true
	assert.Same(t, a, wb.ActiveSheet())
}

func TestWorkbookNamedRange(t *testing.T) {
	wb := NewWorkbook()
	wb.AddDefinedName(DefinedName{Name: "Total", RefersTo: "'Data'!$C$4"})

	nr, err := wb.NamedRange("total")
	require.NoError(t, err)
	assert.Equal(t, "Total", nr.Name())
	assert.Equal(t, "Data!C4:C4", nr.String())

	_, err = wb.NamedRange("Missing")
	assert.ErrorIs(t, err, ErrNameNotFound)
	assert.Len(t, wb.DefinedNames(), 1)
}

func TestGetCell(t *testing.T) {
	_, s := newTestSheet(t, "Data", map[string]any{"C7": "x"})

	cd, err := s.GetCell(NewCell(2, 7))
	require.NoError(t, err)
	assert.Equal(t, "C7", cd.Ref)

	_, err = s.GetCell(NewCell(2, 8))
	assert.ErrorIs(t, err, ErrCellNotFound)
	assert.ErrorContains(t, err, "Data!C8")
}

func TestCellIndexLazy(t *testing.T) {
	_, s := newTestSheet(t, "Data", map[string]any{"A1": 1, "B1": 2})
	_, err := s.GetCell(NewCell(0, 1))
	require.NoError(t, err)
	builds := s.index.builds

	for range 10 {
		_, err := s.GetCell(NewCell(1, 1))
		require.NoError(t, err)
	}
	assert.Equal(t, builds, s.index.builds)

	// direct edits need Invalidate
	s.Rows[0].AddCell(3)
	_, err = s.GetCell(NewCell(3, 1))
	assert.ErrorIs(t, err, ErrCellNotFound)
	s.Invalidate()
	_, err = s.GetCell(NewCell(3, 1))
	require.NoError(t, err)
	assert.Equal(t, builds+1, s.index.builds)
}

func TestCellIndexFirstWins(t *testing.T) {
	var ix cellIndex
	first := &CellData{Ref: "A1"}
	second := &CellData{Ref: "A1"}
	rows := []*Row{{Index: 1, Cells: []*CellData{first, second}}}

	got, ok := ix.lookup(rows, NewCell(0, 1))
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestEnsureCell(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.AddSheet("Data")
	require.NoError(t, err)

	c := s.EnsureCell(NewCell(2, 3))
	s.EnsureCell(NewCell(0, 3))
	s.EnsureCell(NewCell(0, 1))
	assert.Same(t, c, s.EnsureCell(NewCell(2, 3)))

	assert.Equal(t, []RowIndex{1, 3}, rowIndexes(s))
	row, ok := s.Row(3)
	require.True(t, ok)
	require.Len(t, row.Cells, 2)
	assert.Equal(t, "A3", row.Cells[0].Ref)
	assert.Equal(t, "C3", row.Cells[1].Ref)
	assert.Equal(t, RowIndex(3), s.LastRowIndex())
}

func TestSharedStrings(t *testing.T) {
	var sst SharedStrings
	assert.Equal(t, 0, sst.Intern("a"))
	assert.Equal(t, 1, sst.Intern("b"))
	assert.Equal(t, 0, sst.Intern("a"))
	assert.Equal(t, 2, sst.Len())

	text, ok := sst.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "b", text)
	_, ok = sst.Get(2)
	assert.False(t, ok)
	_, ok = sst.Get(-1)
	assert.False(t, ok)
}

func TestCellTypeString(t *testing.T) {
	assert.Equal(t, "SharedString", CellSharedString.String())
	assert.Equal(t, "Formula", CellFormula.String())
}
