package xlbind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneSheet(t *testing.T) {
	wb, s := newTestSheet(t, "Data", map[string]any{"A1": "head", "A2": 1})
	s.Active = true
	s.MergeCell(NewCell(0, 1), NewCell(2, 1))
	s.SetHyperlink(NewCell(0, 2), "https://example.com", "")
	s.ColWidths[0] = 20
	require.NoError(t, s.AddTable(&Table{Name: "Sales", Ref: "A1:A2"}))

	c, err := wb.CloneSheet("Data", "Copy")
	require.NoError(t, err)
	assert.Equal(t, "Copy", c.Name)
	assert.False(t, c.Active)
	assert.Same(t, s, wb.ActiveSheet())
	assert.Same(t, wb, c.Workbook())
	assert.Equal(t, []string{"Data", "Copy"}, []string{wb.Sheets()[0].Name, wb.Sheets()[1].Name})

	assert.Equal(t, "head", valueAt(t, c, "A1"))
	assert.Equal(t, s.MergeCells, c.MergeCells)
	assert.Equal(t, 20.0, c.ColWidths[0])

	// deep copy
	require.NoError(t, c.WriteValue(NewCell(0, 1), "changed"))
	c.Hyperlinks[0].Target = "https://example.org"
	c.MergeCells[0] = "A1:B1"
	assert.Equal(t, "head", valueAt(t, s, "A1"))
	assert.Equal(t, "https://example.com", s.Hyperlinks[0].Target)
	assert.Equal(t, "A1:C1", s.MergeCells[0])
}

func TestCloneSheetRenamesTables(t *testing.T) {
	wb, s := newTestSheet(t, "Data", map[string]any{"A1": "h"})
	require.NoError(t, s.AddTable(&Table{Name: "Sales", Ref: "A1:B3"}))
	require.NoError(t, s.AddTable(&Table{Name: "Costs", Ref: "D1:E3"}))

	c1, err := wb.CloneSheet("Data", "Data2")
	require.NoError(t, err)
	c2, err := wb.CloneSheet("Data", "Data3")
	require.NoError(t, err)

	ids := map[int]bool{}
	names := map[string]bool{}
	for _, sh := range []*Sheet{s, c1, c2} {
		for _, tbl := range sh.Tables {
			assert.False(t, ids[tbl.ID], "duplicate id %d", tbl.ID)
			assert.False(t, names[tbl.Name], "duplicate name %s", tbl.Name)
			ids[tbl.ID], names[tbl.Name] = true, true
		}
	}
	assert.Equal(t, "Sales", s.Tables[0].Name)
	assert.Equal(t, "CopiedTable3", c1.Tables[0].Name)
	assert.Equal(t, "CopiedTable3", c1.Tables[0].DisplayName)
	assert.Equal(t, "CopiedTable4", c1.Tables[1].Name)
	assert.Equal(t, "CopiedTable5", c2.Tables[0].Name)
	assert.Equal(t, "A1:B3", c1.Tables[0].Ref)
}

func TestCloneSheetSkipsTakenTableNames(t *testing.T) {
	wb, s := newTestSheet(t, "Data", map[string]any{"A1": "h"})
	require.NoError(t, s.AddTable(&Table{Name: "CopiedTable2", Ref: "A1:B3"}))

	c, err := wb.CloneSheet("Data", "Copy")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Tables[0].ID)
	assert.Equal(t, "CopiedTable3", c.Tables[0].Name)
}

func TestCloneSheetErrors(t *testing.T) {
	wb, _ := newTestSheet(t, "Data", map[string]any{"A1": "h"})
	_, err := wb.AddSheet("Other")
	require.NoError(t, err)

	_, err = wb.CloneSheet("Data", "Other")
	assert.ErrorIs(t, err, ErrSheetExists)
	_, err = wb.CloneSheet("Nope", "New")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}
