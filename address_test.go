package xlbind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnNames(t *testing.T) {
	tests := []struct {
		col  ColumnIndex
		name string
	}{
		{0, "A"}, {25, "Z"}, {26, "AA"}, {51, "AZ"}, {52, "BA"},
		{701, "ZZ"}, {702, "AAA"}, {MaxColumn, "ZZZ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, ColToName(tt.col))
		got, err := NameToCol(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.col, got, tt.name)
	}
}

func TestColumnRoundTrip(t *testing.T) {
	for col := ColumnIndex(0); col <= MaxColumn; col++ {
		got, err := NameToCol(ColToName(col))
		if err != nil || got != col {
			t.Fatalf("round trip of %d via %q gave %d, %v", col, ColToName(col), got, err)
		}
	}

	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for _, a := range letters {
		for _, b := range letters {
			name := string(a) + string(b)
			col, err := NameToCol(name)
			require.NoError(t, err)
			assert.Equal(t, name, ColToName(col))
		}
	}
}

func TestNameToColInvalid(t *testing.T) {
	for _, name := range []string{"", "a", "A1", "ABCD", "$A"} {
		_, err := NameToCol(name)
		assert.ErrorIs(t, err, ErrInvalidColumnFormat, name)
	}
}

func TestRowOf(t *testing.T) {
	r, err := RowOf("$C$17")
	require.NoError(t, err)
	assert.Equal(t, RowIndex(17), r)

	_, err = RowOf("ABC")
	assert.ErrorIs(t, err, ErrMissingRowDigits)
}

func TestParseCell(t *testing.T) {
	c, err := ParseCell("C7")
	require.NoError(t, err)
	assert.Equal(t, ColumnIndex(2), c.Column())
	assert.Equal(t, RowIndex(7), c.Row())
	assert.Equal(t, "C7", c.String())
	assert.Equal(t, "C", c.ColumnName())

	c, err = ParseCell("$AB$12")
	require.NoError(t, err)
	assert.Equal(t, "AB12", c.CellName())

	for _, bad := range []string{"", "17", "C", "ABCD1"} {
		_, err := ParseCell(bad)
		assert.Error(t, err, bad)
	}
	_, err = ParseCell("C")
	assert.ErrorIs(t, err, ErrMalformedAddress)
	assert.ErrorIs(t, err, ErrMissingRowDigits)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("A1:B2")
	require.NoError(t, err)
	assert.Equal(t, NewCell(0, 1), r.Start())
	assert.Equal(t, NewCell(1, 2), r.End())
	assert.Equal(t, "A1:B2", r.String())
	assert.Equal(t, "A1", r.CellName())
	assert.Equal(t, 2, r.Height())
	assert.True(t, r.Contains(NewCell(1, 1)))
	assert.False(t, r.Contains(NewCell(2, 1)))

	_, err = ParseRange("A1")
	assert.ErrorIs(t, err, ErrMalformedAddress)
	_, err = ParseRange("A1:2")
	assert.ErrorIs(t, err, ErrMalformedAddress)
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress("B3")
	require.NoError(t, err)
	assert.IsType(t, Cell{}, a)

	a, err = ParseAddress("B3:D9")
	require.NoError(t, err)
	assert.IsType(t, Range{}, a)
}

func TestParseNamedRange(t *testing.T) {
	tests := []struct {
		def, sheet, cell string
	}{
		{"'Sheet1'!$C$4:", "Sheet1", "C4"},
		{"Sheet1!$C$4:$D$5", "Sheet1", "C4"},
		{"='My Sheet'!$AA$10", "My Sheet", "AA10"},
		{"'It''s'!$B$2", "It's", "B2"},
	}
	for _, tt := range tests {
		nr, err := ParseNamedRange("Foo", tt.def)
		require.NoError(t, err, tt.def)
		assert.Equal(t, "Foo", nr.Name())
		assert.Equal(t, tt.sheet, nr.SheetName())
		assert.Equal(t, tt.cell, nr.Start().String())
		assert.Equal(t, nr.Start(), nr.End())
	}
	assert.Equal(t, "Sheet1!C4:C4", mustNamed(t, "Foo", "'Sheet1'!$C$4:").String())

	for _, bad := range []string{"$C$4", "Sheet1!C4", "Sheet1!$c$4", "Sheet1!$C$"} {
		_, err := ParseNamedRange("Foo", bad)
		assert.Error(t, err, bad)
	}
	_, err := ParseNamedRange("Foo", "Sheet1!$C$x")
	assert.True(t, errors.Is(err, ErrMalformedAddress) && errors.Is(err, ErrMissingRowDigits))
}

func TestCellMoves(t *testing.T) {
	c := NewCell(3, 5)
	assert.Equal(t, NewCell(4, 5), c.MoveLeft())
	assert.Equal(t, NewCell(2, 5), c.MoveRight())
	assert.Equal(t, NewCell(3, 4), c.MoveUp())
	assert.Equal(t, NewCell(3, 6), c.MoveDown())
	assert.Equal(t, NewCell(3, 9), c.MoveToRow(9))

	for col := ColumnIndex(1); col < 100; col++ {
		c := NewCell(col, 1)
		assert.Equal(t, c, c.MoveLeft().MoveRight())
		assert.Equal(t, c, c.MoveRight().MoveLeft())
	}

	edge := NewCell(0, 0)
	assert.Equal(t, edge, edge.MoveRight())
	assert.Equal(t, edge, edge.MoveUp())

	assert.Equal(t, Address(NewCell(3, 6)), c.Move(Down))
	assert.Equal(t, Address(NewCell(3, 2)), c.WithRow(2))
}

func TestRangeMoves(t *testing.T) {
	r := NewRange(NewCell(1, 2), NewCell(3, 4))
	assert.Equal(t, "C2:E4", r.MoveLeft().String())
	assert.Equal(t, "A2:C4", r.MoveRight().String())
	assert.Equal(t, "B1:D3", r.MoveUp().String())
	assert.Equal(t, "B3:D5", r.MoveDown().String())
	assert.Equal(t, "B10:D12", r.MoveToRow(10).String())
	assert.Equal(t, r.Height(), r.MoveToRow(10).Height())
	assert.Equal(t, "B3:D5", r.Move(Down).String())
}

func TestNamedRangeMovesKeepTags(t *testing.T) {
	nr := NewNamedRange("Total", "Data", NewRange(NewCell(2, 4), NewCell(2, 4)))
	for _, moved := range []NamedRange{nr.MoveLeft(), nr.MoveRight(), nr.MoveUp(), nr.MoveDown(), nr.MoveToRow(8)} {
		assert.Equal(t, "Total", moved.Name())
		assert.Equal(t, "Data", moved.SheetName())
	}
	assert.Equal(t, "Data!C5:C5", nr.MoveDown().String())

	moved, ok := nr.Move(Left).(NamedRange)
	require.True(t, ok)
	assert.Equal(t, "Data!D4:D4", moved.String())

	moved, ok = nr.WithRow(1).(NamedRange)
	require.True(t, ok)
	assert.Equal(t, "Total", moved.Name())
	assert.Equal(t, RowIndex(1), moved.Row())
}

func TestMatch(t *testing.T) {
	kind := func(a Address) string {
		return Match(a,
			func(c Cell) string { return "cell " + c.String() },
			func(r Range) string { return "range " + r.String() },
		)
	}
	assert.Equal(t, "cell A1", kind(NewCell(0, 1)))
	assert.Equal(t, "range A1:B2", kind(NewRange(NewCell(0, 1), NewCell(1, 2))))
	assert.Equal(t, "range C4:C4", kind(mustNamed(t, "X", "S!$C$4")))
}
