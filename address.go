package xlbind

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ColumnIndex is a 0-based column number: A=0, Z=25, AA=26.
type ColumnIndex uint32

// RowIndex is a 1-based row number. Row 0 is not a sheet row, but MoveUp can
// reach it, so callers check before indexing.
type RowIndex uint32

// MaxColumn is the last column with a three-letter name ("ZZZ").
const MaxColumn ColumnIndex = 18277

// Direction selects a one-step movement for Address.Move.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Address is one of Cell, Range or NamedRange. The set is closed; use Match to
// branch on the variant.
type Address interface {
	Column() ColumnIndex
	Row() RowIndex
	// CellName is the reference of the top-left cell, e.g. "C7".
	CellName() string
	String() string
	Move(d Direction) Address
	WithRow(r RowIndex) Address

	address()
}

// Match dispatches on the address variant. A NamedRange takes the range arm.
func Match[T any](a Address, onCell func(Cell) T, onRange func(Range) T) T {
	switch v := a.(type) {
	case Cell:
		return onCell(v)
	case Range:
		return onRange(v)
	case NamedRange:
		return onRange(v.Range)
	}
	panic(fmt.Sprintf("xlbind: incomplete match for %T", a))
}

// Cell is a single cell position.
type Cell struct {
	col ColumnIndex
	row RowIndex
}

// NewCell creates a Cell at the given column and row.
func NewCell(col ColumnIndex, row RowIndex) Cell {
	return Cell{col: col, row: row}
}

func (c Cell) address() {}

func (c Cell) Column() ColumnIndex { return c.col }
func (c Cell) Row() RowIndex       { return c.row }

// ColumnName returns the letters of the cell's column.
func (c Cell) ColumnName() string { return ColToName(c.col) }

// String formats the cell as "C7".
func (c Cell) String() string {
	return ColToName(c.col) + strconv.FormatUint(uint64(c.row), 10)
}

func (c Cell) CellName() string { return c.String() }

// MoveLeft steps to the next column (column index + 1).
//
// The Left/Right names are reversed relative to the column axis. Block writes
// walk a row with MoveLeft, so the naming stays as is.
func (c Cell) MoveLeft() Cell {
	return Cell{col: c.col + 1, row: c.row}
}

// MoveRight steps to the previous column and stays put at column 0.
func (c Cell) MoveRight() Cell {
	if c.col >= 1 {
		return Cell{col: c.col - 1, row: c.row}
	}
	return c
}

// MoveUp steps one row up. The result can be row 0.
func (c Cell) MoveUp() Cell {
	if c.row >= 1 {
		return Cell{col: c.col, row: c.row - 1}
	}
	return c
}

func (c Cell) MoveDown() Cell {
	return Cell{col: c.col, row: c.row + 1}
}

func (c Cell) MoveToRow(r RowIndex) Cell {
	return Cell{col: c.col, row: r}
}

func (c Cell) Move(d Direction) Address  { return c.step(d) }
func (c Cell) WithRow(r RowIndex) Address { return c.MoveToRow(r) }

func (c Cell) step(d Direction) Cell {
	switch d {
	case Left:
		return c.MoveLeft()
	case Right:
		return c.MoveRight()
	case Up:
		return c.MoveUp()
	case Down:
		return c.MoveDown()
	}
	return c
}

// Range is a rectangle given by its two corner cells. Its row and column are
// those of Start.
type Range struct {
	start Cell
	end   Cell
}

// NewRange creates a Range from two cells.
func NewRange(start, end Cell) Range {
	return Range{start: start, end: end}
}

func (r Range) address() {}

func (r Range) Start() Cell         { return r.start }
func (r Range) End() Cell           { return r.end }
func (r Range) Column() ColumnIndex { return r.start.col }
func (r Range) Row() RowIndex       { return r.start.row }
func (r Range) CellName() string    { return r.start.String() }

// String formats the range as "A1:B2".
func (r Range) String() string {
	return r.start.String() + ":" + r.end.String()
}

// Height is the number of rows covered by the range.
func (r Range) Height() int {
	return int(r.end.row) - int(r.start.row) + 1
}

// Contains reports whether c lies inside the range.
func (r Range) Contains(c Cell) bool {
	return c.row >= r.start.row && c.row <= r.end.row &&
		c.col >= r.start.col && c.col <= r.end.col
}

func (r Range) MoveLeft() Range  { return Range{r.start.MoveLeft(), r.end.MoveLeft()} }
func (r Range) MoveRight() Range { return Range{r.start.MoveRight(), r.end.MoveRight()} }
func (r Range) MoveUp() Range    { return Range{r.start.MoveUp(), r.end.MoveUp()} }
func (r Range) MoveDown() Range  { return Range{r.start.MoveDown(), r.end.MoveDown()} }

// MoveToRow moves Start to row and End by the same number of rows, keeping the
// height of the range.
func (r Range) MoveToRow(row RowIndex) Range {
	delta := int64(row) - int64(r.start.row)
	return Range{
		start: r.start.MoveToRow(row),
		end:   r.end.MoveToRow(shiftRow(r.end.row, delta)),
	}
}

func (r Range) Move(d Direction) Address  { return Range{r.start.step(d), r.end.step(d)} }
func (r Range) WithRow(n RowIndex) Address { return r.MoveToRow(n) }

// NamedRange is a Range tagged with a defined name and the sheet it lives on.
type NamedRange struct {
	Range
	name  string
	sheet string
}

// NewNamedRange creates a NamedRange.
func NewNamedRange(name, sheet string, r Range) NamedRange {
	return NamedRange{Range: r, name: name, sheet: sheet}
}

func (n NamedRange) address() {}

func (n NamedRange) Name() string      { return n.name }
func (n NamedRange) SheetName() string { return n.sheet }

// String formats the named range as "Sheet1!C4:C4".
func (n NamedRange) String() string {
	return n.sheet + "!" + n.Range.String()
}

func (n NamedRange) with(r Range) NamedRange {
	return NamedRange{Range: r, name: n.name, sheet: n.sheet}
}

func (n NamedRange) MoveLeft() NamedRange            { return n.with(n.Range.MoveLeft()) }
func (n NamedRange) MoveRight() NamedRange           { return n.with(n.Range.MoveRight()) }
func (n NamedRange) MoveUp() NamedRange              { return n.with(n.Range.MoveUp()) }
func (n NamedRange) MoveDown() NamedRange            { return n.with(n.Range.MoveDown()) }
func (n NamedRange) MoveToRow(r RowIndex) NamedRange { return n.with(n.Range.MoveToRow(r)) }

func (n NamedRange) Move(d Direction) Address {
	return n.with(n.Range.Move(d).(Range))
}

func (n NamedRange) WithRow(r RowIndex) Address { return n.MoveToRow(r) }

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA"
func ColToName(col ColumnIndex) string {
	var buf [8]byte
	i := len(buf)
	n := uint64(col) + 1
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

// NameToCol converts a column name of one to three uppercase letters to a
// 0-based column index. "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (ColumnIndex, error) {
	if name == "" || len(name) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColumnFormat, name)
	}
	var col uint32
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColumnFormat, name)
		}
		col = col*26 + uint32(ch-'A') + 1
	}
	return ColumnIndex(col - 1), nil
}

// RowOf returns the number formed by the first run of digits in s.
func RowOf(s string) (RowIndex, error) {
	start := 0
	for start < len(s) && !isDigit(s[start]) {
		start++
	}
	if start == len(s) {
		return 0, fmt.Errorf("%w: %q", ErrMissingRowDigits, s)
	}
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	n, err := strconv.ParseUint(s[start:end], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: row in %q: %w", ErrMalformedAddress, s, err)
	}
	return RowIndex(n), nil
}

// ParseCell parses a reference like "C7" or "$C$7". The column is the first run
// of letters and the row the first run of digits.
func ParseCell(s string) (Cell, error) {
	letters := letterRun(s)
	if letters == "" {
		return Cell{}, fmt.Errorf("%w: no column in %q", ErrMalformedAddress, s)
	}
	row, err := RowOf(s)
	if err != nil {
		if !errors.Is(err, ErrMalformedAddress) {
			err = fmt.Errorf("%w: %w", ErrMalformedAddress, err)
		}
		return Cell{}, err
	}
	col, err := NameToCol(letters)
	if err != nil {
		return Cell{}, fmt.Errorf("cell %q: %w", s, err)
	}
	return Cell{col: col, row: row}, nil
}

// ParseRange parses a reference like "A1:B2".
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return Range{}, fmt.Errorf("%w: expected reference of form A1:B2, got %q", ErrMalformedAddress, s)
	}
	start, err := ParseCell(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	end, err := ParseCell(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	return Range{start: start, end: end}, nil
}

// ParseAddress parses either a single cell or a range reference.
func ParseAddress(s string) (Address, error) {
	if strings.Contains(s, ":") {
		return ParseRange(s)
	}
	return ParseCell(s)
}

// ParseNamedRange parses a defined name's formula such as "'Sheet1'!$C$4:" or
// "Sheet1!$C$4:$D$5". Only the first column/row pair is read and it is used
// for both corners, so the result always covers a single cell.
func ParseNamedRange(name, definition string) (NamedRange, error) {
	def := strings.TrimPrefix(strings.TrimSpace(definition), "=")
	i := strings.LastIndexByte(def, '!')
	if i < 0 {
		return NamedRange{}, fmt.Errorf("%w: defined name %q: no sheet in %q", ErrMalformedAddress, name, definition)
	}
	sheet := strings.ReplaceAll(strings.Trim(def[:i], "'"), "''", "'")

	parts := strings.Split(def[i+1:], "$")
	if len(parts) < 3 {
		return NamedRange{}, fmt.Errorf("%w: defined name %q: expected absolute reference, got %q", ErrMalformedAddress, name, definition)
	}
	col, err := NameToCol(parts[1])
	if err != nil {
		return NamedRange{}, fmt.Errorf("defined name %q: %w", name, err)
	}
	digits := strings.TrimRight(parts[2], ":")
	row, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return NamedRange{}, fmt.Errorf("%w: defined name %q: %w: %q", ErrMalformedAddress, name, ErrMissingRowDigits, parts[2])
	}
	cell := Cell{col: col, row: RowIndex(row)}
	return NamedRange{Range: Range{start: cell, end: cell}, name: name, sheet: sheet}, nil
}

// shiftRow adds delta to r, stopping at 0.
func shiftRow(r RowIndex, delta int64) RowIndex {
	n := int64(r) + delta
	if n < 0 {
		return 0
	}
	return RowIndex(n)
}

func letterRun(s string) string {
	start := 0
	for start < len(s) && !isLetter(s[start]) {
		start++
	}
	end := start
	for end < len(s) && isLetter(s[end]) {
		end++
	}
	return s[start:end]
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
