package xlbind

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Workbook is the in-memory model of a spreadsheet package: its sheets, the
// shared string table and the defined names.
//
// A Workbook is not safe for concurrent use.
type Workbook struct {
	sheets      []*Sheet
	sst         SharedStrings
	names       []DefinedName
	date1904    bool
	nextTableID int

	opts *Options
	log  *slog.Logger
}

// DefinedName is a workbook-level name such as a template placeholder.
type DefinedName struct {
	Name     string
	RefersTo string // e.g. "'Sheet1'!$C$4:$C$4"
	Scope    string // sheet name, or empty for workbook scope
}

// NewWorkbook creates an empty workbook.
func NewWorkbook(opts ...Option) *Workbook {
	return newWorkbook(applyOptions(opts))
}

func newWorkbook(o *Options) *Workbook {
	return &Workbook{opts: o, log: o.logger}
}

// AddSheet appends an empty sheet.
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if _, err := wb.Sheet(name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrSheetExists, name)
	}
	s := newSheet(wb, name)
	wb.sheets = append(wb.sheets, s)
	return s, nil
}

// Sheet returns the sheet with the given name.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	for _, s := range wb.sheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
}

// Sheets returns the sheets in workbook order.
func (wb *Workbook) Sheets() []*Sheet { return wb.sheets }

// ActiveSheet returns the sheet carrying the active marker, or nil.
func (wb *Workbook) ActiveSheet() *Sheet {
	for _, s := range wb.sheets {
		if s.Active {
			return s
		}
	}
	return nil
}

// SharedStrings returns the workbook's shared string table.
func (wb *Workbook) SharedStrings() *SharedStrings { return &wb.sst }

// Date1904 reports whether dates use the 1904 date system.
func (wb *Workbook) Date1904() bool { return wb.date1904 }

// SetDate1904 selects the 1904 date system for subsequent date writes.
func (wb *Workbook) SetDate1904(v bool) { wb.date1904 = v }

// AddDefinedName registers a defined name.
func (wb *Workbook) AddDefinedName(dn DefinedName) {
	wb.names = append(wb.names, dn)
}

// DefinedNames returns all defined names in workbook order.
func (wb *Workbook) DefinedNames() []DefinedName { return wb.names }

// NamedRange resolves a defined name to its anchor. Names compare
// case-insensitively.
func (wb *Workbook) NamedRange(name string) (NamedRange, error) {
	for _, dn := range wb.names {
		if strings.EqualFold(dn.Name, name) {
			return ParseNamedRange(dn.Name, dn.RefersTo)
		}
	}
	return NamedRange{}, fmt.Errorf("%w: %q", ErrNameNotFound, name)
}

func (wb *Workbook) allocTableID() int {
	wb.nextTableID++
	return wb.nextTableID
}

func (wb *Workbook) tableNameTaken(name string) bool {
	for _, s := range wb.sheets {
		for _, t := range s.Tables {
			if strings.EqualFold(t.Name, name) || strings.EqualFold(t.DisplayName, name) {
				return true
			}
		}
	}
	return false
}

// Sheet is one named grid of the workbook. Rows are kept in strictly
// increasing index order.
//
// Code that edits Rows or the cells of a row directly must call Invalidate
// before the next GetCell.
type Sheet struct {
	Name       string
	Rows       []*Row
	MergeCells []string // "A1:B2"
	Hyperlinks []*Hyperlink
	Tables     []*Table
	ColWidths  map[ColumnIndex]float64
	Active     bool

	wb     *Workbook
	index  cellIndex
	stored *storedState // what the package file holds for this sheet
	source string       // sheet this one was cloned from
}

func newSheet(wb *Workbook, name string) *Sheet {
	return &Sheet{Name: name, ColWidths: make(map[ColumnIndex]float64), wb: wb}
}

// Workbook returns the owning workbook.
func (s *Sheet) Workbook() *Workbook { return s.wb }

func (s *Sheet) logger() *slog.Logger {
	if s.wb == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.wb.log
}

// Invalidate marks the cell index stale.
func (s *Sheet) Invalidate() { s.index.invalidate() }

// searchRow returns the position of the row with index at, or where it would
// be inserted.
func (s *Sheet) searchRow(at RowIndex) (int, bool) {
	return slices.BinarySearchFunc(s.Rows, at, func(r *Row, t RowIndex) int {
		return cmp.Compare(r.Index, t)
	})
}

// Row returns the row with index at.
func (s *Sheet) Row(at RowIndex) (*Row, bool) {
	i, ok := s.searchRow(at)
	if !ok {
		return nil, false
	}
	return s.Rows[i], true
}

// LastRowIndex returns the index of the last row, or 0 for an empty sheet.
func (s *Sheet) LastRowIndex() RowIndex {
	if len(s.Rows) == 0 {
		return 0
	}
	return s.Rows[len(s.Rows)-1].Index
}

// GetCell returns the cell at c. Missing cells are never created.
func (s *Sheet) GetCell(c Cell) (*CellData, error) {
	cd, ok := s.index.lookup(s.Rows, c)
	if !ok {
		return nil, fmt.Errorf("%w: %s!%s", ErrCellNotFound, s.Name, c)
	}
	return cd, nil
}

// EnsureCell returns the cell at c, creating its row and the cell when
// missing. It is meant for building templates; writes go through GetCell.
func (s *Sheet) EnsureCell(c Cell) *CellData {
	i, ok := s.searchRow(c.Row())
	if !ok {
		s.Rows = slices.Insert(s.Rows, i, &Row{Index: c.Row()})
	}
	r := s.Rows[i]
	if cd := r.Cell(c.Column()); cd != nil {
		return cd
	}
	s.index.invalidate()
	return r.AddCell(c.Column())
}
