package xlbind

import (
	"fmt"
	"slices"
)

// CellType represents the type of data stored in a cell.
type CellType int

const (
	CellBlank CellType = iota
	CellSharedString
	CellNumber
	CellBoolean
	CellFormula
	CellError
)

// String returns a human-readable name for the CellType.
func (ct CellType) String() string {
	switch ct {
	case CellBlank:
		return "Blank"
	case CellSharedString:
		return "SharedString"
	case CellNumber:
		return "Number"
	case CellBoolean:
		return "Boolean"
	case CellFormula:
		return "Formula"
	case CellError:
		return "Error"
	default:
		return "Unknown"
	}
}

// CellData is one populated cell of a sheet.
type CellData struct {
	Ref     string   // stored reference, e.g. "C7"
	Type    CellType // value type
	Value   string   // raw value: shared string index, number text, "1"/"0" for booleans
	Formula string   // formula without leading =
	StyleID int      // style ID carried through unchanged
}

// Address parses the stored reference.
func (cd *CellData) Address() (Cell, error) {
	return ParseCell(cd.Ref)
}

// IsBlank reports whether the cell holds no value and no formula.
func (cd *CellData) IsBlank() bool {
	return cd.Type == CellBlank && cd.Formula == ""
}

func (cd *CellData) clone() *CellData {
	c := *cd
	return &c
}

// Row is one row of a sheet. Cells are kept in column order.
type Row struct {
	Index  RowIndex
	Height float64 // 0 means the sheet default
	Cells  []*CellData
}

// NewRow creates an empty row.
func NewRow() *Row { return &Row{} }

// Cell returns the cell at col, or nil.
func (r *Row) Cell(col ColumnIndex) *CellData {
	for _, cd := range r.Cells {
		if c, err := cd.Address(); err == nil && c.Column() == col {
			return cd
		}
	}
	return nil
}

// AddCell adds an empty cell at col, keeping the cells in column order, and
// returns it. An existing cell at col is returned as is.
func (r *Row) AddCell(col ColumnIndex) *CellData {
	if cd := r.Cell(col); cd != nil {
		return cd
	}
	cd := &CellData{Ref: NewCell(col, r.Index).String()}
	i := slices.IndexFunc(r.Cells, func(x *CellData) bool {
		c, err := x.Address()
		return err == nil && c.Column() > col
	})
	if i < 0 {
		r.Cells = append(r.Cells, cd)
	} else {
		r.Cells = slices.Insert(r.Cells, i, cd)
	}
	return cd
}

func (r *Row) clone() *Row {
	c := &Row{Index: r.Index, Height: r.Height, Cells: make([]*CellData, len(r.Cells))}
	for i, cd := range r.Cells {
		c.Cells[i] = cd.clone()
	}
	return c
}

// setIndex renumbers the row and re-derives every cell reference from it.
func (r *Row) setIndex(idx RowIndex) error {
	for _, cd := range r.Cells {
		c, err := cd.Address()
		if err != nil {
			return fmt.Errorf("row %d: %w", r.Index, err)
		}
		cd.Ref = c.MoveToRow(idx).String()
	}
	r.Index = idx
	return nil
}
