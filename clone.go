package xlbind

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// clone returns a deep copy of the sheet's structure. The copy belongs to the
// same workbook but is not registered in it.
func (s *Sheet) clone() *Sheet {
	c := &Sheet{
		Name:       s.Name,
		Rows:       make([]*Row, len(s.Rows)),
		MergeCells: slices.Clone(s.MergeCells),
		ColWidths:  maps.Clone(s.ColWidths),
		Active:     s.Active,
		wb:         s.wb,
		source:     s.source,
	}
	for i, r := range s.Rows {
		c.Rows[i] = r.clone()
	}
	for _, h := range s.Hyperlinks {
		c.Hyperlinks = append(c.Hyperlinks, h.clone())
	}
	for _, t := range s.Tables {
		c.Tables = append(c.Tables, t.clone())
	}
	if c.ColWidths == nil {
		c.ColWidths = make(map[ColumnIndex]float64)
	}
	return c
}

// CloneSheet copies the sheet named source to a new sheet named newName,
// appended after the last sheet. Tables of the copy get new IDs and names and
// the copy is never the active sheet. On Flush the copy also takes the page
// setup, views, data validations and conditional formats of source.
func (wb *Workbook) CloneSheet(source, newName string) (*Sheet, error) {
	src, err := wb.Sheet(source)
	if err != nil {
		return nil, err
	}
	return wb.addClone(src, newName)
}

func (wb *Workbook) addClone(src *Sheet, name string) (*Sheet, error) {
	if _, err := wb.Sheet(name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrSheetExists, name)
	}
	c := src.clone()
	c.Name = name
	c.Active = false
	c.source = cmp.Or(src.source, src.Name)
	wb.renameCopiedTables(c)
	wb.sheets = append(wb.sheets, c)
	wb.log.Debug("clone sheet", "source", src.Name, "sheet", name, "tables", len(c.Tables))
	return c, nil
}
