package xlbind

// cellIndex maps column → row → cell for one sheet. A nil map means the index
// is stale and is rebuilt on the next lookup.
type cellIndex struct {
	cells  map[ColumnIndex]map[RowIndex]*CellData
	builds int
}

func (ix *cellIndex) invalidate() { ix.cells = nil }

func (ix *cellIndex) stale() bool { return ix.cells == nil }

// rebuild indexes every cell of rows. The first cell seen for a position wins.
func (ix *cellIndex) rebuild(rows []*Row) {
	cells := make(map[ColumnIndex]map[RowIndex]*CellData)
	for _, r := range rows {
		for _, cd := range r.Cells {
			c, err := cd.Address()
			if err != nil {
				continue
			}
			byRow, ok := cells[c.Column()]
			if !ok {
				byRow = make(map[RowIndex]*CellData)
				cells[c.Column()] = byRow
			}
			if _, dup := byRow[c.Row()]; !dup {
				byRow[c.Row()] = cd
			}
		}
	}
	ix.cells = cells
	ix.builds++
}

func (ix *cellIndex) lookup(rows []*Row, c Cell) (*CellData, bool) {
	if ix.stale() {
		ix.rebuild(rows)
	}
	cd, ok := ix.cells[c.Column()][c.Row()]
	return cd, ok
}
