package xlbind

import (
	"fmt"
	"slices"
)

// InsertRow places row at index at. When a row already occupies at, it and
// every row below move down by one together with the merges, hyperlinks and
// tables at or below at; ranges that start above at and reach it grow by one
// row. A nil row inserts an empty one.
func (s *Sheet) InsertRow(at RowIndex, row *Row) (*Row, error) {
	if row == nil {
		row = NewRow()
	}
	i, occupied := s.searchRow(at)
	if occupied {
		for _, r := range s.Rows[i:] {
			if err := r.setIndex(r.Index + 1); err != nil {
				return nil, err
			}
		}
		if err := s.shiftRefs(at, 1); err != nil {
			return nil, err
		}
	}
	if err := row.setIndex(at); err != nil {
		return nil, err
	}
	s.Rows = slices.Insert(s.Rows, i, row)
	s.index.invalidate()
	s.logger().Debug("insert row", "sheet", s.Name, "at", at, "shifted", occupied)
	return row, nil
}

// AppendRow adds row after the last row. When at does not lie past the last
// row it falls back to InsertRow so the row order is kept.
func (s *Sheet) AppendRow(at RowIndex, row *Row) (*Row, error) {
	if at <= s.LastRowIndex() {
		return s.InsertRow(at, row)
	}
	if row == nil {
		row = NewRow()
	}
	if err := row.setIndex(at); err != nil {
		return nil, err
	}
	s.Rows = append(s.Rows, row)
	s.index.invalidate()
	return row, nil
}

// CloneRow copies the row at source, together with the merges lying entirely
// within it, to target.
func (s *Sheet) CloneRow(source, target RowIndex) (*Row, error) {
	src, ok := s.Row(source)
	if !ok {
		return nil, fmt.Errorf("%w: %s row %d", ErrRowNotFound, s.Name, source)
	}
	merges, err := s.mergesOnRow(source)
	if err != nil {
		return nil, err
	}
	row, err := s.AppendRow(target, src.clone())
	if err != nil {
		return nil, err
	}
	for _, m := range merges {
		s.MergeCells = append(s.MergeCells, m.addr.WithRow(target).String())
	}
	s.logger().Debug("clone row", "sheet", s.Name, "source", source, "target", target, "merges", len(merges))
	return row, nil
}

// CopyRowNTimes makes copies-1 clones of row directly below it, so that the
// rows row..row+copies-1 all carry the same content.
func (s *Sheet) CopyRowNTimes(row RowIndex, copies int) error {
	for i := 1; i < copies; i++ {
		if _, err := s.CloneRow(row, row+RowIndex(i)); err != nil {
			return err
		}
	}
	s.index.rebuild(s.Rows)
	return nil
}

// DeleteRow removes the row at index at and moves the rows below it up.
// Merges covering at are removed, hyperlinks on at are removed, and other
// ranges reaching at shrink by one row. Tables lying on at alone are removed.
func (s *Sheet) DeleteRow(at RowIndex) error {
	i, ok := s.searchRow(at)
	if !ok {
		return fmt.Errorf("%w: %s row %d", ErrRowNotFound, s.Name, at)
	}

	merges, err := s.parsedMerges()
	if err != nil {
		return err
	}
	s.MergeCells = s.MergeCells[:0]
	for _, m := range merges {
		if !m.touches(at) {
			s.MergeCells = append(s.MergeCells, m.ref)
		}
	}
	s.MergeCells = dropEmpty(s.MergeCells)

	var failed error
	s.Hyperlinks = dropEmpty(removeWhere(s.Hyperlinks, func(h *Hyperlink) bool {
		gone, err := onlyOnRow(h.Ref, at)
		if err != nil && failed == nil {
			failed = fmt.Errorf("hyperlink on %s: %w", s.Name, err)
		}
		return gone
	}))
	s.Tables = dropEmpty(removeWhere(s.Tables, func(t *Table) bool {
		gone, err := onlyOnRow(t.Ref, at)
		if err != nil && failed == nil {
			failed = fmt.Errorf("table %q: %w", t.Name, err)
		}
		return gone
	}))
	if failed != nil {
		return failed
	}

	s.Rows = slices.Delete(s.Rows, i, i+1)
	for _, r := range s.Rows[i:] {
		if err := r.setIndex(r.Index - 1); err != nil {
			return err
		}
	}
	if err := s.shiftRefs(at, -1); err != nil {
		return err
	}
	s.index.invalidate()
	s.logger().Debug("delete row", "sheet", s.Name, "at", at)
	return nil
}

// shiftRefs rewrites every row-bearing reference of the sheet for a row
// inserted (delta 1) or removed (delta -1) at row at.
func (s *Sheet) shiftRefs(at RowIndex, delta int64) error {
	for i, ref := range s.MergeCells {
		moved, err := moveRows(ref, at, delta)
		if err != nil {
			return fmt.Errorf("merge on %s: %w", s.Name, err)
		}
		s.MergeCells[i] = moved
	}
	for _, h := range s.Hyperlinks {
		moved, err := moveRows(h.Ref, at, delta)
		if err != nil {
			return fmt.Errorf("hyperlink on %s: %w", s.Name, err)
		}
		h.Ref = moved
	}
	for _, t := range s.Tables {
		moved, err := moveRows(t.Ref, at, delta)
		if err != nil {
			return fmt.Errorf("table %q: %w", t.Name, err)
		}
		t.Ref = moved
	}
	return nil
}

// moveRows re-derives ref after rows change at row at. On insert (delta > 0)
// everything starting at or below at moves; on delete only what starts below
// at moves. A range that starts above the moving part but reaches it has only
// its end moved.
func moveRows(ref string, at RowIndex, delta int64) (string, error) {
	a, err := ParseAddress(ref)
	if err != nil {
		return "", err
	}
	moves := func(r RowIndex) bool {
		if delta > 0 {
			return r >= at
		}
		return r > at
	}
	return Match(a,
		func(c Cell) string {
			if moves(c.Row()) {
				c = c.MoveToRow(shiftRow(c.Row(), delta))
			}
			return c.String()
		},
		func(r Range) string {
			switch {
			case moves(r.Start().Row()):
				r = r.MoveToRow(shiftRow(r.Start().Row(), delta))
			case r.End().Row() >= at:
				r = NewRange(r.Start(), r.End().MoveToRow(shiftRow(r.End().Row(), delta)))
			}
			return r.String()
		},
	), nil
}

// onlyOnRow reports whether ref lies entirely within row r.
func onlyOnRow(ref string, r RowIndex) (bool, error) {
	a, err := ParseAddress(ref)
	if err != nil {
		return false, err
	}
	return mergeRef{ref: ref, addr: a}.onRow(r), nil
}
