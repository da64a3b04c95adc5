package xlbind

import "fmt"

// mergeRef pairs a merge reference with its parsed address.
type mergeRef struct {
	ref  string
	addr Address
}

func (s *Sheet) parsedMerges() ([]mergeRef, error) {
	out := make([]mergeRef, 0, len(s.MergeCells))
	for _, ref := range s.MergeCells {
		a, err := ParseAddress(ref)
		if err != nil {
			return nil, fmt.Errorf("merge %q on %s: %w", ref, s.Name, err)
		}
		out = append(out, mergeRef{ref: ref, addr: a})
	}
	return out, nil
}

// onRow reports whether the merge lies entirely within row r.
func (m mergeRef) onRow(r RowIndex) bool {
	return Match(m.addr,
		func(c Cell) bool { return c.Row() == r },
		func(rg Range) bool { return rg.Start().Row() == r && rg.End().Row() == r },
	)
}

// touches reports whether the merge covers any cell of row r.
func (m mergeRef) touches(r RowIndex) bool {
	return Match(m.addr,
		func(c Cell) bool { return c.Row() == r },
		func(rg Range) bool { return rg.Start().Row() <= r && r <= rg.End().Row() },
	)
}

// MergeCell adds a merge over topLeft:bottomRight.
func (s *Sheet) MergeCell(topLeft, bottomRight Cell) {
	s.MergeCells = append(s.MergeCells, NewRange(topLeft, bottomRight).String())
}

// mergesOnRow returns the merges lying entirely within row r.
func (s *Sheet) mergesOnRow(r RowIndex) ([]mergeRef, error) {
	all, err := s.parsedMerges()
	if err != nil {
		return nil, err
	}
	var out []mergeRef
	for _, m := range all {
		if m.onRow(r) {
			out = append(out, m)
		}
	}
	return out, nil
}
