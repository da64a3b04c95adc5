package xlbind

// SharedStrings is the workbook's deduplicated text table. The zero value is
// ready to use.
type SharedStrings struct {
	items []string
	index map[string]int
}

// Intern returns the index of text, adding it when first seen.
func (s *SharedStrings) Intern(text string) int {
	if i, ok := s.index[text]; ok {
		return i
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	i := len(s.items)
	s.items = append(s.items, text)
	s.index[text] = i
	return i
}

// Get returns the text at index i.
func (s *SharedStrings) Get(i int) (string, bool) {
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	return s.items[i], true
}

// Len returns the number of distinct strings.
func (s *SharedStrings) Len() int { return len(s.items) }
