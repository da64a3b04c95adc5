package xlbind

import "fmt"

// Table is a table definition of a sheet.
type Table struct {
	ID                int // workbook-unique
	Name              string
	DisplayName       string
	Ref               string // "A1:D5", header row included
	StyleName         string
	ShowHeaderRow     bool
	ShowRowStripes    bool
	ShowColumnStripes bool
	ShowFirstColumn   bool
	ShowLastColumn    bool
}

func (t *Table) clone() *Table {
	c := *t
	return &c
}

// AddTable attaches t to the sheet. A zero ID is replaced with a fresh
// workbook-unique one and an empty DisplayName defaults to Name.
func (s *Sheet) AddTable(t *Table) error {
	if _, err := ParseRange(t.Ref); err != nil {
		return fmt.Errorf("table %q: %w", t.Name, err)
	}
	if t.ID == 0 {
		t.ID = s.wb.allocTableID()
	} else if t.ID > s.wb.nextTableID {
		s.wb.nextTableID = t.ID
	}
	if t.DisplayName == "" {
		t.DisplayName = t.Name
	}
	s.Tables = append(s.Tables, t)
	return nil
}

// renameCopiedTables gives every table of a freshly cloned sheet a new ID and
// the name CopiedTable<ID>, skipping names already used in the workbook.
func (wb *Workbook) renameCopiedTables(s *Sheet) {
	for _, t := range s.Tables {
		for {
			t.ID = wb.allocTableID()
			name := fmt.Sprintf("CopiedTable%d", t.ID)
			if !wb.tableNameTaken(name) {
				t.Name, t.DisplayName = name, name
				break
			}
		}
	}
}
