package xlbind

import (
	"fmt"
	"strings"
)

// Describe opens a template and returns a human-readable summary of its
// sheets, reference-bearing structures and defined names.
// Useful for debugging templates during development.
func Describe(templatePath string, opts ...Option) (string, error) {
	wb, f, err := OpenWorkbook(templatePath, opts...)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", templatePath)
	wb.describe(&b)
	return b.String(), nil
}

// Describe returns the same summary for an in-memory workbook.
func (wb *Workbook) Describe() string {
	var b strings.Builder
	wb.describe(&b)
	return b.String()
}

func (wb *Workbook) describe(b *strings.Builder) {
	for _, s := range wb.sheets {
		fmt.Fprintf(b, "Sheet %q", s.Name)
		if s.Active {
			b.WriteString(" (active)")
		}
		b.WriteByte('\n')
		if len(s.Rows) > 0 {
			fmt.Fprintf(b, "  Rows: %d (%d..%d)\n", len(s.Rows), s.Rows[0].Index, s.LastRowIndex())
		}
		if len(s.MergeCells) > 0 {
			fmt.Fprintf(b, "  Merges: %s\n", strings.Join(s.MergeCells, " "))
		}
		for _, h := range s.Hyperlinks {
			kind := "location"
			if h.External {
				kind = "external"
			}
			fmt.Fprintf(b, "  Hyperlink: %s -> %s (%s)\n", h.Ref, h.Target, kind)
		}
		for _, t := range s.Tables {
			fmt.Fprintf(b, "  Table: %s #%d %s\n", t.Name, t.ID, t.Ref)
		}
	}

	if len(wb.names) == 0 {
		return
	}
	b.WriteString("Defined names:\n")
	for _, dn := range wb.names {
		if skipDefinedName(dn.Name) {
			fmt.Fprintf(b, "  %s (skipped)\n", dn.Name)
			continue
		}
		nr, err := ParseNamedRange(dn.Name, dn.RefersTo)
		if err != nil {
			fmt.Fprintf(b, "  %s = %s (unparsable)\n", dn.Name, dn.RefersTo)
			continue
		}
		fmt.Fprintf(b, "  %s -> %s!%s", dn.Name, nr.SheetName(), nr.CellName())
		if key := bindingKey(dn.Name); key != dn.Name {
			fmt.Fprintf(b, " key=%q", key)
		}
		b.WriteByte('\n')
	}
}
