package xlbind

import (
	"errors"
	"fmt"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Binding will fail at runtime
	SeverityWarning                 // Binding may produce unexpected results
)

// ValidationIssue represents a single problem found during template validation.
type ValidationIssue struct {
	Severity Severity
	Name     string // defined name
	Message  string
}

// String formats the issue as "[ERROR] Total: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Name, v.Message)
}

// Validate checks the defined names of a template without data. A non-nil
// error means the template could not be opened at all.
func Validate(templatePath string, opts ...Option) ([]ValidationIssue, error) {
	wb, f, err := OpenWorkbook(templatePath, opts...)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return wb.Validate(), nil
}

// Validate reports defined names that cannot be bound: unparsable
// definitions, unknown sheets, keys that do not compile and anchors without a
// cell to write into.
func (wb *Workbook) Validate() []ValidationIssue {
	var issues []ValidationIssue
	add := func(sev Severity, name, format string, args ...any) {
		issues = append(issues, ValidationIssue{Severity: sev, Name: name, Message: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]bool)
	for _, dn := range wb.names {
		if skipDefinedName(dn.Name) {
			continue
		}
		nr, err := ParseNamedRange(dn.Name, dn.RefersTo)
		if err != nil {
			add(SeverityError, dn.Name, "cannot parse definition %q: %v", dn.RefersTo, err)
			continue
		}
		key := bindingKey(dn.Name)
		if rootIdent(key) != key {
			if err := wb.opts.evaluator.Check(key); err != nil {
				add(SeverityError, dn.Name, "key is not a valid expression: %v", err)
			}
		}
		sheet, err := wb.Sheet(nr.SheetName())
		if err != nil {
			add(SeverityError, dn.Name, "refers to missing sheet %q", nr.SheetName())
			continue
		}
		if _, err := sheet.GetCell(nr.Start()); errors.Is(err, ErrCellNotFound) {
			add(SeverityWarning, dn.Name, "anchor %s!%s has no cell; give it a value or a style", sheet.Name, nr.CellName())
		}
		anchor := nr.String()
		if seen[anchor] && key == dn.Name {
			add(SeverityWarning, dn.Name, "anchor %s is shared with another name", anchor)
		}
		seen[anchor] = true
	}
	return issues
}
