package xlbind

import (
	"fmt"
	"reflect"
	"strings"
)

type binding struct {
	key    string
	anchor NamedRange
	value  any
}

// Bind writes the data of ctx into the workbook's defined names. Each name is
// looked up in ctx with any "?N" instance suffix removed; names without data
// are left alone. Print areas and built-in names are skipped.
//
// Values are written by shape: a PagedArray or a slice of rows as a block, a
// flat slice across one row, anything else into the anchor cell. Single
// values go in first so sheets copied for later pages carry them.
func (wb *Workbook) Bind(ctx *Context) error {
	var scalars, blocks []binding
	for _, dn := range wb.names {
		if skipDefinedName(dn.Name) {
			continue
		}
		key := bindingKey(dn.Name)
		v, ok, err := ctx.Lookup(key)
		if err != nil {
			return fmt.Errorf("bind %q: %w", dn.Name, err)
		}
		if !ok {
			wb.log.Debug("unbound name", "name", dn.Name)
			continue
		}
		anchor, err := ParseNamedRange(dn.Name, dn.RefersTo)
		if err != nil {
			return fmt.Errorf("bind %q: %w", dn.Name, err)
		}
		b := binding{key: key, anchor: anchor, value: v}
		if isBlockValue(v) {
			blocks = append(blocks, b)
		} else {
			scalars = append(scalars, b)
		}
	}

	for _, b := range scalars {
		sheet, err := wb.Sheet(b.anchor.SheetName())
		if err != nil {
			return fmt.Errorf("bind %q: %w", b.anchor.Name(), err)
		}
		if err := sheet.WriteValue(b.anchor.Start(), b.value); err != nil {
			return fmt.Errorf("bind %q: %w", b.anchor.Name(), err)
		}
	}
	for _, b := range blocks {
		if err := wb.bindBlock(b); err != nil {
			return fmt.Errorf("bind %q: %w", b.anchor.Name(), err)
		}
	}
	wb.log.Debug("bind", "values", len(scalars), "blocks", len(blocks))
	return nil
}

func (wb *Workbook) bindBlock(b binding) error {
	switch x := b.value.(type) {
	case PagedArray:
		return wb.WriteBlock(b.anchor, x.Data, x.PageSize)
	case *PagedArray:
		return wb.WriteBlock(b.anchor, x.Data, x.PageSize)
	}
	rv := reflect.ValueOf(b.value)
	if isRows(rv) {
		rows := make([][]any, rv.Len())
		for i := range rows {
			rows[i] = toValues(elem(rv.Index(i)))
		}
		return wb.WriteBlock(b.anchor, rows, wb.opts.pageSizes[b.key])
	}
	return wb.WriteRow(b.anchor, toValues(rv))
}

func skipDefinedName(name string) bool {
	return strings.Contains(name, "Print_Area") || strings.HasPrefix(name, "_xlnm")
}

// bindingKey strips the "?N" suffix that lets one key feed several names.
func bindingKey(name string) string {
	key, _, _ := strings.Cut(name, "?")
	return key
}

func isBlockValue(v any) bool {
	switch v.(type) {
	case PagedArray, *PagedArray:
		return true
	case nil:
		return false
	}
	return isList(reflect.ValueOf(v))
}

// isList reports whether rv is a slice or array other than a byte slice.
func isList(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// isRows reports whether every element of the list rv is itself a list.
func isRows(rv reflect.Value) bool {
	if rv.Len() == 0 {
		return false
	}
	for i := range rv.Len() {
		if !isList(elem(rv.Index(i))) {
			return false
		}
	}
	return true
}

// elem unwraps interface values.
func elem(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv
}

func toValues(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
