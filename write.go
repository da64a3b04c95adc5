package xlbind

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// PagedArray is a block of rows to be laid out PageSize rows per sheet. The
// rows that do not fit go to copies of the sheet. A PageSize of 0 puts every
// row on one sheet.
type PagedArray struct {
	Data     [][]any
	PageSize int
}

// WriteValue writes v into the existing cell at c. Supported values are nil
// (clears the cell), strings, time.Time, Go numbers, HyperlinkValue, pointers
// to those and driver.Valuer implementations. Anything else, booleans
// included, fails with ErrUnsupportedValueType. Any formula on the
// cell is removed.
func (s *Sheet) WriteValue(c Cell, v any) error {
	cd, err := s.GetCell(c)
	if err != nil {
		return err
	}
	if hv, ok := v.(HyperlinkValue); ok {
		s.SetHyperlink(c, hv.URL, hv.Display)
		v = hv.String()
	}
	if err := s.assign(cd, v); err != nil {
		return fmt.Errorf("%s!%s: %w", s.Name, c, err)
	}
	return nil
}

func (s *Sheet) assign(cd *CellData, v any) error {
	if vr, ok := v.(driver.Valuer); ok {
		dv, err := vr.Value()
		if err != nil {
			return err
		}
		v = dv
	}
	cd.Formula = ""
	switch x := v.(type) {
	case nil:
		cd.Type, cd.Value = CellBlank, ""
		return nil
	case string:
		cd.Type, cd.Value = CellSharedString, strconv.Itoa(s.wb.sst.Intern(x))
		return nil
	case []byte:
		cd.Type, cd.Value = CellSharedString, strconv.Itoa(s.wb.sst.Intern(string(x)))
		return nil
	case time.Time:
		serial, err := TimeToSerial(x, s.wb.date1904)
		if err != nil {
			return err
		}
		cd.Type, cd.Value = CellNumber, strconv.FormatFloat(serial, 'f', -1, 64)
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return s.assign(cd, nil)
		}
		return s.assign(cd, rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		cd.Type, cd.Value = CellNumber, strconv.FormatInt(rv.Int(), 10)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		cd.Type, cd.Value = CellNumber, strconv.FormatUint(rv.Uint(), 10)
		return nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v", ErrUnsupportedValueType, f)
		}
		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}
		cd.Type, cd.Value = CellNumber, strconv.FormatFloat(f, 'f', -1, bits)
		return nil
	case reflect.String:
		return s.assign(cd, rv.String())
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedValueType, v)
}

// ValueAt reads the cell at c back as nil, string, float64 or bool. Formula
// cells return their cached result.
func (s *Sheet) ValueAt(c Cell) (any, error) {
	cd, err := s.GetCell(c)
	if err != nil {
		return nil, err
	}
	switch cd.Type {
	case CellBlank:
		return nil, nil
	case CellSharedString:
		i, err := strconv.Atoi(cd.Value)
		if err != nil {
			return nil, fmt.Errorf("%s!%s: shared string index %q: %w", s.Name, c, cd.Value, err)
		}
		text, ok := s.wb.sst.Get(i)
		if !ok {
			return nil, fmt.Errorf("%s!%s: shared string index %d out of range", s.Name, c, i)
		}
		return text, nil
	case CellNumber:
		return strconv.ParseFloat(cd.Value, 64)
	case CellBoolean:
		return cd.Value == "1" || cd.Value == "TRUE" || cd.Value == "true", nil
	}
	if f, err := strconv.ParseFloat(cd.Value, 64); err == nil {
		return f, nil
	}
	return cd.Value, nil
}

// WriteBlock lays rows out from the start of anchor: each value goes one
// column further (MoveLeft) and each row one row down, back at the anchor
// column. The anchor row is copied so the first page has pageSize template
// rows, and later pages as many as they fill. When a page of pageSize rows is full and data remains, the sheet as it
// was before the write is copied to "<sheet>_<page>" and the next page starts
// at the anchor of the copy. A pageSize of 0 means a single page.
func (wb *Workbook) WriteBlock(anchor NamedRange, rows [][]any, pageSize int) error {
	if pageSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	if len(rows) == 0 {
		return nil
	}
	if pageSize == 0 {
		pageSize = len(rows)
	}
	sheet, err := wb.Sheet(anchor.SheetName())
	if err != nil {
		return fmt.Errorf("block %q: %w", anchor.Name(), err)
	}
	template := sheet.clone()
	start := anchor.Start()

	if err := sheet.CopyRowNTimes(start.Row(), pageSize); err != nil {
		return fmt.Errorf("block %q: %w", anchor.Name(), err)
	}
	cur := start
	page := 0
	for i, values := range rows {
		if i > 0 && i%pageSize == 0 {
			page++
			sheet, err = wb.addClone(template, fmt.Sprintf("%s_%d", template.Name, page))
			if err != nil {
				return fmt.Errorf("block %q page %d: %w", anchor.Name(), page, err)
			}
			if err := sheet.CopyRowNTimes(start.Row(), min(pageSize, len(rows)-i)); err != nil {
				return fmt.Errorf("block %q page %d: %w", anchor.Name(), page, err)
			}
			cur = start
			wb.log.Debug("block page", "name", anchor.Name(), "sheet", sheet.Name, "page", page)
		}
		for _, v := range values {
			if err := sheet.WriteValue(cur, v); err != nil {
				return fmt.Errorf("block %q: %w", anchor.Name(), err)
			}
			cur = cur.MoveLeft()
		}
		cur = NewCell(start.Column(), cur.Row()).MoveDown()
	}
	return nil
}

// WriteRow writes values across one row from the start of anchor.
func (wb *Workbook) WriteRow(anchor NamedRange, values []any) error {
	return wb.WriteBlock(anchor, [][]any{values}, 1)
}
