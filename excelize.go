package xlbind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultRowHeight = 15.0

// maxDimensionCells bounds the area of a declared sheet dimension that is
// scanned for styled or linked positions past the last value.
const maxDimensionCells = 1 << 20

// storedState records what the package file holds for a sheet, so that Flush
// can clear positions the model no longer uses.
type storedState struct {
	cells   map[string]bool // reference → had a formula
	links   []string
	tables  []string
	heights map[RowIndex]bool // rows with a custom height
}

// ReadWorkbook loads the model of every sheet of f: cells with their values,
// formulas and style IDs, row heights, column widths, merges, hyperlinks,
// tables, defined names, the active sheet and the date system.
//
// A position is loaded when it has a value, a formula, a style or a link.
// Positions are scanned up to the last value, merge and table, and up to the
// declared sheet dimension unless that covers more than maxDimensionCells.
// Reading styles makes excelize materialize the scanned cells in f.
func ReadWorkbook(f *excelize.File, opts ...Option) (*Workbook, error) {
	return readWorkbook(f, applyOptions(opts))
}

func readWorkbook(f *excelize.File, o *Options) (*Workbook, error) {
	wb := newWorkbook(o)
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	activeName := f.GetSheetName(f.GetActiveSheetIndex())
	for _, name := range f.GetSheetList() {
		s, err := wb.AddSheet(name)
		if err != nil {
			return nil, err
		}
		s.Active = name == activeName
		if err := wb.readSheet(f, s); err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
	}
	for _, dn := range f.GetDefinedName() {
		scope := dn.Scope
		if scope == "Workbook" {
			scope = ""
		}
		wb.AddDefinedName(DefinedName{Name: dn.Name, RefersTo: dn.RefersTo, Scope: scope})
	}
	wb.log.Debug("read workbook", "sheets", len(wb.sheets), "names", len(wb.names), "date1904", wb.date1904)
	return wb, nil
}

// OpenWorkbook opens an xlsx file and loads its model. The caller closes the
// returned file.
func OpenWorkbook(path string, opts ...Option) (*Workbook, *excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	wb, err := ReadWorkbook(f, opts...)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return wb, f, nil
}

// sheetBounds is the last row and the number of columns worth scanning.
type sheetBounds struct {
	rows RowIndex
	cols ColumnIndex
}

func (b *sheetBounds) include(a Address) {
	end := Match(a,
		func(c Cell) Cell { return c },
		func(r Range) Cell { return r.End() },
	)
	b.rows = max(b.rows, end.Row())
	b.cols = max(b.cols, end.Column()+1)
}

func (wb *Workbook) readSheet(f *excelize.File, s *Sheet) error {
	st := &storedState{cells: make(map[string]bool), heights: make(map[RowIndex]bool)}
	s.stored = st

	rows, err := f.GetRows(s.Name, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	var bounds sheetBounds
	bounds.rows = RowIndex(len(rows))
	for _, r := range rows {
		bounds.cols = max(bounds.cols, ColumnIndex(len(r)))
	}
	if dim, err := f.GetSheetDimension(s.Name); err == nil && dim != "" {
		if a, err := ParseAddress(strings.ReplaceAll(dim, "$", "")); err == nil {
			var declared sheetBounds
			declared.include(a)
			if uint64(declared.rows)*uint64(declared.cols) <= maxDimensionCells {
				bounds.include(a)
			} else {
				wb.log.Warn("ignore sheet dimension", "sheet", s.Name, "dimension", dim)
			}
		}
	}

	merges, err := f.GetMergeCells(s.Name)
	if err != nil {
		return fmt.Errorf("read merges: %w", err)
	}
	for _, mc := range merges {
		ref := mc.GetStartAxis() + ":" + mc.GetEndAxis()
		a, err := ParseRange(ref)
		if err != nil {
			return err
		}
		bounds.include(a)
		s.MergeCells = append(s.MergeCells, ref)
	}

	tables, err := f.GetTables(s.Name)
	if err != nil {
		return fmt.Errorf("read tables: %w", err)
	}
	for _, t := range tables {
		tbl := &Table{
			Name:              t.Name,
			Ref:               t.Range,
			StyleName:         t.StyleName,
			ShowHeaderRow:     t.ShowHeaderRow == nil || *t.ShowHeaderRow,
			ShowRowStripes:    t.ShowRowStripes == nil || *t.ShowRowStripes,
			ShowColumnStripes: t.ShowColumnStripes,
			ShowFirstColumn:   t.ShowFirstColumn,
			ShowLastColumn:    t.ShowLastColumn,
		}
		if err := s.AddTable(tbl); err != nil {
			return err
		}
		a, _ := ParseRange(t.Range)
		bounds.include(a)
		st.tables = append(st.tables, t.Name)
	}

	for row := RowIndex(1); row <= bounds.rows; row++ {
		for col := ColumnIndex(0); col < bounds.cols; col++ {
			if err := wb.readCell(f, s, NewCell(col, row)); err != nil {
				return err
			}
		}
	}

	def := defaultRowHeight
	if props, err := f.GetSheetProps(s.Name); err == nil && props.DefaultRowHeight != nil && *props.DefaultRowHeight > 0 {
		def = *props.DefaultRowHeight
	}
	for _, r := range s.Rows {
		if h, err := f.GetRowHeight(s.Name, int(r.Index)); err == nil && h != def {
			r.Height = h
			st.heights[r.Index] = true
		}
	}
	for col := ColumnIndex(0); col < bounds.cols; col++ {
		if w, err := f.GetColWidth(s.Name, ColToName(col)); err == nil {
			s.ColWidths[col] = w
		}
	}
	s.index.invalidate()
	return nil
}

func (wb *Workbook) readCell(f *excelize.File, s *Sheet, c Cell) error {
	ref := c.String()
	val, err := f.GetCellValue(s.Name, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("read %s: %w", ref, err)
	}
	formula, err := f.GetCellFormula(s.Name, ref)
	if err != nil {
		return fmt.Errorf("read formula %s: %w", ref, err)
	}
	linked, target, err := f.GetCellHyperLink(s.Name, ref)
	if err != nil {
		return fmt.Errorf("read hyperlink %s: %w", ref, err)
	}
	style, err := f.GetCellStyle(s.Name, ref)
	if err != nil {
		return fmt.Errorf("read style %s: %w", ref, err)
	}
	if val == "" && formula == "" && style == 0 && !linked {
		return nil
	}

	cd := s.EnsureCell(c)
	cd.StyleID = style
	if linked {
		s.Hyperlinks = append(s.Hyperlinks, &Hyperlink{Ref: ref, Target: target, External: isExternalTarget(target)})
		s.stored.links = append(s.stored.links, ref)
	}
	s.stored.cells[ref] = formula != ""
	if formula != "" {
		cd.Type, cd.Formula, cd.Value = CellFormula, formula, val
		return nil
	}
	if val == "" {
		return nil
	}

	ct, err := f.GetCellType(s.Name, ref)
	if err != nil {
		return fmt.Errorf("read type %s: %w", ref, err)
	}
	switch ct {
	case excelize.CellTypeBool:
		cd.Type, cd.Value = CellBoolean, "0"
		if b, err := strconv.ParseBool(val); err == nil && b {
			cd.Value = "1"
		}
	case excelize.CellTypeError:
		cd.Type, cd.Value = CellError, val
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		cd.Type, cd.Value = CellSharedString, strconv.Itoa(wb.sst.Intern(val))
	default:
		if _, err := strconv.ParseFloat(val, 64); err != nil {
			cd.Type, cd.Value = CellSharedString, strconv.Itoa(wb.sst.Intern(val))
			return nil
		}
		cd.Type, cd.Value = CellNumber, val
	}
	return nil
}

// Flush writes the model into f. Positions, links and tables the model no
// longer has are cleared, sheets created by cloning are added, and the active
// sheet, the date system and missing defined names are set. Flushing twice
// writes the same content.
func (wb *Workbook) Flush(f *excelize.File) error {
	for _, s := range wb.sheets {
		if s.stored == nil {
			continue
		}
		for _, name := range s.stored.tables {
			if err := f.DeleteTable(name); err != nil {
				return fmt.Errorf("delete table %q: %w", name, err)
			}
		}
		s.stored.tables = nil
	}
	for _, s := range wb.sheets {
		if err := wb.flushSheet(f, s); err != nil {
			return fmt.Errorf("flush sheet %q: %w", s.Name, err)
		}
	}

	if err := f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &wb.date1904}); err != nil {
		return fmt.Errorf("set workbook props: %w", err)
	}
	existing := make(map[string]bool)
	for _, dn := range f.GetDefinedName() {
		existing[strings.ToLower(dn.Name)] = true
	}
	for _, dn := range wb.names {
		if existing[strings.ToLower(dn.Name)] {
			continue
		}
		if err := f.SetDefinedName(&excelize.DefinedName{Name: dn.Name, RefersTo: dn.RefersTo, Scope: dn.Scope}); err != nil {
			return fmt.Errorf("set defined name %q: %w", dn.Name, err)
		}
	}
	if active := wb.ActiveSheet(); active != nil {
		idx, err := f.GetSheetIndex(active.Name)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}
	wb.log.Debug("flush workbook", "sheets", len(wb.sheets))
	return nil
}

func (wb *Workbook) flushSheet(f *excelize.File, s *Sheet) error {
	if s.stored == nil {
		if idx, err := f.GetSheetIndex(s.Name); err != nil || idx < 0 {
			if _, err := f.NewSheet(s.Name); err != nil {
				return fmt.Errorf("new sheet: %w", err)
			}
			if err := wb.copySheetSettings(f, s.source, s.Name); err != nil {
				return fmt.Errorf("copy settings of %q: %w", s.source, err)
			}
		}
		s.stored = &storedState{cells: make(map[string]bool), heights: make(map[RowIndex]bool)}
	}
	st := s.stored

	merged, err := f.GetMergeCells(s.Name)
	if err != nil {
		return err
	}
	for _, mc := range merged {
		if err := f.UnmergeCell(s.Name, mc.GetStartAxis(), mc.GetEndAxis()); err != nil {
			return fmt.Errorf("unmerge %s:%s: %w", mc.GetStartAxis(), mc.GetEndAxis(), err)
		}
	}
	for _, ref := range st.links {
		if err := f.SetCellHyperLink(s.Name, ref, "", "None"); err != nil {
			return fmt.Errorf("remove hyperlink %s: %w", ref, err)
		}
	}

	current := make(map[string]bool)
	for _, r := range s.Rows {
		for _, cd := range r.Cells {
			current[cd.Ref] = true
		}
	}
	for ref, hadFormula := range st.cells {
		if current[ref] {
			continue
		}
		if hadFormula {
			if err := f.SetCellFormula(s.Name, ref, ""); err != nil {
				return err
			}
		}
		if err := f.SetCellValue(s.Name, ref, nil); err != nil {
			return err
		}
		if err := f.SetCellStyle(s.Name, ref, ref, 0); err != nil {
			return err
		}
	}

	cells := make(map[string]bool, len(current))
	for _, r := range s.Rows {
		for _, cd := range r.Cells {
			if err := wb.writeCell(f, s.Name, cd, st.cells[cd.Ref]); err != nil {
				return fmt.Errorf("write %s: %w", cd.Ref, err)
			}
			cells[cd.Ref] = cd.Formula != ""
		}
	}
	st.cells = cells

	def := defaultRowHeight
	if props, err := f.GetSheetProps(s.Name); err == nil && props.DefaultRowHeight != nil && *props.DefaultRowHeight > 0 {
		def = *props.DefaultRowHeight
	}
	heights := make(map[RowIndex]bool)
	for _, r := range s.Rows {
		if r.Height > 0 {
			if err := f.SetRowHeight(s.Name, int(r.Index), r.Height); err != nil {
				return err
			}
			heights[r.Index] = true
		}
	}
	for row := range st.heights {
		if !heights[row] {
			if err := f.SetRowHeight(s.Name, int(row), def); err != nil {
				return err
			}
		}
	}
	st.heights = heights

	for col, w := range s.ColWidths {
		name := ColToName(col)
		if err := f.SetColWidth(s.Name, name, name, w); err != nil {
			return err
		}
	}

	for _, ref := range s.MergeCells {
		start, end, ok := strings.Cut(ref, ":")
		if !ok {
			end = start
		}
		if err := f.MergeCell(s.Name, start, end); err != nil {
			return fmt.Errorf("merge %s: %w", ref, err)
		}
	}

	st.links = st.links[:0]
	for _, h := range s.Hyperlinks {
		a, err := ParseAddress(h.Ref)
		if err != nil {
			return fmt.Errorf("hyperlink %q: %w", h.Ref, err)
		}
		cell := a.CellName()
		linkType := "Location"
		if h.External {
			linkType = "External"
		}
		var opts []excelize.HyperlinkOpts
		if h.Display != "" || h.Tooltip != "" {
			display, tooltip := h.Display, h.Tooltip
			opts = append(opts, excelize.HyperlinkOpts{Display: &display, Tooltip: &tooltip})
		}
		if err := f.SetCellHyperLink(s.Name, cell, h.Target, linkType, opts...); err != nil {
			return fmt.Errorf("hyperlink %s: %w", cell, err)
		}
		st.links = append(st.links, cell)
	}

	for _, t := range s.Tables {
		showHeader, showStripes := t.ShowHeaderRow, t.ShowRowStripes
		err := f.AddTable(s.Name, &excelize.Table{
			Range:             t.Ref,
			Name:              t.Name,
			StyleName:         t.StyleName,
			ShowHeaderRow:     &showHeader,
			ShowRowStripes:    &showStripes,
			ShowColumnStripes: t.ShowColumnStripes,
			ShowFirstColumn:   t.ShowFirstColumn,
			ShowLastColumn:    t.ShowLastColumn,
		})
		if err != nil {
			return fmt.Errorf("add table %q: %w", t.Name, err)
		}
		st.tables = append(st.tables, t.Name)
	}
	return nil
}

// copySheetSettings copies the worksheet settings the model does not track
// from the sheet named from to the sheet named to: page setup and margins,
// header and footer, sheet properties, the first view, panes, data
// validations and conditional formats. Nothing is copied when from is empty
// or not in f.
func (wb *Workbook) copySheetSettings(f *excelize.File, from, to string) error {
	if from == "" {
		return nil
	}
	if idx, err := f.GetSheetIndex(from); err != nil || idx < 0 {
		return nil
	}

	layout, err := f.GetPageLayout(from)
	if err != nil {
		return err
	}
	if layout.Size != nil && *layout.Size == 0 {
		layout.Size = nil
	}
	if layout.FirstPageNumber != nil && *layout.FirstPageNumber == 1 {
		layout.FirstPageNumber = nil
	}
	if err := f.SetPageLayout(to, &layout); err != nil {
		return fmt.Errorf("page layout: %w", err)
	}
	margins, err := f.GetPageMargins(from)
	if err != nil {
		return err
	}
	if err := f.SetPageMargins(to, &margins); err != nil {
		return fmt.Errorf("page margins: %w", err)
	}
	hf, err := f.GetHeaderFooter(from)
	if err != nil {
		return err
	}
	if hf != nil {
		if err := f.SetHeaderFooter(to, hf); err != nil {
			return fmt.Errorf("header footer: %w", err)
		}
	}

	props, err := f.GetSheetProps(from)
	if err != nil {
		return err
	}
	props.CodeName = nil
	if err := f.SetSheetProps(to, &props); err != nil {
		return fmt.Errorf("sheet props: %w", err)
	}
	view, err := f.GetSheetView(from, 0)
	if err == nil {
		if err := f.SetSheetView(to, 0, &view); err != nil {
			return fmt.Errorf("sheet view: %w", err)
		}
	}
	panes, err := f.GetPanes(from)
	if err != nil {
		return err
	}
	if panes.Freeze || panes.XSplit > 0 || panes.YSplit > 0 {
		if err := f.SetPanes(to, &panes); err != nil {
			return fmt.Errorf("panes: %w", err)
		}
	}

	dvs, err := f.GetDataValidations(from)
	if err != nil {
		return err
	}
	for _, dv := range dvs {
		if err := f.AddDataValidation(to, dv); err != nil {
			return fmt.Errorf("data validation %s: %w", dv.Sqref, err)
		}
	}
	formats, err := f.GetConditionalFormats(from)
	if err != nil {
		return err
	}
	for ref, opts := range formats {
		if len(opts) == 0 {
			continue
		}
		if err := f.SetConditionalFormat(to, ref, opts); err != nil {
			wb.log.Warn("skip conditional format", "sheet", to, "range", ref, "error", err)
		}
	}
	wb.log.Debug("copy sheet settings", "from", from, "to", to, "validations", len(dvs), "conditional", len(formats))
	return nil
}

func (wb *Workbook) writeCell(f *excelize.File, sheet string, cd *CellData, hadFormula bool) error {
	if hadFormula && cd.Formula == "" {
		if err := f.SetCellFormula(sheet, cd.Ref, ""); err != nil {
			return err
		}
	}
	var err error
	switch cd.Type {
	case CellSharedString:
		i, convErr := strconv.Atoi(cd.Value)
		if convErr != nil {
			return fmt.Errorf("shared string index %q: %w", cd.Value, convErr)
		}
		text, ok := wb.sst.Get(i)
		if !ok {
			return fmt.Errorf("shared string index %d out of range", i)
		}
		err = f.SetCellStr(sheet, cd.Ref, text)
	case CellNumber:
		err = f.SetCellDefault(sheet, cd.Ref, cd.Value)
	case CellBoolean:
		err = f.SetCellBool(sheet, cd.Ref, cd.Value == "1")
	case CellError:
		err = f.SetCellStr(sheet, cd.Ref, cd.Value)
	case CellFormula:
		err = f.SetCellFormula(sheet, cd.Ref, cd.Formula)
	default:
		err = f.SetCellValue(sheet, cd.Ref, nil)
	}
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cd.Ref, cd.Ref, cd.StyleID)
}
