package xlbind

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"
)

// Document is an editing session over a working copy of a template. The
// template itself is only written by Commit.
type Document struct {
	wb       *Workbook
	file     *excelize.File
	original string // template path, empty for OpenReader
	work     string // working copy
	output   string // path written by CommitAs
	opts     *Options
	log      *slog.Logger
	closed   bool
}

// Open copies the template at path to a working file and loads it.
func Open(path string, opts ...Option) (*Document, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template %q: %w", path, err)
	}
	defer in.Close()
	d, err := open(in, opts)
	if err != nil {
		return nil, fmt.Errorf("open template %q: %w", path, err)
	}
	d.original = path
	return d, nil
}

// OpenReader stages the template read from r in a working file and loads it.
func OpenReader(r io.Reader, opts ...Option) (*Document, error) {
	d, err := open(r, opts)
	if err != nil {
		return nil, fmt.Errorf("open template reader: %w", err)
	}
	return d, nil
}

func open(r io.Reader, opts []Option) (*Document, error) {
	o := applyOptions(opts)
	work, err := os.CreateTemp(o.tempDir, "xlbind-*.xlsx")
	if err != nil {
		return nil, fmt.Errorf("create working copy: %w", err)
	}
	if _, err := io.Copy(work, r); err != nil {
		work.Close()
		os.Remove(work.Name())
		return nil, fmt.Errorf("stage working copy: %w", err)
	}
	if err := work.Close(); err != nil {
		os.Remove(work.Name())
		return nil, fmt.Errorf("stage working copy: %w", err)
	}

	f, err := excelize.OpenFile(work.Name())
	if err != nil {
		os.Remove(work.Name())
		return nil, err
	}
	wb, err := readWorkbook(f, o)
	if err != nil {
		f.Close()
		os.Remove(work.Name())
		return nil, err
	}
	o.logger.Debug("open document", "work", work.Name())
	return &Document{wb: wb, file: f, work: work.Name(), opts: o, log: o.logger}, nil
}

// Workbook returns the model being edited.
func (d *Document) Workbook() *Workbook { return d.wb }

// Bind writes data into the workbook's defined names. See Workbook.Bind.
func (d *Document) Bind(data map[string]any) error {
	if d.closed {
		return ErrDocumentClosed
	}
	return d.wb.Bind(NewContext(data, d.opts.evaluator))
}

// Commit writes the edited workbook over the template and ends the session.
func (d *Document) Commit() error {
	if d.original == "" {
		return fmt.Errorf("commit: document was opened from a reader, use CommitAs")
	}
	return d.CommitAs(d.original)
}

// CommitAs writes the edited workbook to path and ends the session.
func (d *Document) CommitAs(path string) error {
	if err := d.save(); err != nil {
		return err
	}
	if err := copyFile(d.work, path); err != nil {
		d.dispose()
		return fmt.Errorf("commit %q: %w", path, err)
	}
	d.output = path
	d.log.Debug("commit document", "out", path)
	return d.dispose()
}

// CommitTo writes the edited workbook to w and ends the session.
func (d *Document) CommitTo(w io.Writer) error {
	if err := d.save(); err != nil {
		return err
	}
	in, err := os.Open(d.work)
	if err != nil {
		d.dispose()
		return err
	}
	_, err = io.Copy(w, in)
	in.Close()
	if err != nil {
		d.dispose()
		return fmt.Errorf("commit: %w", err)
	}
	d.log.Debug("commit document", "out", "<writer>")
	return d.dispose()
}

// Rollback ends the session without writing anything.
func (d *Document) Rollback() error {
	if d.closed {
		return ErrDocumentClosed
	}
	d.log.Debug("rollback document")
	return d.dispose()
}

// Close rolls back an open session. It is safe to call after Commit.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	return d.Rollback()
}

func (d *Document) save() error {
	if d.closed {
		return ErrDocumentClosed
	}
	if err := d.wb.Flush(d.file); err != nil {
		d.dispose()
		return fmt.Errorf("commit: %w", err)
	}
	if err := d.file.SaveAs(d.work); err != nil {
		d.dispose()
		return fmt.Errorf("commit: save working copy: %w", err)
	}
	return nil
}

// dispose closes the file and removes the working copy, and the template
// too when WithDeleteOriginal is set and the result was not written over it.
func (d *Document) dispose() error {
	d.closed = true
	err := d.file.Close()
	if rmErr := os.Remove(d.work); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
		err = rmErr
	}
	if d.opts.deleteOriginal && d.original != "" && d.output != d.original {
		if rmErr := os.Remove(d.original); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
