package xlbind

import (
	"bytes"
	"fmt"
	"io"
)

// Fill binds data into the template at templatePath and writes the result to
// outputPath. The template is left unchanged unless outputPath names it.
func Fill(templatePath, outputPath string, data map[string]any, opts ...Option) error {
	doc, err := Open(templatePath, opts...)
	if err != nil {
		return err
	}
	defer doc.Close()

	if err := doc.Bind(data); err != nil {
		return err
	}
	return doc.CommitAs(outputPath)
}

// FillBytes binds data into the template at templatePath and returns the
// result as bytes.
func FillBytes(templatePath string, data map[string]any, opts ...Option) ([]byte, error) {
	doc, err := Open(templatePath, opts...)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if err := doc.Bind(data); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.CommitTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FillReader binds data into the template read from template and writes the
// result to output.
func FillReader(template io.Reader, output io.Writer, data map[string]any, opts ...Option) error {
	doc, err := OpenReader(template, opts...)
	if err != nil {
		return err
	}
	defer doc.Close()

	if err := doc.Bind(data); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	return doc.CommitTo(output)
}
