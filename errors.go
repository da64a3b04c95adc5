package xlbind

import "errors"

// Errors returned by the address parser and the sheet engine. They are wrapped
// with context; test them with errors.Is.
var (
	ErrMalformedAddress     = errors.New("malformed address")
	ErrInvalidColumnFormat  = errors.New("invalid column format")
	ErrMissingRowDigits     = errors.New("missing row digits")
	ErrCellNotFound         = errors.New("cell not found")
	ErrUnsupportedValueType = errors.New("unsupported value type")

	ErrRowNotFound     = errors.New("row not found")
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrSheetExists     = errors.New("sheet already exists")
	ErrNameNotFound    = errors.New("defined name not found")
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrDocumentClosed is returned by a Document after Commit, Rollback or Close.
	ErrDocumentClosed = errors.New("document closed")
)
