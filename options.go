package xlbind

import "log/slog"

// Options holds configuration shared by Workbook and Document.
type Options struct {
	logger         *slog.Logger
	evaluator      ExpressionEvaluator
	deleteOriginal bool
	tempDir        string
	pageSizes      map[string]int
}

func defaultOptions() *Options {
	return &Options{
		logger:    slog.New(slog.DiscardHandler),
		evaluator: NewExpressionEvaluator(),
	}
}

func applyOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures a Workbook or Document.
type Option func(*Options)

// WithLogger sets the logger for structural mutations and session events.
// The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEvaluator sets the evaluator used for binding keys that are expressions.
func WithEvaluator(ev ExpressionEvaluator) Option {
	return func(o *Options) {
		if ev != nil {
			o.evaluator = ev
		}
	}
}

// WithDeleteOriginal removes the template file when the document is disposed.
func WithDeleteOriginal(del bool) Option {
	return func(o *Options) { o.deleteOriginal = del }
}

// WithTempDir sets the directory for the working copy (default: os.TempDir).
func WithTempDir(dir string) Option {
	return func(o *Options) { o.tempDir = dir }
}

// WithPageSize sets the page size used when the defined name is bound to a
// block of rows. It is overridden by a PagedArray value.
func WithPageSize(name string, size int) Option {
	return func(o *Options) {
		if o.pageSizes == nil {
			o.pageSizes = make(map[string]int)
		}
		o.pageSizes[name] = size
	}
}
