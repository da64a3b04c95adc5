// Command xlbind fills spreadsheet templates from JSON and CSV data.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/javajack/xlbind"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		logger.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	fs.String("config", "", "config file with one flag per line")
	return fs
}

func ffOptions() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix("XLBIND"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	}
}

func Main() error {
	fillFS := newFlagSet("fill")
	flagTemplate := fillFS.String("template", "", "template workbook (.xlsx)")
	flagOut := fillFS.String("o", "", "output file (default: stdout)")
	flagData := fillFS.String("data", "", "JSON object file with the values to bind (- for stdin, .gz/.zst decompressed)")
	flagEnc := fillFS.String("charset", encName(), "csv charset name")
	flagHeader := fillFS.Bool("csv-header", false, "csv files start with a header row to skip")
	flagDelete := fillFS.Bool("delete-template", false, "remove the template after filling")
	var csvFiles, pageSizes keyValues
	fillFS.Var(&csvFiles, "csv", "Name=file.csv: bind the rows of a csv file to a defined name (repeatable)")
	fillFS.Var(&pageSizes, "page-size", "Name=N: rows per sheet for a block (repeatable)")

	fillCmd := ffcli.Command{Name: "fill", FlagSet: fillFS, Options: ffOptions(),
		ShortUsage: "xlbind fill -template report.xlsx [-data data.json] [-csv Lines=lines.csv] [-o out.xlsx]",
		ShortHelp:  "bind data into the defined names of a template",
		Exec: func(ctx context.Context, args []string) error {
			if *flagTemplate == "" {
				if len(args) == 0 {
					return fmt.Errorf("fill: -template is required")
				}
				*flagTemplate = args[0]
			}
			data := make(map[string]any)
			if *flagData != "" {
				if err := readJSON(*flagData, &data); err != nil {
					return fmt.Errorf("read %q: %w", *flagData, err)
				}
			}
			for _, kv := range csvFiles {
				rows, err := readCSV(kv.Value, *flagEnc, *flagHeader)
				if err != nil {
					return fmt.Errorf("read %q: %w", kv.Value, err)
				}
				data[kv.Key] = rows
			}

			opts := []xlbind.Option{xlbind.WithLogger(logger), xlbind.WithDeleteOriginal(*flagDelete)}
			for _, kv := range pageSizes {
				n, err := strconv.Atoi(kv.Value)
				if err != nil {
					return fmt.Errorf("page size %q: %w", kv, err)
				}
				opts = append(opts, xlbind.WithPageSize(kv.Key, n))
			}
			logger.Debug("fill", "template", *flagTemplate, "out", *flagOut, "keys", len(data))

			if *flagOut != "" && *flagOut != "-" {
				return xlbind.Fill(*flagTemplate, *flagOut, data, opts...)
			}
			doc, err := xlbind.Open(*flagTemplate, opts...)
			if err != nil {
				return err
			}
			defer doc.Close()
			if err := doc.Bind(data); err != nil {
				return err
			}
			return doc.CommitTo(os.Stdout)
		},
	}

	describeFS := newFlagSet("describe")
	describeCmd := ffcli.Command{Name: "describe", FlagSet: describeFS, Options: ffOptions(),
		ShortUsage: "xlbind describe template.xlsx",
		ShortHelp:  "print the sheets, structures and defined names of a template",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			out, err := xlbind.Describe(args[0], xlbind.WithLogger(logger))
			if err != nil {
				return err
			}
			_, err = io.WriteString(os.Stdout, out)
			return err
		},
	}

	validateFS := newFlagSet("validate")
	validateCmd := ffcli.Command{Name: "validate", FlagSet: validateFS, Options: ffOptions(),
		ShortUsage: "xlbind validate template.xlsx",
		ShortHelp:  "check that every defined name of a template can be bound",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			issues, err := xlbind.Validate(args[0], xlbind.WithLogger(logger))
			if err != nil {
				return err
			}
			var failed int
			for _, is := range issues {
				fmt.Fprintln(os.Stdout, is.String())
				if is.Severity == xlbind.SeverityError {
					failed++
				}
			}
			if failed != 0 {
				return fmt.Errorf("%d error(s) in %s", failed, args[0])
			}
			return nil
		},
	}

	rootFS := newFlagSet("xlbind")
	app := ffcli.Command{Name: "xlbind", FlagSet: rootFS, Options: ffOptions(),
		ShortUsage:  "xlbind [-v] <fill|describe|validate> [flags]",
		Subcommands: []*ffcli.Command{&fillCmd, &describeCmd, &validateCmd},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}

	if err := app.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.Run(ctx); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, ffcli.DefaultUsageFunc(&app))
			return nil
		}
		return err
	}
	return nil
}

func readJSON(fn string, v any) error {
	fh, err := openInput(fn)
	if err != nil {
		return err
	}
	defer fh.Close()
	return json.NewDecoder(fh).Decode(v)
}

type keyValue struct {
	Key, Value string
}

func (kv keyValue) String() string { return kv.Key + "=" + kv.Value }

// keyValues is a repeatable Name=value flag.
type keyValues []keyValue

func (kvs *keyValues) String() string {
	if kvs == nil {
		return ""
	}
	parts := make([]string, len(*kvs))
	for i, kv := range *kvs {
		parts[i] = kv.String()
	}
	return strings.Join(parts, ",")
}

func (kvs *keyValues) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("%q: want Name=value", s)
	}
	*kvs = append(*kvs, keyValue{Key: k, Value: v})
	return nil
}
