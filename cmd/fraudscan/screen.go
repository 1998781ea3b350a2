package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fraudscreen/internal/export"
	"fraudscreen/internal/ingest"
	"fraudscreen/internal/screening"
)

type screenOptions struct {
	input  string
	rules  string
	output string
	export string
	pretty bool
}

func newScreenCmd() *cobra.Command {
	var opts screenOptions
	cmd := &cobra.Command{
		Use:   "screen --input FILE",
		Short: "Screen a JSON, CSV or XLSX file and print {summary, results}",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScreen(cmd.OutOrStdout(), opts, time.Now().UTC())
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "application file (.json, .csv or .xlsx)")
	cmd.Flags().StringVar(&opts.rules, "rules", "", "YAML file overriding detection thresholds")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write JSON here instead of stdout")
	cmd.Flags().StringVar(&opts.export, "export", "", "also write an .xlsx workbook of the results")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runScreen(stdout io.Writer, opts screenOptions, now time.Time) error {
	format, err := ingest.DetectFormat(opts.input)
	if err != nil {
		return err
	}
	rules := screening.DefaultRules()
	if opts.rules != "" {
		if rules, err = screening.LoadRules(opts.rules); err != nil {
			return err
		}
	}
	engine, err := screening.NewEngine(rules)
	if err != nil {
		return err
	}

	in, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()
	raw, err := ingest.Read(in, format)
	if err != nil {
		return err
	}

	outcome := engine.Screen(raw, now)

	if opts.export != "" {
		if err := writeFile(opts.export, func(w io.Writer) error {
			return export.WriteXLSX(w, outcome)
		}); err != nil {
			return err
		}
	}

	encode := func(w io.Writer) error {
		enc := json.NewEncoder(w)
		if opts.pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(outcome)
	}
	if opts.output == "" {
		return encode(stdout)
	}
	return writeFile(opts.output, encode)
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
