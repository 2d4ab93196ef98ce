package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	sketchdata "github.com/kataras/sketch-data-extractor"
	"github.com/kataras/sketch-data-extractor/pkg/config"
	"github.com/kataras/sketch-data-extractor/pkg/errors"
	"github.com/kataras/sketch-data-extractor/pkg/extractor"
	"github.com/kataras/sketch-data-extractor/pkg/sketch"
)

// Status lines printed at the end of an extraction.
const (
	msgComplete   = "✅ Link Data extraction complete"
	msgSelection  = "☝️ Select exactly one layer group to create data set."
	msgNoData     = "☝️ No symbol overrides found."
	msgWriteError = "⛔️ There was an error writing your file"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sketch-data-extractor",
		Short:         "Extract Link Data from Sketch documents",
		Long:          "A tool to turn layer groups of a Sketch document into a JSON data set and export the images it references as PNG files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sketch-data-extractor version %s\n", sketchdata.Version)
		},
	}

	rootCmd.AddCommand(newExtractCmd(), newLayersCmd(), versionCmd)
	return rootCmd
}

type extractFlags struct {
	layers        []string
	query         string
	multi         bool
	outDir        string
	file          string
	caseFold      bool
	dropEmptyText bool
	overrides     string
	parallel      int
	fitFrame      bool
	report        bool
	configFile    string
	verbose       bool
}

func newExtractCmd() *cobra.Command {
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "extract <file.sketch>",
		Short: "Extract the data of the selected layers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], &f)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&f.layers, "layer", "l", nil, "Layer name or object ID to extract (repeatable)")
	flags.StringVarP(&f.query, "query", "q", "", "JSONPath expression selecting layers")
	flags.BoolVarP(&f.multi, "multi", "m", false, "Allow selecting more than one layer group")
	flags.StringVarP(&f.outDir, "out", "o", ".", "Output directory")
	flags.StringVarP(&f.file, "file", "f", "", "JSON file name (default: document name)")
	flags.BoolVar(&f.caseFold, "case-fold", false, "Lowercase keys and values")
	flags.BoolVar(&f.dropEmptyText, "drop-empty-text", false, "Drop empty text values from symbol data")
	flags.StringVar(&f.overrides, "overrides", "silent", "Unplaceable symbol overrides: silent, warn, or strict")
	flags.IntVarP(&f.parallel, "parallel", "p", 1, "Number of images rasterized concurrently")
	flags.BoolVar(&f.fitFrame, "fit-frame", false, "Fit exported images to their layer frame")
	flags.BoolVar(&f.report, "report", false, "Also write a markdown report next to the data")
	flags.StringVarP(&f.configFile, "config", "c", "", "Project file (default: .sketch-data.yaml or .sketch-data.toml in the document folder)")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Log progress")

	return cmd
}

func runExtract(cmd *cobra.Command, document string, f *extractFlags) error {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	opts, err := buildOptions(cmd, document, f)
	if err != nil {
		return err
	}
	opts.Logger = newLogger(cmd.ErrOrStderr(), f.verbose)

	result, err := sketchdata.Run(cmd.Context(), opts)
	if err != nil {
		switch errors.CodeOf(err) {
		case errors.CodeSelection:
			// a selection mistake is a user hint, not a failure
			opts.Logger.Warnf("%v", err)
			yellow.Fprintln(out, msgSelection)
			return nil
		case errors.CodeFileWrite:
			red.Fprintln(out, msgWriteError)
		}
		return err
	}

	if result.Empty {
		yellow.Fprintln(out, msgNoData)
		return nil
	}

	cyan.Fprintln(out, "\n📊 Extraction Summary:")
	fmt.Fprintf(out, "  • Data sets: %d\n", len(result.Data))
	fmt.Fprintf(out, "  • File: %s\n", filepath.Join(opts.OutputDir, result.File))
	if len(result.Assets) > 0 {
		fmt.Fprintf(out, "  • Images: %d\n", len(result.Assets))
	}
	if n := len(result.AssetErrors); n > 0 {
		yellow.Fprintf(out, "  • Images failed: %d\n", n)
	}
	if n := len(result.Dropped); n > 0 {
		yellow.Fprintf(out, "  • Overrides dropped: %d\n", n)
	}
	if result.ReportFile != "" {
		fmt.Fprintf(out, "  • Report: %s\n", filepath.Join(opts.OutputDir, result.ReportFile))
	}

	green.Fprintf(out, "\n%s\n", msgComplete)
	return nil
}

// buildOptions starts from the project file, if any, and applies every flag
// set on the command line over it.
func buildOptions(cmd *cobra.Command, document string, f *extractFlags) (sketchdata.Options, error) {
	var opts sketchdata.Options

	path := f.configFile
	if path == "" {
		path = config.Find(filepath.Dir(document))
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return opts, err
		}
		opts = cfg.Options()
	}
	opts.DocumentPath = document

	changed := cmd.Flags().Changed
	if changed("layer") {
		opts.Layers = f.layers
	}
	if changed("query") {
		opts.Query = f.query
	}
	if changed("multi") {
		opts.MultiSelect = f.multi
	}
	if changed("out") || opts.OutputDir == "" {
		opts.OutputDir = f.outDir
	}
	if changed("file") {
		opts.OutputFile = f.file
	}
	if changed("case-fold") {
		opts.CaseFold = f.caseFold
	}
	if changed("drop-empty-text") {
		opts.DropEmptyText = f.dropEmptyText
	}
	if changed("overrides") {
		policy, err := extractor.ParseOverridePolicy(f.overrides)
		if err != nil {
			return opts, errors.Wrap(errors.CodeInvalidInput, err, "--overrides")
		}
		opts.OverridePolicy = policy
	}
	if changed("parallel") || opts.Parallelism == 0 {
		if f.parallel < 1 {
			return opts, errors.New(errors.CodeInvalidInput, "--parallel must be at least 1, got %d", f.parallel)
		}
		opts.Parallelism = f.parallel
	}
	if changed("fit-frame") {
		opts.FitToFrame = f.fitFrame
	}
	if changed("report") {
		opts.Report = f.report
	}

	return opts, nil
}

func newLayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layers <file.sketch>",
		Short: "List the pages and top level layers of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := sketch.Open(args[0])
			if err != nil {
				return err
			}
			printLayers(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}

func printLayers(w io.Writer, doc *sketch.Document) {
	cyan := color.New(color.FgCyan)
	faint := color.New(color.Faint)

	doc.Walk(func(raw *sketch.RawLayer, depth int) bool {
		if depth == 0 {
			cyan.Fprintf(w, "📄 %s\n", raw.Name)
			return true
		}
		l := doc.Layer(raw)
		fmt.Fprintf(w, "  • %s (%s) ", l.Name, l.Kind)
		faint.Fprintln(w, l.ID)
		return false
	})
}
