package main

import (
	"io"

	"github.com/charmbracelet/log"

	sketchdata "github.com/kataras/sketch-data-extractor"
)

var _ sketchdata.Logger = (*log.Logger)(nil)

// newLogger returns the progress logger handed to the extraction. Progress
// is logged at info level, shown with --verbose; warnings always show.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
