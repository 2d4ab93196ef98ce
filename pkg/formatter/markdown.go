package formatter

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/kataras/sketch-data-extractor/pkg/extractor"
	"github.com/kataras/sketch-data-extractor/pkg/imager"
)

// Report summarizes one extraction run.
type Report struct {
	DocumentName string
	DataFile     string   // path of the written JSON file, empty when nothing was written
	ImagesDir    string   // folder the PNGs were written to
	Layers       []string // names of the selected layers, in selection order
	Empty        []string // selected layers that produced no data
	Assets       []imager.ExportedAsset
	AssetErrors  []error
	Dropped      []extractor.DroppedOverride
}

// ToMarkdown renders a run report as a markdown document: the selection, the
// exported images with their sizes, and every warning the run produced.
func ToMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Link Data - %s\n\n", r.DocumentName))
	if r.DataFile != "" {
		sb.WriteString(fmt.Sprintf("Data written to `%s`.\n\n", r.DataFile))
	} else {
		sb.WriteString("No data was written.\n\n")
	}

	// Selection
	sb.WriteString("## Layers\n\n")
	empty := make(map[string]bool, len(r.Empty))
	for _, name := range r.Empty {
		empty[name] = true
	}
	for _, name := range r.Layers {
		if empty[name] {
			sb.WriteString(fmt.Sprintf("- %s _(no data)_\n", name))
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s\n", name))
	}
	sb.WriteString("\n")

	// Images
	if len(r.Assets) > 0 {
		sb.WriteString(fmt.Sprintf("## Images (%s)\n\n", r.ImagesDir))
		sb.WriteString("| File | Layer | Key | Size |\n")
		sb.WriteString("|------|-------|-----|------|\n")
		for _, a := range r.Assets {
			sb.WriteString(fmt.Sprintf("| %s | %s | `%s` | %s |\n", a.FileName, escapeCell(a.Name), a.Key, humanize.IBytes(uint64(a.Size))))
		}
		sb.WriteString("\n")
	}

	// Warnings
	if len(r.AssetErrors) > 0 || len(r.Dropped) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, err := range r.AssetErrors {
			sb.WriteString(fmt.Sprintf("- %v\n", err))
		}
		for _, d := range r.Dropped {
			sb.WriteString(fmt.Sprintf("- %s\n", d))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// escapeCell keeps layer names from breaking the table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
