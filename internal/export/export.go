// Package export renders a completed job's result data as a
// downloadable file, either the full JSON payload or a flattened
// per-keyword CSV — spec.md §6 "Export formats".
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"keywordscope/internal/model"
)

// Format identifies a supported export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format query parameter.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("export: unsupported format %q", raw)
	}
}

// csvHeader is fixed by spec.md §6 and must not be reordered.
var csvHeader = []string{
	"Cluster ID",
	"Pillar Topic",
	"Keyword",
	"Search Volume",
	"Competition",
	"CPC Low",
	"CPC High",
	"Cluster Value Score",
	"Cluster Total Volume",
}

// Render encodes data in the requested format. JSON renders the full
// ResultData; CSV flattens it to one row per keyword.
func Render(format Format, data *model.ResultData) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("export: marshal json: %w", err)
		}
		return b, "application/json", nil
	case FormatCSV:
		b, err := renderCSV(data)
		if err != nil {
			return nil, "", err
		}
		return b, "text/csv", nil
	default:
		return nil, "", fmt.Errorf("export: unsupported format %q", format)
	}
}

func renderCSV(data *model.ResultData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("export: write header: %w", err)
	}

	if data != nil {
		for _, c := range data.Clusters {
			for _, k := range c.Keywords {
				row := []string{
					c.ID,
					c.PillarTopic,
					k.Text,
					strconv.Itoa(k.SearchVolume),
					string(k.Competition),
					strconv.FormatFloat(k.CPCLow, 'f', 2, 64),
					strconv.FormatFloat(k.CPCHigh, 'f', 2, 64),
					strconv.FormatFloat(c.ClusterValueScore, 'f', 2, 64),
					strconv.Itoa(c.TotalSearchVolume),
				}
				if err := w.Write(row); err != nil {
					return nil, fmt.Errorf("export: write row: %w", err)
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: flush: %w", err)
	}
	return buf.Bytes(), nil
}
