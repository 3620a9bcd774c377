package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seenimoa/stocksentinel/internal/report"
	"github.com/seenimoa/stocksentinel/pkg/models"
)

var timeNow = time.Now

// defaultOutputPath returns <dir>/analysis_YYYYMMDD_HHMMSS.json.
func defaultOutputPath(dir string, now time.Time) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "analysis_"+now.Format("20060102_150405")+".json")
}

// writeReport saves r to path, choosing the encoding from the extension:
// YAML for .yaml/.yml, a standalone page for .html/.htm, JSON otherwise.
// Missing parent directories are created.
func writeReport(path string, r models.Report) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := encodeReport(f, path, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func encodeReport(w io.Writer, path string, r models.Report) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case ".html", ".htm":
		return report.RenderHTML(w, r)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
}
