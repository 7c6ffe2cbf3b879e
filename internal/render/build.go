// Package render builds the static HTML report from collected switch state,
// persisted idle history, and the flat address list.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/icecake0141/switchmap/pkg/models"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Params carries everything one build needs. Switch ports are expected to
// already have their activity timestamps attached.
type Params struct {
	Switches       []models.Switch
	FailedSwitches []string
	Maclist        []models.MacEntry
	OutputDir      string
	BuildDate      time.Time

	// UnusedAfterDays marks ports idle for at least this many days. Zero
	// disables the marker.
	UnusedAfterDays int
}

var funcs = template.FuncMap{
	"fmtTime": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
	"fmtSpeed": func(speed *uint64) string {
		if speed == nil {
			return ""
		}
		switch {
		case *speed >= 1_000_000_000:
			return fmt.Sprintf("%d Gb/s", *speed/1_000_000_000)
		case *speed >= 1_000_000:
			return fmt.Sprintf("%d Mb/s", *speed/1_000_000)
		default:
			return fmt.Sprintf("%d b/s", *speed)
		}
	},
}

// searchIndex is the payload behind the search page.
type searchIndex struct {
	GeneratedAt string            `json:"generated_at"`
	Switches    []models.Switch   `json:"switches"`
	Maclist     []models.MacEntry `json:"maclist"`
}

// Build writes the full static site under p.OutputDir.
func Build(p Params) error {
	unusedCutoff := time.Time{}
	if p.UnusedAfterDays > 0 {
		unusedCutoff = p.BuildDate.AddDate(0, 0, -p.UnusedAfterDays)
	}
	buildFuncs := template.FuncMap{
		"isUnused": func(idleSince *time.Time) bool {
			if idleSince == nil || unusedCutoff.IsZero() {
				return false
			}
			return !idleSince.After(unusedCutoff)
		},
	}

	tmpl, err := template.New("").Funcs(funcs).Funcs(buildFuncs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	for _, dir := range []string{"", "switches", "ports", "search"} {
		if err := os.MkdirAll(filepath.Join(p.OutputDir, dir), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := renderTo(tmpl, "index.html.tmpl", filepath.Join(p.OutputDir, "index.html"), p); err != nil {
		return err
	}

	for i := range p.Switches {
		sw := &p.Switches[i]
		out := filepath.Join(p.OutputDir, "switches", sw.Name+".html")
		data := struct {
			Switch    *models.Switch
			BuildDate time.Time
		}{sw, p.BuildDate}
		if err := renderTo(tmpl, "switch.html.tmpl", out, data); err != nil {
			return err
		}
	}

	if err := renderTo(tmpl, "ports.html.tmpl", filepath.Join(p.OutputDir, "ports", "index.html"), p); err != nil {
		return err
	}
	if err := renderTo(tmpl, "search.html.tmpl", filepath.Join(p.OutputDir, "search", "index.html"), p); err != nil {
		return err
	}

	payload := searchIndex{
		GeneratedAt: p.BuildDate.UTC().Format(time.RFC3339),
		Switches:    p.Switches,
		Maclist:     p.Maclist,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode search index: %w", err)
	}
	indexPath := filepath.Join(p.OutputDir, "search", "index.json")
	if err := os.WriteFile(indexPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write search index: %w", err)
	}

	return nil
}

func renderTo(tmpl *template.Template, name, path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.ExecuteTemplate(f, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
