// Package main regenerates internal/carbon/grid_factors.go from a JSON
// document of location-based grid emission factors.
//
// The input maps "Country" or "Country/State" keys to metric tons CO2e per
// kWh. A value is either a bare number or an object with a note that is kept
// as the entry's comment:
//
//	{
//	  "USA": 0.00045,
//	  "USA/Vermont": {"factor": 0.000013, "note": "hydro/nuclear"}
//	}
//
// Usage:
//
//	go run ./tools/update-grid-factors --source factors.json [--dry-run]
//	go run ./tools/update-grid-factors --source https://example.com/grid.json
//
// Flags:
//
//	--source    JSON file path or http(s) URL (required)
//	--output    Path to grid_factors.go (default: ./internal/carbon/grid_factors.go)
//	--default   Factor for locations with no entry (default: 0.00045, US average)
//	--dry-run   Print the generated file without writing it
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"go/format"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/goccy/go-json"
)

const (
	// Valid range for grid factors (metric tons CO2e per kWh)
	minValidFactor = 0.0 // Iceland is effectively zero
	maxValidFactor = 2.0

	defaultFactor = 0.00045

	fetchTimeout = 30 * time.Second
)

var fileTemplate = template.Must(template.New("grid_factors").Parse(`package carbon

import "strings"

// GridEmissionFactors maps locations ("Country" or "Country/State") to
// location-based grid carbon intensity. Values are in metric tons CO2e per kWh.
//
// Source: {{.Source}}
// Data vintage: {{.Vintage}} (update annually using: go run ./tools/update-grid-factors)
var GridEmissionFactors = map[string]float64{
{{- range .Factors}}
	{{printf "%q" .Location}}: {{.Factor}},{{if .Note}} // {{.Note}}{{end}}
{{- end}}
}

// DefaultGridFactor is used when neither the location nor its country has a
// specific factor.
const DefaultGridFactor = {{.Default}}

// GetGridFactor returns the grid factor for a "Country/State" key in metric
// tons CO2e per kWh. It falls back to the country factor and then to
// DefaultGridFactor. The second return value reports whether a specific
// (non-default) factor was found.
func GetGridFactor(location string) (float64, bool) {
	return lookupGridFactor(GridEmissionFactors, location)
}

func lookupGridFactor(table map[string]float64, location string) (float64, bool) {
	if factor, ok := table[location]; ok {
		return factor, true
	}
	if country, _, found := strings.Cut(location, "/"); found {
		if factor, ok := table[country]; ok {
			return factor, true
		}
	}
	return DefaultGridFactor, false
}
`))

// GridFactor is one generated map entry.
type GridFactor struct {
	Location string
	Factor   float64
	Note     string
}

// gridEntry accepts either a bare number or {"factor": n, "note": "..."}.
type gridEntry struct {
	Factor float64 `json:"factor"`
	Note   string  `json:"note"`
}

func (e *gridEntry) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		e.Factor = n
		return nil
	}
	type plain gridEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("expected a number or {\"factor\", \"note\"} object: %w", err)
	}
	*e = gridEntry(p)
	return nil
}

func main() {
	source := flag.String("source", "", "JSON file path or http(s) URL with {location: factor} entries")
	output := flag.String("output", "./internal/carbon/grid_factors.go", "Path to grid_factors.go")
	def := flag.Float64("default", defaultFactor, "Factor for locations without an entry")
	dryRun := flag.Bool("dry-run", false, "Print the generated file without writing it")
	flag.Parse()

	if err := run(context.Background(), *source, *output, *def, *dryRun, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, source, output string, def float64, dryRun bool, stdout io.Writer) error {
	if source == "" {
		return errors.New("--source is required")
	}

	data, err := readSource(ctx, source)
	if err != nil {
		return err
	}
	factors, err := parseFactors(data)
	if err != nil {
		return err
	}
	if err := validateFactors(factors, def); err != nil {
		return err
	}

	content, err := generateGridFactorsFile(factors, def, source, time.Now().Format("2006"))
	if err != nil {
		return err
	}

	if dryRun {
		_, err := stdout.Write(content)
		return err
	}
	if err := os.WriteFile(output, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(stdout, "Updated %s with %d locations\n", output, len(factors))
	return nil
}

// readSource reads a local file, or fetches source when it is an http(s) URL.
func readSource(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		return data, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", source, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return data, nil
}

// parseFactors decodes the document and sorts entries by location.
func parseFactors(data []byte) ([]GridFactor, error) {
	var doc map[string]gridEntry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding grid factors: %w", err)
	}
	if len(doc) == 0 {
		return nil, errors.New("decoding grid factors: no entries")
	}

	factors := make([]GridFactor, 0, len(doc))
	for loc, e := range doc {
		factors = append(factors, GridFactor{
			Location: strings.TrimSpace(loc),
			Factor:   e.Factor,
			Note:     strings.TrimSpace(e.Note),
		})
	}
	sort.Slice(factors, func(i, j int) bool {
		return factors[i].Location < factors[j].Location
	})
	return factors, nil
}

// validateFactors checks that every factor, and the default, is within
// [minValidFactor, maxValidFactor] and that locations are well formed.
func validateFactors(factors []GridFactor, def float64) error {
	var problems []string

	inRange := func(v float64) bool {
		return v >= minValidFactor && v <= maxValidFactor
	}
	for _, f := range factors {
		switch {
		case f.Location == "" || strings.HasPrefix(f.Location, "/") || strings.HasSuffix(f.Location, "/"):
			problems = append(problems, fmt.Sprintf("%q: malformed location", f.Location))
		case strings.Count(f.Location, "/") > 1:
			problems = append(problems, fmt.Sprintf("%q: expected \"Country\" or \"Country/State\"", f.Location))
		case !inRange(f.Factor):
			problems = append(problems, fmt.Sprintf("%s: factor %g is outside valid range [%g, %g]",
				f.Location, f.Factor, minValidFactor, maxValidFactor))
		}
	}
	if !inRange(def) {
		problems = append(problems, fmt.Sprintf("default factor %g is outside valid range [%g, %g]",
			def, minValidFactor, maxValidFactor))
	}

	if len(problems) > 0 {
		return fmt.Errorf("validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

// generateGridFactorsFile renders and gofmts grid_factors.go.
func generateGridFactorsFile(factors []GridFactor, def float64, source, vintage string) ([]byte, error) {
	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, struct {
		Factors []GridFactor
		Default float64
		Source  string
		Vintage string
	}{factors, def, source, vintage})
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return out, nil
}
