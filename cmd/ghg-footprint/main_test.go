package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rshade/ghg-footprint/internal/catalog"
	"github.com/rshade/ghg-footprint/internal/config"
	"github.com/rshade/ghg-footprint/internal/engine"
	"github.com/rshade/ghg-footprint/internal/factorsvc"
	"github.com/rshade/ghg-footprint/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// setup runs the test from an empty directory with no service credentials
// in the environment.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"GHG_SERVICE_API_KEY", "GHG_SERVICE_CLIENT_ID", "GHG_SERVICE_BASE_URL",
		"GHG_SERVICE_OFFLINE", "GHG_CATALOG_PATH", "GHG_REPORT_FORMAT",
		config.EnvCORSAllowedOrigins, config.EnvCORSAllowCredentials,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeReport(t *testing.T, out string) engine.Report {
	t.Helper()
	var rep engine.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	return rep
}

func TestCalculate_ExampleJSON(t *testing.T) {
	setup(t)

	out, _, err := run(t, "calculate", "--example", "--offline", "--format", "json", "--base-year", "2024")
	require.NoError(t, err)

	rep := decodeReport(t, out)
	assert.Equal(t, engine.ModeOffline, rep.Mode)
	assert.InDelta(t, 3413.34, rep.Footprint.Totals.TotalLocation, 1e-6)
	assert.InDelta(t, 3375.84, rep.Footprint.Totals.TotalMarket, 1e-6)
	require.NotNil(t, rep.Pathway)
	assert.Equal(t, 2024, rep.Pathway.BaseYear)
	assert.Len(t, rep.Footprint.Hotspots, 5)
}

func TestCalculate_TextWithoutCredentialsRunsOffline(t *testing.T) {
	setup(t)

	out, _, err := run(t, "calculate", "--example", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Example Corp")
	assert.Contains(t, out, "3,413.34 tCO2e")
}

func TestCalculate_TopFlag(t *testing.T) {
	setup(t)

	out, _, err := run(t, "calculate", "--example", "--offline", "--format", "json", "--top", "2")
	require.NoError(t, err)
	assert.Len(t, decodeReport(t, out).Footprint.Hotspots, 2)
}

func TestCalculate_ProfileFile(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "acme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
company_name: Acme
industry: technology
employee_count: 10
electricity_consumption: 100000
renewable_energy_percent: 50
`), 0o600))

	out, _, err := run(t, "calculate", "--profile", path, "--offline", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "company_name: Acme")
}

func TestCalculate_InvalidProfile(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"company_name":"Bad","employee_count":0}`), 0o600))

	_, _, err := run(t, "calculate", "--profile", path, "--offline")
	require.Error(t, err)
	assert.True(t, errors.Is(err, profile.ErrInvalidProfile))
}

func TestCalculate_FuelMustBeInCatalog(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "coal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
company_name: Coal Co
employee_count: 10
heating_fuel: coal
heating_fuel_amount: 50000
heating_fuel_unit: MMBtu
`), 0o600))

	_, _, err := run(t, "calculate", "--profile", path, "--offline")
	require.Error(t, err)
	assert.True(t, errors.Is(err, profile.ErrInvalidProfile))
	assert.Contains(t, err.Error(), "heating_fuel")

	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
version: 1.0.0
factors:
  fuel_factors:
    coal: 0.0954
  fuel_units:
    coal: MMBtu
`), 0o600))

	out, _, err := run(t, "calculate", "--profile", path, "--catalog", catalogPath, "--offline", "--format", "json")
	require.NoError(t, err)
	assert.InDelta(t, 4770.0, decodeReport(t, out).Footprint.Totals.Scope1, 1e-6)
}

func TestCalculate_FlagErrors(t *testing.T) {
	setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no profile", []string{"calculate", "--offline"}},
		{"profile and example", []string{"calculate", "--example", "--profile", "x.yaml"}},
		{"unknown format", []string{"calculate", "--example", "--offline", "--format", "pdf"}},
		{"xlsx to stdout", []string{"calculate", "--example", "--offline", "--format", "xlsx"}},
		{"missing profile file", []string{"calculate", "--profile", "missing.yaml", "--offline"}},
		{"missing catalog file", []string{"calculate", "--example", "--offline", "--catalog", "missing.yaml"}},
		{"bad log format", []string{"calculate", "--example", "--offline", "--log-format", "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestCalculate_XLSXOutput(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "report.xlsx")

	_, _, err := run(t, "calculate", "--example", "--offline", "--format", "xlsx", "--output", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestCalculate_CatalogOverride(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1.2.0\ntop_n: 3\n"), 0o600))

	out, _, err := run(t, "calculate", "--example", "--offline", "--format", "json", "--catalog", path)
	require.NoError(t, err)
	assert.Len(t, decodeReport(t, out).Footprint.Hotspots, 3)
}

func factorService(t *testing.T, authStatus int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/auth/token" {
			w.WriteHeader(authStatus)
			_, _ = w.Write([]byte(`{"access_token":"token"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCalculate_AuthFailureAborts(t *testing.T) {
	setup(t)
	srv := factorService(t, http.StatusUnauthorized)
	t.Setenv("GHG_SERVICE_BASE_URL", srv.URL)
	t.Setenv("GHG_SERVICE_API_KEY", "key")
	t.Setenv("GHG_SERVICE_CLIENT_ID", "client")

	_, _, err := run(t, "calculate", "--example")
	require.Error(t, err)
	assert.True(t, errors.Is(err, factorsvc.ErrAuthFailed))

	// --offline skips authentication entirely.
	_, _, err = run(t, "calculate", "--example", "--offline", "--log-level", "error")
	assert.NoError(t, err)
}

func TestCalculate_ServiceFailuresFallBack(t *testing.T) {
	setup(t)
	srv := factorService(t, http.StatusOK)
	t.Setenv("GHG_SERVICE_BASE_URL", srv.URL)
	t.Setenv("GHG_SERVICE_API_KEY", "key")
	t.Setenv("GHG_SERVICE_CLIENT_ID", "client")
	t.Setenv("GHG_SERVICE_RATE_LIMIT", "0")

	out, _, err := run(t, "calculate", "--example", "--format", "json", "--log-level", "error")
	require.NoError(t, err)

	rep := decodeReport(t, out)
	assert.Equal(t, engine.ModeOnline, rep.Mode)
	assert.Equal(t, 6, rep.Provenance.Fallbacks)
	assert.InDelta(t, 3413.34, rep.Footprint.Totals.TotalLocation, 1e-6)
}

func TestCatalogCmd(t *testing.T) {
	setup(t)

	out, _, err := run(t, "catalog")
	require.NoError(t, err)

	cat, err := catalog.Parse([]byte(out))
	require.NoError(t, err)
	def, err := catalog.Default()
	require.NoError(t, err)
	assert.Equal(t, def, cat)
}

func TestServe_ConfigErrors(t *testing.T) {
	setup(t)

	_, _, err := run(t, "serve", "--offline", "--listen", "not-an-address")
	assert.Error(t, err)

	t.Setenv(config.EnvCORSAllowedOrigins, "*")
	t.Setenv(config.EnvCORSAllowCredentials, "true")
	_, _, err = run(t, "serve", "--offline")
	assert.True(t, errors.Is(err, config.ErrWildcardCredentials))
}
