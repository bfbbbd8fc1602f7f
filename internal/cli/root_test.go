package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vitrify/igucycle/internal/params"
)

const testManifest = `
locations:
  origin:
    name: Site A
  processor:
    name: Works
  destination:
    name: Site B
  recycler:
    name: Float Plant
  landfill:
    name: Tip
routes:
  origin_to_processor:
    truck_km: 100
  processor_to_destination:
    truck_km: 200
  processor_to_recycler:
    truck_km: 150
  origin_to_landfill:
    truck_km: 50
  processor_to_landfill:
    truck_km: 30
groups:
  - name: office-double
    quantity: 4
    width_mm: 1200
    height_mm: 900
    glazing: double
    panes:
      - thickness_mm: 4
      - thickness_mm: 4
    cavities_mm: [16]
    mass_per_m2: 25
`

func writeTestManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd("1.2.3")
	assert.Equal(t, "igucycle", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[strings.Fields(c.Use)[0]] = true
	}
	for _, want := range []string{"run", "compare", "batch", "params", "pathways"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestPathwaysCommand(t *testing.T) {
	out, err := execute(t, "pathways")
	require.NoError(t, err)

	for _, id := range []string{"system-reuse", "closed-loop", "open-loop-combined", "landfill"} {
		assert.Contains(t, out, id)
	}
}

func TestRunCommand(t *testing.T) {
	manifest := writeTestManifest(t)

	out, err := execute(t, "run", "--manifest", manifest, "--pathway", "landfill")
	require.NoError(t, err)
	assert.Contains(t, out, "Straight to Landfill")
	assert.Contains(t, out, "Removal")
	assert.Contains(t, out, "office-double")
}

func TestRunCommandErrors(t *testing.T) {
	manifest := writeTestManifest(t)

	t.Run("unknown pathway", func(t *testing.T) {
		_, err := execute(t, "run", "--manifest", manifest, "--pathway", "incineration")
		assert.Error(t, err)
	})

	t.Run("row out of range", func(t *testing.T) {
		_, err := execute(t, "run", "--manifest", manifest, "--pathway", "landfill", "--row", "5")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("missing manifest file", func(t *testing.T) {
		_, err := execute(t, "run", "--manifest", "/does/not/exist.yaml", "--pathway", "landfill")
		assert.Error(t, err)
	})
}

func TestCompareCommand(t *testing.T) {
	manifest := writeTestManifest(t)

	out, err := execute(t, "compare", "--manifest", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "Pathway comparison")
	assert.Contains(t, out, "Straight to Landfill")
	assert.Contains(t, out, "System Reuse")
}

func TestBatchCommand(t *testing.T) {
	manifest := writeTestManifest(t)

	t.Run("csv report", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "report.csv")
		_, err := execute(t, "batch", "--manifest", manifest, "--out", outPath)
		require.NoError(t, err)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "row,product,pathway")
		assert.Contains(t, content, "office-double")
		assert.Contains(t, content, "[Stage] Removal")
	})

	t.Run("json report", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "report.json")
		_, err := execute(t, "batch", "--manifest", manifest, "--out", outPath, "--format", "json")
		require.NoError(t, err)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"pathway": "landfill"`)
	})

	t.Run("pathway subset", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "report.csv")
		_, err := execute(t, "batch", "--manifest", manifest, "--out", outPath, "--pathway", "landfill")
		require.NoError(t, err)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "system-reuse")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "batch", "--manifest", manifest, "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown report format")
	})
}

func TestParamsCommands(t *testing.T) {
	t.Run("init writes the default catalog", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "params.yaml")
		_, err := execute(t, "params", "init", "--out", outPath)
		require.NoError(t, err)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)

		var cat params.Catalog
		require.NoError(t, yaml.Unmarshal(data, &cat))
		assert.Equal(t, params.SchemaVersion, cat.SchemaVersion)
		assert.NotEmpty(t, cat.Params)
	})

	t.Run("init refuses to overwrite", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "params.yaml")
		require.NoError(t, os.WriteFile(outPath, []byte("x"), 0o644))

		_, err := execute(t, "params", "init", "--out", outPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")

		_, err = execute(t, "params", "init", "--out", outPath, "--force")
		assert.NoError(t, err)
	})

	t.Run("validate accepts a good catalog", func(t *testing.T) {
		data, err := yaml.Marshal(params.Default())
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "params.yaml")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		out, err := execute(t, "params", "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, "ok")
	})

	t.Run("validate rejects a broken catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "params.yaml")
		require.NoError(t, os.WriteFile(path, []byte("schema_version: 9.0.0"), 0o644))

		_, err := execute(t, "params", "validate", path)
		assert.Error(t, err)
	})

	t.Run("show lists keys", func(t *testing.T) {
		out, err := execute(t, "params", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "transport.backhaul_factor")
	})
}

func TestCustomParamsFlag(t *testing.T) {
	manifest := writeTestManifest(t)

	// A catalog missing required keys must abort the run.
	path := filepath.Join(t.TempDir(), "sparse.yaml")
	data, err := yaml.Marshal(params.Catalog{SchemaVersion: params.SchemaVersion})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = execute(t, "--params", path, "run", "--manifest", manifest, "--pathway", "landfill")
	require.Error(t, err)
	assert.ErrorIs(t, err, params.ErrMissingParameter)
}
