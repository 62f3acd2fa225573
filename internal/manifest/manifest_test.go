package manifest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kawaiicleanup/assetcopier/internal/config"
	"github.com/kawaiicleanup/assetcopier/internal/copier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *copier.Result {
	result := &copier.Result{
		Outcomes: []copier.Outcome{
			{
				Category:    "faces",
				ID:          "grin",
				Source:      "Grinning Face",
				Status:      copier.StatusCopied,
				SourceFile:  "/tmp/fluentui-emoji/assets/Grinning Face/3D/grinning_face_3d.png",
				Destination: "assets/faces/grin.png",
				Hash:        "0123456789abcdef0123456789abcdef",
			},
			{
				Category:    "toys",
				ID:          "kite",
				Source:      "Kite",
				Status:      copier.StatusMissing,
				Reason:      copier.ReasonFolderNotFound,
				Destination: "assets/toys/kite.png",
			},
		},
	}
	for _, o := range result.Outcomes {
		result.Summary.Add(o)
	}
	return result
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	m := New(cfg, sampleResult())

	assert.NotEmpty(t, m.RunID)
	assert.False(t, m.CreatedAt.IsZero())
	assert.Equal(t, cfg.MappingPath(), m.Mapping)
	assert.Equal(t, copier.Summary{Total: 2, Copied: 1, Missing: 1}, m.Summary)
	require.Len(t, m.Records, 2)
	assert.Equal(t, "copied", m.Records[0].Status)
	assert.Equal(t, "folder not found", m.Records[1].Reason)
}

func TestSaveAndLoadRecords(t *testing.T) {
	m := New(config.Default(), sampleResult())

	for _, name := range []string{"run.json", "run.jsonl", "run.yaml", "run.parquet"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "manifests", name)
			require.NoError(t, Save(m, path))

			records, err := LoadRecords(path)
			require.NoError(t, err)
			assert.Equal(t, m.Records, records)
		})
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	err := Save(New(config.Default(), sampleResult()), filepath.Join(t.TempDir(), "run.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest format")
}

func TestLoadRecordsBadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":\"grin\"}\nnot json\n"), 0644))

	_, err := LoadRecords(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestStale(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "src")
	target := filepath.Join(root, "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(source, "Grinning Face", "3D"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(source, "Kite", "3D"), 0755))
	require.NoError(t, os.MkdirAll(target, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "Grinning Face", "3D", "grin.png"), []byte("grin"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(source, "Kite", "3D", "kite.png"), []byte("kite"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "asset-mapping.json"), []byte(`{
  "faces": [{"id": "grin", "source": "Grinning Face"}, {"id": "gone", "source": "Gone"}],
  "toys": [{"id": "kite", "source": "Kite"}]
}`), 0644))

	cfg := config.Config{SourceDir: source, TargetDir: target, MappingFile: "asset-mapping.json"}
	result, err := copier.New(cfg, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(root, "run.jsonl")
	require.NoError(t, Save(New(cfg, result), path))
	records, err := LoadRecords(path)
	require.NoError(t, err)

	stale, err := Stale(records)
	require.NoError(t, err)
	assert.Empty(t, stale)

	require.NoError(t, os.WriteFile(filepath.Join(target, "faces", "grin.png"), []byte("edited"), 0644))
	require.NoError(t, os.Remove(filepath.Join(target, "toys", "kite.png")))

	stale, err = Stale(records)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "grin", stale[0].ID)
	assert.Equal(t, "kite", stale[1].ID)
}

func TestSaveYAMLKeysMatchJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, Save(New(config.Default(), sampleResult()), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{"run_id:", "created_at:", "source_dir:", "target_dir:", "source_file:"} {
		assert.Contains(t, string(data), key)
	}
}
