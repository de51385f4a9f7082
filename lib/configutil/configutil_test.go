package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string `json:"name"`
	Port    int    `json:"port"`
	AppID   string `json:"app_id"`
	Enabled bool   `json:"enabled"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		// comments are allowed
		name: "default",
		port: 8000,
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ port: 9000, enabled: true }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 9000, cfg.Port)
	require.True(t, cfg.Enabled)
}

func TestReadConfigExpandsEnv(t *testing.T) {
	t.Setenv("INSIGHTS_TEST_APP_ID", "app-123")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ app_id: "${INSIGHTS_TEST_APP_ID}", name: "pa$$word" }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "app-123", cfg.AppID)
	require.Equal(t, "pa$$word", cfg.Name)
}

func TestReadConfigNotFound(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "missing.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	err := os.MkdirAll(nested, 0777)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "insights-test.json5"), `{ name: "found" }`)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	err = os.Chdir(nested)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := ReadRecursively[testConfig]("insights-test.json5")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "found", cfg.Name)
}
