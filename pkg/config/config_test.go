package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
api_key: sk-or-test
base_url: https://proxy.example.com/api/v1
request_timeout: 45s
site_url: https://example.com/promptly
app_name: Promptly

default_model: google/gemma-2-9b-it:free

defaults:
  temperature: 0.3
  max_tokens: 200

example_prompts:
  - "Tell me a joke."
  - "Summarize the news."

experiments:
  - name: Greeting
    prompt: "Say hello in three languages."
    temperature: 0.5
    max_tokens: 80
`

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "promptly.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "sk-or-test", cfg.APIKey)
	assert.Equal(t, "https://proxy.example.com/api/v1", cfg.BaseURL)
	assert.Equal(t, "45s", cfg.RequestTimeout)
	assert.Equal(t, "https://example.com/promptly", cfg.SiteURL)
	assert.Equal(t, "Promptly", cfg.AppName)
	assert.Equal(t, "google/gemma-2-9b-it:free", cfg.DefaultModel)

	require.NotNil(t, cfg.Defaults.Temperature)
	assert.InDelta(t, 0.3, *cfg.Defaults.Temperature, 1e-9)
	require.NotNil(t, cfg.Defaults.MaxTokens)
	assert.Equal(t, 200, *cfg.Defaults.MaxTokens)

	assert.Equal(t, []string{"Tell me a joke.", "Summarize the news."}, cfg.ExamplePrompts)

	require.Len(t, cfg.Experiments, 1)
	assert.Equal(t, "Greeting", cfg.Experiments[0].Name)
	assert.Equal(t, "Say hello in three languages.", cfg.Experiments[0].Prompt)

	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_UnreadableFile(t *testing.T) {
	dir := t.TempDir()

	// A directory where a file is expected produces a read error that is
	// not ErrNotExist.
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "api_key: [unclosed"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("PROMPTLY_TEST_API_KEY", "sk-from-env")

	cfg, err := Load(writeConfig(t, "api_key: ${PROMPTLY_TEST_API_KEY}\n"))

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.APIKey)
}

// --- Validate tests ---

func TestValidate_BadTimeout(t *testing.T) {
	cfg := Config{RequestTimeout: "soon"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request_timeout")
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := Config{RequestTimeout: "-5s"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")
}

func TestValidate_DefaultsOutOfRange(t *testing.T) {
	temp := 3.5
	cfg := Config{Defaults: GenerationConfig{Temperature: &temp}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defaults")
}

func TestValidate_UnknownDefaultModel(t *testing.T) {
	cfg := Config{DefaultModel: "nobody/nothing"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_model")
}

func TestValidate_DuplicateModelID(t *testing.T) {
	cfg := Config{Models: []ModelConfig{
		{ID: "a/b", Name: "One"},
		{ID: "a/b", Name: "Two"},
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestValidate_ExperimentMissingName(t *testing.T) {
	cfg := Config{Experiments: []ExperimentConfig{{Prompt: "hello"}}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "experiment name")
}

func TestValidate_ExperimentEmptyPrompt(t *testing.T) {
	cfg := Config{Experiments: []ExperimentConfig{{Name: "Empty", Prompt: "  "}}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Empty")
}

func TestValidate_DuplicateExperimentName(t *testing.T) {
	cfg := Config{Experiments: []ExperimentConfig{
		{Name: "Same", Prompt: "one"},
		{Name: "Same", Prompt: "two"},
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate experiment")
}

// --- accessor tests ---

func TestResolveAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-env")

	cfg := Config{APIKey: "sk-file"}
	assert.Equal(t, "sk-file", cfg.ResolveAPIKey())

	cfg.APIKey = ""
	assert.Equal(t, "sk-env", cfg.ResolveAPIKey())

	t.Setenv(EnvAPIKey, "")
	assert.Empty(t, cfg.ResolveAPIKey())
}

func TestSettings_Defaults(t *testing.T) {
	s := Default().Settings()

	assert.InDelta(t, 0.7, s.Temperature, 1e-9)
	assert.Equal(t, 500, s.MaxTokens)
}

func TestSettings_Overrides(t *testing.T) {
	temp := 0.0
	tokens := 64
	cfg := Config{Defaults: GenerationConfig{Temperature: &temp, MaxTokens: &tokens}}

	s := cfg.Settings()

	assert.Zero(t, s.Temperature)
	assert.Equal(t, 64, s.MaxTokens)
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), Default().Timeout())
	assert.Equal(t, 45*time.Second, Config{RequestTimeout: "45s"}.Timeout())
	assert.Equal(t, time.Duration(0), Config{RequestTimeout: "junk"}.Timeout())
}

func TestCatalog_Default(t *testing.T) {
	cat, err := Default().Catalog()

	require.NoError(t, err)
	assert.Equal(t, 4, cat.Len())
}

func TestCatalog_FromConfig(t *testing.T) {
	cfg := Config{Models: []ModelConfig{
		{ID: "mistralai/mistral-7b-instruct:free", Name: "Mistral 7B", Free: true},
	}}

	cat, err := cfg.Catalog()

	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	first, ok := cat.First()
	require.True(t, ok)
	assert.Equal(t, "Mistral 7B", first.Name)
	assert.True(t, first.Free)
}

func TestExamples(t *testing.T) {
	assert.Equal(t, DefaultExamples(), Default().Examples())

	cfg := Config{ExamplePrompts: []string{"Custom one."}}
	assert.Equal(t, []string{"Custom one."}, cfg.Examples())
}

func TestDefaultExamples_Count(t *testing.T) {
	assert.Len(t, DefaultExamples(), 5)
}
