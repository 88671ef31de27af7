package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/roadcheck/internal/model"
)

// chdirTemp moves the test into an empty directory so no config.yaml or .env
// from the repo is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func clearKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANTHROPIC_API_KEY", "ROADCHECK_ANTHROPIC_KEY", "PERPLEXITY_API_KEY", "ROADCHECK_PERPLEXITY_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	clearKeys(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.Oracle.Provider)
	assert.True(t, cfg.Oracle.Search)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, int64(256), cfg.Anthropic.MaxTokens)
	assert.Equal(t, int64(3), cfg.Anthropic.SearchMaxUses)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Perplexity.BaseURL)
	assert.Equal(t, "sonar", cfg.Perplexity.Model)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocode.BaseURL)
	assert.Equal(t, "roadcheck/1.0", cfg.Geocode.UserAgent)
	assert.InDelta(t, 1.0, cfg.Geocode.RPS, 0.001)
	assert.Empty(t, cfg.Rules.File)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Anthropic.Key)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
oracle:
  provider: perplexity
  search: false
geocode:
  user_agent: fleet-monitor/2.0
log:
  level: debug
  format: json
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderPerplexity, cfg.Oracle.Provider)
	assert.False(t, cfg.Oracle.Search)
	assert.Equal(t, "fleet-monitor/2.0", cfg.Geocode.UserAgent)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocode.BaseURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("ROADCHECK_LOG_LEVEL", "warn")
	t.Setenv("ROADCHECK_GEOCODE_BASE_URL", "http://localhost:8088")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "http://localhost:8088", cfg.Geocode.BaseURL)
}

func TestLoadProviderNativeKeyEnv(t *testing.T) {
	chdirTemp(t)
	clearKeys(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-native")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-native")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-native", cfg.Anthropic.Key)
	assert.Equal(t, "pplx-native", cfg.Perplexity.Key)
}

func TestLoadPrefixedKeyWins(t *testing.T) {
	chdirTemp(t)
	clearKeys(t)
	t.Setenv("ROADCHECK_ANTHROPIC_KEY", "sk-ant-prefixed")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-native")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-prefixed", cfg.Anthropic.Key)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearKeys(t)
	require.NoError(t, os.Unsetenv("ROADCHECK_ANTHROPIC_KEY"))
	require.NoError(t, os.Unsetenv("ANTHROPIC_API_KEY"))
	t.Cleanup(func() { os.Unsetenv("ANTHROPIC_API_KEY") }) //nolint:errcheck

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ANTHROPIC_API_KEY=sk-ant-dotenv\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-dotenv", cfg.Anthropic.Key)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("invalid: [yaml: bad"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Oracle.Provider = ProviderAnthropic
	cfg.Anthropic.Key = "sk-ant-key"
	cfg.Geocode.BaseURL = "https://nominatim.openstreetmap.org"
	cfg.Geocode.UserAgent = "roadcheck/1.0"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate_AllPresent(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("analyze"))
	assert.NoError(t, validDefaults().Validate("serve"))
}

func TestValidate_MissingAnthropicKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Anthropic.Key = ""

	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissingCredential))
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestValidate_MissingPerplexityKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Oracle.Provider = ProviderPerplexity

	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissingCredential))
	assert.Contains(t, err.Error(), "PERPLEXITY_API_KEY")
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := validDefaults()
	cfg.Oracle.Provider = "gemini"

	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: validation failed")
	assert.Contains(t, err.Error(), "oracle.provider")
}

func TestValidate_MissingGeocodeFields(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode = GeocodeConfig{}

	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geocode.base_url is required")
	assert.Contains(t, err.Error(), "geocode.user_agent is required")
}

func TestValidate_ServePort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	assert.NoError(t, cfg.Validate("analyze"))
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestAPIKeyFollowsProvider(t *testing.T) {
	cfg := validDefaults()
	cfg.Perplexity.Key = "pplx-key"
	assert.Equal(t, "sk-ant-key", cfg.APIKey())

	cfg.SetAPIKey("sk-ant-override")
	assert.Equal(t, "sk-ant-override", cfg.Anthropic.Key)

	cfg.Oracle.Provider = ProviderPerplexity
	assert.Equal(t, "pplx-key", cfg.APIKey())
	cfg.SetAPIKey("pplx-override")
	assert.Equal(t, "pplx-override", cfg.Perplexity.Key)
	assert.Equal(t, "sk-ant-override", cfg.Anthropic.Key)
}

func TestRuleTable_Default(t *testing.T) {
	cfg := validDefaults()

	tbl, err := cfg.RuleTable()
	require.NoError(t, err)
	assert.InDelta(t, 110, tbl.SpeedLimits[model.RoadTypeHighway], 0.001)
}

func TestRuleTable_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  speed_limits:\n    highway: 120\n"), 0o644))

	cfg := validDefaults()
	cfg.Rules.File = path

	tbl, err := cfg.RuleTable()
	require.NoError(t, err)
	assert.InDelta(t, 120, tbl.SpeedLimits[model.RoadTypeHighway], 0.001)
}

func TestRuleTable_MissingFile(t *testing.T) {
	cfg := validDefaults()
	cfg.Rules.File = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := cfg.RuleTable()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: load rule table")
}
