package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/fentz26/reviewer/internal/filter"
)

// isolate points HOME and XDG_CONFIG_HOME at a temp dir and chdirs into it so
// no real config file leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return tmpDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scoring.BasePriorityFactor != 1.42 {
		t.Errorf("Scoring.BasePriorityFactor = %v, want 1.42", cfg.Scoring.BasePriorityFactor)
	}
	if cfg.Scoring.DelayPerRequest != 24*time.Hour {
		t.Errorf("Scoring.DelayPerRequest = %v, want 24h", cfg.Scoring.DelayPerRequest)
	}
	if want := filepath.Join(home, ".reviewer", "reviewer.db"); cfg.Database.Path != want {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, want)
	}
	if !cfg.UI.ShowDetail {
		t.Error("UI.ShowDetail should default to true")
	}
	if cfg.InitialCriteria() != (filter.Criteria{}) {
		t.Errorf("InitialCriteria() = %v, want zero", cfg.InitialCriteria())
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	tmpDir := isolate(t)

	writeFile(t, filepath.Join(tmpDir, "xdg", GlobalConfigDir, GlobalConfigFile), `
scoring:
  delay_per_request: 12h
ui:
  show_detail: false
`)
	writeFile(t, filepath.Join(ProjectConfigDir, ProjectConfigFile), `
scoring:
  delay_per_request: 6h
log:
  rotation:
    max_backups: 9
`)
	explicit := filepath.Join(tmpDir, "explicit.yaml")
	writeFile(t, explicit, `
database:
  path: /tmp/explicit.db
`)

	v := viper.New()
	v.Set("config", explicit)
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scoring.DelayPerRequest != 6*time.Hour {
		t.Errorf("project file should override global, got %v", cfg.Scoring.DelayPerRequest)
	}
	if cfg.UI.ShowDetail {
		t.Error("global file should set show_detail=false")
	}
	if cfg.Log.Rotation.MaxBackups != 9 {
		t.Errorf("Log.Rotation.MaxBackups = %d, want 9", cfg.Log.Rotation.MaxBackups)
	}
	if cfg.Log.Rotation.MaxSizeMB != 10 {
		t.Errorf("untouched defaults should survive, got MaxSizeMB=%d", cfg.Log.Rotation.MaxSizeMB)
	}
	if cfg.Database.Path != "/tmp/explicit.db" {
		t.Errorf("Database.Path = %q, want /tmp/explicit.db", cfg.Database.Path)
	}
}

func TestLoadConfig_ExplicitFileMustExist(t *testing.T) {
	isolate(t)
	v := viper.New()
	v.Set("config", "does-not-exist.yaml")
	if _, err := LoadConfig(v); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	isolate(t)
	t.Setenv("REVIEWER_UI_REQUIRES_INTERNET", "yes")

	v := viper.New()
	v.SetEnvPrefix("REVIEWER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got := cfg.InitialCriteria().RequiresInternet; got != filter.Yes {
		t.Errorf("InitialCriteria().RequiresInternet = %v, want yes", got)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	isolate(t)
	writeFile(t, filepath.Join(ProjectConfigDir, ProjectConfigFile), `
ui:
  requires_internet: sometimes
`)
	if _, err := LoadConfig(viper.New()); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveConfig(t *testing.T) {
	tmpDir := isolate(t)
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Scoring.DelayPerRequest = 90 * time.Minute
	if err := SaveConfig(path, cfg, false); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), "delay_per_request: 1h30m0s") {
		t.Errorf("expected duration as string, got:\n%s", data)
	}

	if err := SaveConfig(path, cfg, false); err == nil {
		t.Error("expected error when file exists and overwrite is false")
	}
	if err := SaveConfig(path, cfg, true); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}

	v := viper.New()
	v.Set("config", path)
	loaded, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Scoring.DelayPerRequest != 90*time.Minute {
		t.Errorf("round trip DelayPerRequest = %v", loaded.Scoring.DelayPerRequest)
	}

	bad := Default()
	bad.Scoring.BasePriorityFactor = 0
	if err := SaveConfig(filepath.Join(tmpDir, "bad.yaml"), bad, false); err == nil {
		t.Error("expected validation error")
	}
}
