package internal

import (
	"errors"
	"testing"

	"github.com/fennhauser/werkbank/internal/storage"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfigRejectsBadPort(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 0 should fail validation")
	}
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 70000 should fail validation")
	}
}

func TestConfigRequiresStoragePath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty storage path should fail validation")
	}
}

func TestHTTPAddress(t *testing.T) {
	cfg := HTTPConfig{Port: 9090}
	if got := cfg.Address(); got != ":9090" {
		t.Errorf("address = %q, want :9090", got)
	}
}

func TestGitEnabled(t *testing.T) {
	cfg := NewDefaultConfig()
	if !GitEnabled(cfg) {
		t.Error("git should be enabled by default")
	}

	t.Setenv(NoGitEnv, "1")
	if GitEnabled(cfg) {
		t.Errorf("%s must override the config", NoGitEnv)
	}
}

func TestGitDisabledByConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Git.Enabled = false
	if GitEnabled(cfg) {
		t.Error("git should be disabled by config")
	}
}

func TestSetupStorageUncheckedMissingKey(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Dirs.Archive = ""

	_, err := SetupStorageUnchecked(cfg, nil)
	if !errors.Is(err, storage.ErrFaultyConfig) {
		t.Fatalf("err = %v, want ErrFaultyConfig", err)
	}
	var fc *storage.FaultyConfigError
	if !errors.As(err, &fc) || fc.Key != "storage.dirs.archive" {
		t.Fatalf("err = %v, want the missing key named", err)
	}
}

func TestSetupStorageUnchecked(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Path = t.TempDir()
	cfg.Storage.BaseDir = "store"
	t.Setenv(NoGitEnv, "1")

	store, err := SetupStorageUnchecked(cfg, nil)
	if err != nil {
		t.Fatalf("SetupStorageUnchecked: %v", err)
	}
	if err := store.CreateDirs(); err != nil {
		t.Fatalf("CreateDirs: %v", err)
	}
	if err := store.HealthCheck(); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestSetupStorageFailsWithoutLayout(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Path = t.TempDir()
	cfg.Storage.BaseDir = "store"
	t.Setenv(NoGitEnv, "1")

	if _, err := SetupStorage(cfg, nil); !errors.Is(err, storage.ErrInvalidDirStructure) {
		t.Fatalf("err = %v, want ErrInvalidDirStructure before init", err)
	}
}
