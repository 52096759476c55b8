package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FAMILY_NAMES", " Anna , Ben ,, Clara ")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"Anna", "Ben", "Clara"}
	if len(cfg.FamilyNames) != len(want) {
		t.Fatalf("FamilyNames = %v, want %v", cfg.FamilyNames, want)
	}
	for i := range want {
		if cfg.FamilyNames[i] != want[i] {
			t.Errorf("FamilyNames[%d] = %q, want %q", i, cfg.FamilyNames[i], want[i])
		}
	}
	if cfg.StoreDriver != DriverPostgres {
		t.Errorf("StoreDriver = %q", cfg.StoreDriver)
	}
	if cfg.IsDev() {
		t.Error("production must not report IsDev")
	}
	if cfg.ServerAddr != ":3000" {
		t.Errorf("default ServerAddr = %q", cfg.ServerAddr)
	}
}

func TestLoadFromYAMLRoster(t *testing.T) {
	dir := t.TempDir()
	roster := filepath.Join(dir, "family.yaml")
	content := "members:\n  - name: Anna\n    email: anna@example.com\n  - name: Ben\n"
	if err := os.WriteFile(roster, []byte(content), 0o644); err != nil {
		t.Fatalf("writing roster: %v", err)
	}

	t.Setenv("FAMILY_NAMES", "")
	t.Setenv("CONFIG_FILE", roster)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.FamilyNames) != 2 || cfg.FamilyNames[0] != "Anna" || cfg.FamilyNames[1] != "Ben" {
		t.Errorf("FamilyNames = %v", cfg.FamilyNames)
	}
	if cfg.FamilyEmails["Anna"] != "anna@example.com" {
		t.Errorf("FamilyEmails = %v", cfg.FamilyEmails)
	}
	if _, ok := cfg.FamilyEmails["Ben"]; ok {
		t.Error("members without an email must not appear in the map")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("no roster at all", func(t *testing.T) {
		t.Setenv("FAMILY_NAMES", "")
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
		if _, err := Load(); err == nil {
			t.Error("expected an error without any roster")
		}
	})

	t.Run("unknown store driver", func(t *testing.T) {
		t.Setenv("FAMILY_NAMES", "Anna")
		t.Setenv("STORE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Error("expected an error for an unknown driver")
		}
	})

	t.Run("bad link check interval", func(t *testing.T) {
		t.Setenv("FAMILY_NAMES", "Anna")
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("LINK_CHECK_INTERVAL", "often")
		if _, err := Load(); err == nil {
			t.Error("expected an error for a malformed interval")
		}
	})
}
