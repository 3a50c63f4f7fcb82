package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smartflow.env")
	content := "SMARTFLOW_ADDR=0.0.0.0:9000\nSMARTFLOW_TEST_KEEP=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SMARTFLOW_ADDR", "")
	os.Unsetenv("SMARTFLOW_ADDR")
	t.Setenv("SMARTFLOW_TEST_KEEP", "from-env")

	if err := LoadEnvFile(path, true); err != nil {
		t.Fatal(err)
	}
	if got := GetServerAddr(DefaultConfig()); got != "0.0.0.0:9000" {
		t.Fatalf("GetServerAddr = %q, want address from env file", got)
	}
	if got := os.Getenv("SMARTFLOW_TEST_KEEP"); got != "from-env" {
		t.Fatalf("SMARTFLOW_TEST_KEEP = %q, existing env must win", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.env")
	if err := LoadEnvFile(path, false); err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if err := LoadEnvFile(path, true); err == nil {
		t.Fatal("required missing file should fail")
	}
}
