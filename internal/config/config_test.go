package config

import "testing"

func TestLoadAppliesDefaultsWithoutEnvFile(t *testing.T) {
	t.Setenv("CSTEP_INPUT_DIR", "")
	t.Setenv("CSTEP_OUTPUT_FILE", "")
	cfg, err := Load("does-not-exist.env")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.InputDir != "inputs" {
		t.Fatalf("expected default input dir, got %q", cfg.InputDir)
	}
	if cfg.OutputFile != "output.c" {
		t.Fatalf("expected default output file, got %q", cfg.OutputFile)
	}
}

func TestLoadHonorsExplicitEnv(t *testing.T) {
	t.Setenv("CSTEP_INPUT_DIR", "myinputs")
	cfg, err := Load("does-not-exist.env")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.InputDir != "myinputs" {
		t.Fatalf("expected myinputs, got %q", cfg.InputDir)
	}
}

func TestAllowsOverwriteWithNoPassphraseConfigured(t *testing.T) {
	cfg := &Config{}
	if !cfg.AllowsOverwrite("anything") {
		t.Fatalf("expected overwrite allowed when no passphrase hash is configured")
	}
}

func TestAllowsOverwriteVerifiesAgainstHash(t *testing.T) {
	hash, err := HashPassphrase("correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	cfg := &Config{WritePassphraseHash: hash}
	if !cfg.AllowsOverwrite("correct-horse") {
		t.Fatalf("expected correct passphrase to verify")
	}
	if cfg.AllowsOverwrite("wrong") {
		t.Fatalf("expected wrong passphrase to be rejected")
	}
}
