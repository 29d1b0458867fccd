// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	v := New()
	v.Set(KeyRoot, "/data/audio")

	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Bands != 60 || cfg.Frames != 41 || cfg.SampleRate != 22050 {
		t.Errorf("shape defaults = (%d, %d, %d), want (60, 41, 22050)", cfg.Bands, cfg.Frames, cfg.SampleRate)
	}
	if len(cfg.Folders) != 10 || cfg.Folders[0] != "fold1" || cfg.Folders[9] != "fold10" {
		t.Errorf("Folders = %v, want fold1..fold10", cfg.Folders)
	}
	if cfg.Pattern != "*.wav" || cfg.Output != "urbansound8k.msgpack.zst" || !cfg.Progress {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Log.Level != "info" || cfg.FailFast {
		t.Errorf("Log = %+v, FailFast = %v", cfg.Log, cfg.FailFast)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "melfeat.yaml")
	content := `
root: /srv/urbansound8k/audio
folders: [fold3, fold4]
bands: 128
frames: 20
fail_fast: true
log:
  level: debug
  json: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := New()
	v.Set(KeyFrames, 30) // explicit overrides win over the file

	cfg, err := Load(v, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Root != "/srv/urbansound8k/audio" || cfg.Bands != 128 || cfg.Frames != 30 || !cfg.FailFast {
		t.Errorf("cfg = %+v", cfg)
	}
	if strings.Join(cfg.Folders, ",") != "fold3,fold4" {
		t.Errorf("Folders = %v, want [fold3 fold4]", cfg.Folders)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want default 22050", cfg.SampleRate)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MELFEAT_ROOT", "/env/root")
	t.Setenv("MELFEAT_SAMPLE_RATE", "16000")
	t.Setenv("MELFEAT_LOG_LEVEL", "warn")

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Root != "/env/root" || cfg.SampleRate != 16000 || cfg.Log.Level != "warn" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	v := New()
	v.Set(KeyRoot, "/data")

	if _, err := Load(v, filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want %v", err, ErrInvalid)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Root:       "/data",
			Folders:    []string{"fold1"},
			Pattern:    "*.wav",
			Bands:      60,
			Frames:     41,
			SampleRate: 22050,
			Output:     "out.msgpack.zst",
			Log:        LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "native rate", mutate: func(c *Config) { c.SampleRate = 0 }},
		{name: "no root", mutate: func(c *Config) { c.Root = "" }, wantErr: true},
		{name: "no folders", mutate: func(c *Config) { c.Folders = nil }, wantErr: true},
		{name: "bad pattern", mutate: func(c *Config) { c.Pattern = "[" }, wantErr: true},
		{name: "empty pattern", mutate: func(c *Config) { c.Pattern = "" }, wantErr: true},
		{name: "zero bands", mutate: func(c *Config) { c.Bands = 0 }, wantErr: true},
		{name: "too few frames", mutate: func(c *Config) { c.Frames = 8 }, wantErr: true},
		{name: "negative rate", mutate: func(c *Config) { c.SampleRate = -1 }, wantErr: true},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -2 }, wantErr: true},
		{name: "no output", mutate: func(c *Config) { c.Output = "" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalid)
			}
		})
	}
}
