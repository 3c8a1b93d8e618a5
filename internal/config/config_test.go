package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Port", cfg.Port, "8080"},
		{"DataDir", cfg.DataDir, "./data"},
		{"Watch", cfg.Watch, true},
		{"CORSAllowedOrigins", cfg.CORSAllowedOrigins, ""},
		{"Truncate.Threshold", cfg.Truncate.Threshold, 1e-7},
		{"Truncate.StartTT", cfg.Truncate.StartTT, -36525.0},
		{"Truncate.EndTT", cfg.Truncate.EndTT, 36525.0},
		{"Export.StepDays", cfg.Export.StepDays, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "port",
			envKey: "VSOP_PORT",
			envVal: "9090",
			field:  func(c Config) any { return c.Port },
			want:   "9090",
		},
		{
			name:   "data_dir",
			envKey: "VSOP_DATA_DIR",
			envVal: "/srv/vsop87",
			field:  func(c Config) any { return c.DataDir },
			want:   "/srv/vsop87",
		},
		{
			name:   "watch",
			envKey: "VSOP_WATCH",
			envVal: "false",
			field:  func(c Config) any { return c.Watch },
			want:   false,
		},
		{
			name:   "truncate.threshold",
			envKey: "VSOP_TRUNCATE_THRESHOLD",
			envVal: "1e-9",
			field:  func(c Config) any { return c.Truncate.Threshold },
			want:   1e-9,
		},
		{
			name:   "export.step_days",
			envKey: "VSOP_EXPORT_STEP_DAYS",
			envVal: "0.5",
			field:  func(c Config) any { return c.Export.StepDays },
			want:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)

			v := viper.New()
			if err := Init(v, ""); err != nil {
				t.Fatalf("Init: %v", err)
			}
			cfg, err := LoadFrom(v)
			if err != nil {
				t.Fatalf("LoadFrom: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestInit_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vsop.yaml")
	data := "port: \"3000\"\ncors_allowed_origins: https://a.example\ntruncate:\n  threshold: 5.0e-8\n  end_tt: 3652.5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	if err := Init(v, path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Port != "3000" || cfg.CORSAllowedOrigins != "https://a.example" {
		t.Errorf("unexpected server config: %+v", cfg)
	}
	if cfg.Truncate.Threshold != 5e-8 || cfg.Truncate.EndTT != 3652.5 {
		t.Errorf("unexpected truncate config: %+v", cfg.Truncate)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Truncate.StartTT != -36525 || cfg.DataDir != "./data" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	if err := Init(v, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		key string
		val any
	}{
		{"truncate.threshold", -1.0},
		{"export.step_days", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			if _, err := LoadFrom(v); err == nil {
				t.Errorf("expected error for %s=%v", tt.key, tt.val)
			}
		})
	}
}
