package openai

import (
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: Config{APIKey: "sk-test", Model: "gpt-4o", Temperature: 0.2, MaxRetries: 3},
		},
		{
			name:    "missing api key",
			config:  Config{Model: "gpt-4o"},
			wantErr: true,
		},
		{
			name:    "missing model",
			config:  Config{APIKey: "sk-test"},
			wantErr: true,
		},
		{
			name:    "temperature out of range",
			config:  Config{APIKey: "sk-test", Model: "gpt-4o", Temperature: 3.0},
			wantErr: true,
		},
		{
			name:    "negative retries",
			config:  Config{APIKey: "sk-test", Model: "gpt-4o", MaxRetries: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigWithTemperature(t *testing.T) {
	base := &Config{APIKey: "sk-test", Model: "gpt-4o", Temperature: 0.2}
	derived := base.WithTemperature(0.0)

	if derived.Temperature != 0.0 {
		t.Errorf("derived temperature = %f, want 0.0", derived.Temperature)
	}
	if base.Temperature != 0.2 {
		t.Errorf("base temperature mutated to %f", base.Temperature)
	}
	if derived.Model != base.Model || derived.APIKey != base.APIKey {
		t.Error("derived config lost unrelated fields")
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_TEMPERATURE", "0.5")
	t.Setenv("OPENAI_MAX_RETRIES", "5")

	config, err := NewConfigFromEnv()
	if err != nil {
		t.Fatalf("NewConfigFromEnv() error: %v", err)
	}
	if config.APIKey != "sk-env" {
		t.Errorf("APIKey = %q", config.APIKey)
	}
	if config.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", config.Model)
	}
	if config.Temperature != 0.5 {
		t.Errorf("Temperature = %f", config.Temperature)
	}
	if config.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", config.MaxRetries)
	}
}
