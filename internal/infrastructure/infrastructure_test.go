package infrastructure_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/JaimeStill/clausewise/internal/config"
	"github.com/JaimeStill/clausewise/internal/infrastructure"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		wantJSON  bool
		wantDebug bool
	}{
		{"text info", config.LoggingConfig{Level: "info", Format: "text"}, false, false},
		{"json debug", config.LoggingConfig{Level: "debug", Format: "json"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := infrastructure.NewLogger(&tt.cfg, &buf)

			logger.Debug("debug line")
			logger.Info("info line", "system", "test")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug emitted = %v, want %v", got, tt.wantDebug)
			}

			lines := strings.Split(strings.TrimSpace(out), "\n")
			last := lines[len(lines)-1]
			var decoded map[string]any
			isJSON := json.Unmarshal([]byte(last), &decoded) == nil
			if isJSON != tt.wantJSON {
				t.Errorf("json output = %v, want %v: %s", isJSON, tt.wantJSON, last)
			}
		})
	}
}
