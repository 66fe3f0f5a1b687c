package prompts_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/clausewise/internal/prompts"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		raw     string
		want    prompts.Stage
		wantErr error
	}{
		{"detect", prompts.StageDetect, nil},
		{"analyze_free", prompts.StageAnalyzeFree, nil},
		{"analyze_premium", prompts.StageAnalyzePremium, nil},
		{"classify", "", prompts.ErrInvalidStage},
		{"", "", prompts.ErrInvalidStage},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := prompts.ParseStage(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("stage = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStageFor(t *testing.T) {
	tests := []struct {
		tier    string
		want    prompts.Stage
		wantErr error
	}{
		{"free", prompts.StageAnalyzeFree, nil},
		{"premium", prompts.StageAnalyzePremium, nil},
		{"enterprise", "", prompts.ErrInvalidTier},
		{"", "", prompts.ErrInvalidTier},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			got, err := prompts.StageFor(tt.tier)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("stage = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	t.Run("truncates to window", func(t *testing.T) {
		text := strings.Repeat("a", prompts.DetectWindow) + "TAIL"
		got := prompts.Detect(text)

		if strings.Contains(got, "TAIL") {
			t.Error("prompt includes text beyond the window")
		}
		if !strings.Contains(got, strings.Repeat("a", prompts.DetectWindow)) {
			t.Error("prompt is missing the window")
		}
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		text := strings.Repeat("é", prompts.DetectWindow) + "TAIL"
		got := prompts.Detect(text)

		if strings.Contains(got, "TAIL") || !strings.Contains(got, strings.Repeat("é", prompts.DetectWindow)) {
			t.Error("window should hold exactly DetectWindow runes")
		}
	})

	t.Run("asks for a bare type", func(t *testing.T) {
		got := prompts.Detect("short")
		if !strings.Contains(got, "Do not include any JSON") {
			t.Error("detect prompt should forbid JSON output")
		}
		if !strings.HasSuffix(got, "Contract text:\nshort") {
			t.Errorf("prompt should end with the contract text: %q", got)
		}
	})
}

func TestAnalyze(t *testing.T) {
	long := strings.Repeat("clause ", 2000) + "END"

	tests := []struct {
		name     string
		stage    prompts.Stage
		contains []string
		excludes []string
	}{
		{
			"free",
			prompts.StageAnalyzeFree,
			[]string{"Lease Agreement contract", "at least 5 potential risks", `"overallScore"`},
			[]string{"suggestedAlternative", "recommendations"},
		},
		{
			"premium",
			prompts.StageAnalyzePremium,
			[]string{"Lease Agreement contract", "at least 10 potential risks", "suggestedAlternative", "intellectualPropertyClauses", "3-5 paragraphs"},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prompts.Analyze(tt.stage, "Lease Agreement", long)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if !strings.HasSuffix(got, long) {
				t.Error("analysis prompt must carry the full text")
			}
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("missing %q", s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("unexpected %q", s)
				}
			}
		})
	}

	if _, err := prompts.Analyze(prompts.StageDetect, "x", "y"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("detect stage error = %v", err)
	}
}

func TestResponseKeys(t *testing.T) {
	free, err := prompts.ResponseKeys(prompts.StageAnalyzeFree)
	if err != nil {
		t.Fatalf("free: %v", err)
	}
	want := []string{"opportunities", "overallScore", "risks", "summary"}
	if !slices.Equal(free, want) {
		t.Errorf("free keys = %v, want %v", free, want)
	}

	premium, err := prompts.ResponseKeys(prompts.StageAnalyzePremium)
	if err != nil {
		t.Fatalf("premium: %v", err)
	}
	for _, k := range free {
		if !slices.Contains(premium, k) {
			t.Errorf("premium keys missing %s", k)
		}
	}
	if len(premium) != 14 {
		t.Errorf("premium keys = %d: %v", len(premium), premium)
	}

	if _, err := prompts.ResponseKeys(prompts.StageDetect); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("detect error = %v", err)
	}
}
