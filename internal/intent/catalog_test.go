package intent

import (
	"testing"

	"go.uber.org/zap"

	"github.com/quadroai/voicepilot/internal/synonyms"
	"github.com/quadroai/voicepilot/pkg/models"
)

func newTestCatalog() *Catalog {
	return NewCatalog(synonyms.NewDictionary(), zap.NewNop())
}

func TestMatchIntentTypes(t *testing.T) {
	c := newTestCatalog()

	tests := []struct {
		input    string
		expected models.IntentType
	}{
		// System-control rules must win over the generic open/close rules.
		{"ses aç", models.IntentSystemControl},
		{"sesi kapat", models.IntentSystemControl},
		{"volüm azalt", models.IntentSystemControl},
		{"pencereyi kapat", models.IntentSystemControl},
		{"sekme kapat", models.IntentSystemControl},
		{"belgeler aç", models.IntentSystemControl},
		{"takvim aç", models.IntentSystemControl},
		{"ekran kilitle", models.IntentSystemControl},

		// Generic application open/close.
		{"excel aç", models.IntentOpenApplication},
		{"spotify başlat", models.IntentOpenApplication},
		{"aç spotify", models.IntentOpenApplication},
		{"spotify sonlandır", models.IntentCloseApplication},

		// Email and files.
		{"rapor dosya ara", models.IntentFileOperation},

		// Web.
		{"google'da hava durumu ara", models.IntentWebSearch},
		{"atatürk kimdir", models.IntentWebInfoRequest},
		{"son dakika oku", models.IntentWebInfoRequest},
		{"neler oluyor", models.IntentWebInfoRequest},
	}

	for _, tt := range tests {
		result := c.Match(tt.input)
		if result.Intent.Type != tt.expected {
			t.Errorf("Match(%q) = %s, want %s", tt.input, result.Intent.Name, tt.expected)
		}
	}
}

func TestMatchPrecedence(t *testing.T) {
	// "ses aç" ends in the open-application verb but the system-control rule
	// is registered first and the catch-all excludes system vocabulary.
	result := newTestCatalog().Match("ses aç")

	if result.Intent.Type != models.IntentSystemControl {
		t.Fatalf("Expected SystemControl, got %s", result.Intent.Name)
	}
	if result.Confidence < 0.9 {
		t.Errorf("Expected high confidence for a full-span match, got %f", result.Confidence)
	}
}

func TestMatchEntities(t *testing.T) {
	result := newTestCatalog().Match("excel aç")

	if result.Intent.Type != models.IntentOpenApplication {
		t.Fatalf("Expected OpenApplication, got %s", result.Intent.Name)
	}
	if result.Entities["app"] != "excel" {
		t.Errorf("Expected entity app=excel, got %q", result.Entities["app"])
	}
	if result.Confidence < 0.7 {
		t.Errorf("Expected confidence >= 0.7, got %f", result.Confidence)
	}
}

func TestMatchEntitiesCanonicalized(t *testing.T) {
	// "eksel başlat" normalizes to "excel aç" before matching.
	result := newTestCatalog().Match("eksel başlat")

	if result.Entities["app"] != "excel" {
		t.Errorf("Expected canonical entity app=excel, got %q", result.Entities["app"])
	}
	if result.ProcessedText != "excel aç" {
		t.Errorf("Expected processed text %q, got %q", "excel aç", result.ProcessedText)
	}
}

func TestMatchFullSpanConfidence(t *testing.T) {
	result := newTestCatalog().Match("sesi kapat")
	if result.Confidence != 0.95 {
		t.Errorf("Expected 0.95 for full-span match, got %f", result.Confidence)
	}
}

func TestConfidenceMonotonicWithCoverage(t *testing.T) {
	c := newTestCatalog()

	// An unanchored custom rule produces partial matches whose confidence
	// must grow with coverage and stay below the full-span score.
	if err := c.AddCustomPattern(`dosya\s+ara`, models.IntentFileOperation, []string{"cmd"}); err != nil {
		t.Fatalf("AddCustomPattern failed: %v", err)
	}

	low := c.Match("qq dosya ara qq ekstra")
	high := c.Match("qq dosya ara qq")

	if low.Confidence >= high.Confidence {
		t.Errorf("Confidence not monotonic: coverage low %f >= high %f",
			low.Confidence, high.Confidence)
	}
	if high.Confidence >= 0.95 {
		t.Errorf("Partial match must score below full-span 0.95, got %f", high.Confidence)
	}
	if low.Confidence < 0.5 {
		t.Errorf("Matched rule must score at least 0.5, got %f", low.Confidence)
	}
}

func TestKeywordFallback(t *testing.T) {
	c := newTestCatalog()

	tests := []struct {
		input    string
		expected models.IntentType
		minConf  float64
		maxConf  float64
	}{
		// No rule matches these but keyword sets still classify them.
		{"mail lazım bana", models.IntentEmailOperation, 0.65, 0.65},
		{"şu dosya nerede ara bakalım", models.IntentFileOperation, 0.65, 0.65},
		{"gündem bugün yoğun", models.IntentWebInfoRequest, 0.7, 0.7},
	}

	for _, tt := range tests {
		result := c.Match(tt.input)
		if result.Intent.Type != tt.expected {
			t.Errorf("Match(%q) = %s, want %s", tt.input, result.Intent.Name, tt.expected)
			continue
		}
		if result.Confidence < tt.minConf || result.Confidence > tt.maxConf {
			t.Errorf("Match(%q) confidence = %f, want in [%f, %f]",
				tt.input, result.Confidence, tt.minConf, tt.maxConf)
		}
	}
}

func TestMatchUnknown(t *testing.T) {
	result := newTestCatalog().Match("xyzzy plugh")

	if result.Intent.Type != models.IntentUnknown {
		t.Errorf("Expected Unknown, got %s", result.Intent.Name)
	}
	if result.Confidence != 0 {
		t.Errorf("Expected zero confidence, got %f", result.Confidence)
	}
}

func TestMatchEmpty(t *testing.T) {
	result := newTestCatalog().Match("   ")
	if result.Intent.Type != models.IntentUnknown || result.Confidence != 0 {
		t.Errorf("Expected Unknown with zero confidence, got %s (%f)",
			result.Intent.Name, result.Confidence)
	}
}

func TestAddCustomPatternMalformed(t *testing.T) {
	c := newTestCatalog()

	if err := c.AddCustomPattern(`(unclosed`, models.IntentCustom, nil); err == nil {
		t.Fatal("Expected error for malformed pattern")
	}

	// The failed registration must not affect subsequent matching.
	if result := c.Match("ses aç"); result.Intent.Type != models.IntentSystemControl {
		t.Errorf("Catalog broken after rejected pattern: got %s", result.Intent.Name)
	}
}

func TestCustomPatternEvaluatedAfterBuiltins(t *testing.T) {
	c := newTestCatalog()

	if err := c.AddCustomPattern(`^ses aç$`, models.IntentCustom, nil); err != nil {
		t.Fatalf("AddCustomPattern failed: %v", err)
	}

	// The built-in system-control rule still wins; appended rules only see
	// text the built-ins passed on.
	if result := c.Match("ses aç"); result.Intent.Type != models.IntentSystemControl {
		t.Errorf("Registration order violated: got %s", result.Intent.Name)
	}
}
