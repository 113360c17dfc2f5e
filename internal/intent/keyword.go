package intent

import (
	"strings"

	"github.com/quadroai/voicepilot/pkg/models"
)

// systemControlKeywords gate the fallback the same way the exclusion
// lookaheads gate the rules: system-control vocabulary is claimed before the
// generic open/close intents get a chance.
var systemControlKeywords = []string{
	"ses", "sesi", "volume", "volüm", "pencere", "pencereyi",
	"sekme", "sekmeyi", "uygulama", "uygulamayı", "belgeler", "belgelerim",
	"resimler", "resimlerim", "müzik", "müziğim", "videolar", "videolarım",
	"indirilenler", "masaüstü", "desktop", "downloads", "dosya", "gezgini",
	"takvim", "takvimi", "calendar", "caps", "lock", "çalıştır", "görev",
	"görünümü", "sayfa", "başına", "sonuna",
}

// keywordFallback classifies by curated keyword sets when no rule matched.
// Confidences are fixed per keyword specificity, between 0.5 and 0.75.
func (c *Catalog) keywordFallback(original, normalized string) *models.IntentResult {
	words := strings.Fields(normalized)

	if containsAny(words, systemControlKeywords...) {
		// Volume.
		if containsAny(words, "ses", "sesi", "volume", "volüm") &&
			containsAny(words, "aç", "kapat", "artır", "arttır", "azalt", "kıs") {
			return models.NewIntentResult(models.IntentSystemControl, original, normalized, 0.75)
		}

		// Closing a window, tab or the foreground app.
		if containsAny(words, "pencere", "pencereyi", "sekme", "sekmeyi", "uygulama", "uygulamayı") &&
			containsAny(words, "kapat", "kapa") {
			return models.NewIntentResult(models.IntentSystemControl, original, normalized, 0.75)
		}

		// Opening well-known folders.
		if containsAny(words, "belgeler", "belgelerim", "resimler", "resimlerim", "müzik",
			"müziğim", "videolar", "videolarım", "indirilenler", "masaüstü", "desktop", "downloads") &&
			(containsAny(words, "aç") || len(words) <= 2) {
			return models.NewIntentResult(models.IntentSystemControl, original, normalized, 0.75)
		}

		// Page navigation.
		if containsAny(words, "sayfa") &&
			containsAny(words, "başına", "sonuna", "başa", "sona") &&
			(containsAny(words, "git", "gel", "gi") || len(words) <= 3) {
			return models.NewIntentResult(models.IntentSystemControl, original, normalized, 0.75)
		}

		// Remaining system phrases get slightly less credit.
		if containsAny(words, "caps", "lock") || containsAny(words, "çalıştır", "penceresi") ||
			containsAny(words, "görev", "görünümü") {
			return models.NewIntentResult(models.IntentSystemControl, original, normalized, 0.7)
		}
	}

	if containsAny(words, "aç", "başlat", "çalıştır", "getir") &&
		!containsAny(words, systemControlKeywords...) {
		return models.NewIntentResult(models.IntentOpenApplication, original, normalized, 0.7)
	}

	if containsAny(words, "kapat", "kapa", "sonlandır") &&
		!containsAny(words, systemControlKeywords...) {
		return models.NewIntentResult(models.IntentCloseApplication, original, normalized, 0.7)
	}

	if containsAny(words, "mail", "email", "e-posta", "outlook") {
		return models.NewIntentResult(models.IntentEmailOperation, original, normalized, 0.65)
	}

	if containsAny(words, "dosya", "file", "belge") && containsAny(words, "ara", "bul") {
		return models.NewIntentResult(models.IntentFileOperation, original, normalized, 0.65)
	}

	if containsAny(words, "ses", "volume") || containsAny(words, "ekran", "kilitle") {
		return models.NewIntentResult(models.IntentSystemControl, original, normalized, 0.6)
	}

	if containsAny(words, "haber", "haberler", "gündem", "son", "dakika") ||
		containsAny(words, "nedir", "kimdir", "ne", "demek", "hakkında") ||
		containsAny(words, "twitter", "trend", "gündem", "x") ||
		containsAny(words, "vikipedi", "wikipedia") {
		return models.NewIntentResult(models.IntentWebInfoRequest, original, normalized, 0.7)
	}

	return models.NewIntentResult(models.IntentUnknown, original, normalized, 0)
}

func containsAny(words []string, keywords ...string) bool {
	for _, k := range keywords {
		for _, w := range words {
			if strings.EqualFold(w, k) {
				return true
			}
		}
	}
	return false
}
