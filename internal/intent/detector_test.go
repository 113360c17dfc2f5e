package intent

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/quadroai/voicepilot/internal/learning"
	"github.com/quadroai/voicepilot/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestDetector(t *testing.T) (*Detector, *learning.Store) {
	t.Helper()

	store := learning.NewStore(filepath.Join(t.TempDir(), "profile.json"), zap.NewNop())
	t.Cleanup(store.Close)

	return NewDetector(store, zap.NewNop()), store
}

func TestDetectIntentEmpty(t *testing.T) {
	d, _ := newTestDetector(t)

	result := d.DetectIntent("   ")

	assert.Equal(t, models.IntentUnknown, result.Intent.Type)
	assert.Zero(t, result.Confidence)
}

func TestDetectIntentPipeline(t *testing.T) {
	d, _ := newTestDetector(t)

	result := d.DetectIntent("eksel başlat")

	require.Equal(t, models.IntentOpenApplication, result.Intent.Type)
	assert.Equal(t, "excel", result.Entities["app"])
	assert.Equal(t, "eksel başlat", result.OriginalText)
	assert.Equal(t, "excel aç", result.ProcessedText)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.True(t, result.Actionable())
	assert.Greater(t, result.ProcessingTime.Nanoseconds(), int64(0))
}

func TestDetectIntentCustomMappingEquivalence(t *testing.T) {
	d, _ := newTestDetector(t)
	d.AddCustomCommand("m", "mail aç")

	direct := d.DetectIntent("mail aç")
	mapped := d.DetectIntent("m")

	require.Equal(t, direct.Intent.Type, mapped.Intent.Type)
	assert.Equal(t, direct.Entities, mapped.Entities)
	assert.Equal(t, direct.ProcessedText, mapped.ProcessedText)
	assert.InDelta(t, direct.Confidence, mapped.Confidence, 1e-9)
}

func TestDetectIntentAbbreviation(t *testing.T) {
	d, store := newTestDetector(t)
	store.AddCustomCommand("mail aç", "outlook")

	result := d.DetectIntent("ma")

	require.Equal(t, models.IntentOpenApplication, result.Intent.Type)
	assert.Equal(t, "outlook", result.Entities["app"])
}

func TestDetectIntentLearnedCorrection(t *testing.T) {
	d, _ := newTestDetector(t)

	first := d.DetectIntent("hımm şunu yapsana")
	require.Equal(t, models.IntentUnknown, first.Intent.Type)

	d.RecordCommandResult("hımm şunu yapsana", false, "excel aç")

	second := d.DetectIntent("hımm şunu yapsana")
	require.Equal(t, models.IntentCustom, second.Intent.Type)
	assert.Equal(t, "Learned", second.Intent.Name)
	assert.Equal(t, "excel aç", second.ProcessedText)
	assert.InDelta(t, 0.8, second.Confidence, 1e-9)
}

func TestDetectIntentAlternatives(t *testing.T) {
	d, store := newTestDetector(t)
	store.AddCustomCommand("asdf qwerx", "noop")

	result := d.DetectIntent("asdf qwer")

	require.Equal(t, models.IntentUnknown, result.Intent.Type)
	require.Len(t, result.Alternatives, 1)
	assert.Equal(t, "asdf qwerx", result.Alternatives[0].Intent.Name)
	assert.InDelta(t, 0.6, result.Alternatives[0].Score, 1e-9)
}

func TestDetectIntentNoAlternativesWhenConfident(t *testing.T) {
	d, store := newTestDetector(t)
	store.AddCustomCommand("excel kapat", "noop")

	// A confident match never collects alternatives.
	result := d.DetectIntent("excel aç")

	require.Equal(t, models.IntentOpenApplication, result.Intent.Type)
	assert.Empty(t, result.Alternatives)
}

func TestDetectIntentCustomPattern(t *testing.T) {
	d, _ := newTestDetector(t)
	require.NoError(t, d.AddCustomPattern(`^teams notlarını (oku)$`, models.IntentCustom, []string{"action"}))

	// "toplantı notlarını getir" normalizes to "teams notlarını oku" before
	// the rules run, so the custom rule sees canonical vocabulary.
	result := d.DetectIntent("toplantı notlarını getir")
	require.Equal(t, models.IntentCustom, result.Intent.Type)
	assert.Equal(t, "oku", result.Entities["action"])

	require.Error(t, d.AddCustomPattern(`([bozuk`, models.IntentCustom, nil))
}

func TestGetCommandSuggestions(t *testing.T) {
	d, store := newTestDetector(t)
	store.AddCustomCommand("mail aç", "outlook")
	store.AddCustomCommand("mail oku", "outlook")

	withPrefix := d.GetCommandSuggestions("mail")
	assert.ElementsMatch(t, []string{"mail aç", "mail oku"}, withPrefix)

	// Empty partial falls back to the most frequent known commands.
	timeBased := d.GetCommandSuggestions("")
	assert.NotEmpty(t, timeBased)
}
