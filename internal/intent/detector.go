// Package intent turns freeform Turkish voice commands into structured
// intents. The catalog holds the ordered pattern rules; the detector chains
// custom overrides, synonym normalization, pattern matching and the learned
// fallbacks into one pipeline.
package intent

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/quadroai/voicepilot/internal/learning"
	"github.com/quadroai/voicepilot/internal/synonyms"
	"github.com/quadroai/voicepilot/pkg/models"
)

const (
	learnedThreshold    = 0.7
	suggestionThreshold = 0.5
	alternativeScore    = 0.6
	abbreviationMaxLen  = 3
)

// Detector orchestrates detection. The learning store is injected so the
// single-writer profile invariant lives in exactly one place.
type Detector struct {
	dict    *synonyms.Dictionary
	catalog *Catalog
	store   *learning.Store
	logger  *zap.Logger
}

// NewDetector wires a detector around the given learning store.
func NewDetector(store *learning.Store, logger *zap.Logger) *Detector {
	dict := synonyms.NewDictionary()
	return &Detector{
		dict:    dict,
		catalog: NewCatalog(dict, logger),
		store:   store,
		logger:  logger,
	}
}

// Dictionary exposes the synonym layer for custom vocabulary.
func (d *Detector) Dictionary() *synonyms.Dictionary { return d.dict }

// AddCustomPattern appends a user-defined rule to the catalog. Appended rules
// evaluate after the built-ins, in append order.
func (d *Detector) AddCustomPattern(pattern string, t models.IntentType, entities []string) error {
	return d.catalog.AddCustomPattern(pattern, t, entities)
}

// DetectIntent analyzes userInput and returns a well-formed result in every
// case; internal failures degrade to Unknown instead of propagating.
func (d *Detector) DetectIntent(userInput string) (result *models.IntentResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("intent detection failed",
				zap.String("input", userInput), zap.Any("panic", r))
			result = models.NewIntentResult(models.IntentUnknown, userInput, userInput, 0)
			result.Intent.Name = "Error"
			result.ProcessingTime = time.Since(start)
		}
	}()

	if strings.TrimSpace(userInput) == "" {
		return models.NewIntentResult(models.IntentUnknown, "", "", 0)
	}

	d.logger.Debug("intent detection started", zap.String("input", userInput))

	// Custom phrase mappings take precedence over everything else.
	if mapped, ok := d.store.CustomCommand(userInput); ok {
		d.logger.Debug("custom mapping applied",
			zap.String("input", userInput), zap.String("mapped", mapped))
		userInput = mapped
	}

	// Very short inputs are treated as abbreviations of known commands.
	if utf8.RuneCountInString(strings.TrimSpace(userInput)) <= abbreviationMaxLen {
		if expanded := d.store.ExpandAbbreviation(userInput); expanded != userInput {
			d.logger.Debug("abbreviation expanded",
				zap.String("input", userInput), zap.String("expanded", expanded))
			userInput = expanded
		}
	}

	result = d.catalog.Match(userInput)

	// Low confidence: a previously learned correction replaces the result.
	if result.Confidence < learnedThreshold {
		if learned := d.store.LearnedIntent(userInput); learned != nil {
			d.logger.Debug("learned intent used", zap.String("intent", learned.Intent.Name))
			result = learned
		}
	}

	// Still weak: attach similar known commands as alternatives without
	// touching the primary intent.
	if result.Confidence < suggestionThreshold {
		for _, cmd := range d.store.SimilarCommands(userInput) {
			result.Alternatives = append(result.Alternatives, models.Alternative{
				Intent: models.Intent{Type: models.IntentCustom, Name: cmd},
				Score:  alternativeScore,
			})
		}
	}

	result.ProcessingTime = time.Since(start)

	d.logger.Debug("intent detection finished",
		zap.String("intent", result.Intent.Name),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", result.ProcessingTime))

	// Recording is best-effort; the store logs its own persistence failures
	// and never fails the caller's request.
	d.store.RecordCommand(userInput, result)

	return result
}

// RecordCommandResult feeds execution feedback into the learning store. On
// failure with feedback text the correction becomes available to future
// low-confidence detections.
func (d *Detector) RecordCommandResult(command string, success bool, feedback string) {
	d.store.UpdateCommandSuccess(command, success, feedback)
	d.logger.Debug("command result recorded",
		zap.String("command", command), zap.Bool("success", success))
}

// GetCommandSuggestions returns time-of-day suggestions when partial is
// empty, autocomplete suggestions otherwise.
func (d *Detector) GetCommandSuggestions(partial string) []string {
	if strings.TrimSpace(partial) == "" {
		return d.store.TimeBasedSuggestions(time.Now())
	}
	return d.store.AutocompleteSuggestions(partial)
}

// AddCustomCommand maps a user phrase to a system command.
func (d *Detector) AddCustomCommand(userCommand, systemCommand string) {
	d.store.AddCustomMapping(userCommand, systemCommand)
	d.logger.Info("custom command added",
		zap.String("user", userCommand), zap.String("system", systemCommand))
}
