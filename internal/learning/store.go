// Package learning persists and serves the per-user adaptation model:
// command frequencies, time-of-day patterns, custom mappings, error
// corrections, command sequences and the running success rate.
package learning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/quadroai/voicepilot/internal/similarity"
	"github.com/quadroai/voicepilot/internal/synonyms"
	"github.com/quadroai/voicepilot/pkg/models"
)

const (
	maxRecentCommands = 100
	maxSequences      = 20
	flushEvery        = 10

	similarityFloor = 0.6
	maxSimilar      = 3
	maxAutocomplete = 5
	maxTimeBased    = 3
)

// Store owns the durable UserProfile. All profile access goes through a
// single internal lock; disk writes happen outside it, from a snapshot taken
// under it. A Store never surfaces persistence errors to callers.
type Store struct {
	mu      sync.Mutex
	profile *models.UserProfile
	recent  []string

	path   string
	logger *zap.Logger
	now    func() time.Time

	saves sync.WaitGroup
}

// NewStore loads the profile at path, falling back to a fresh default profile
// when the file is missing or corrupt.
func NewStore(path string, logger *zap.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
	s.loadOrCreate()
	return s
}

// DefaultProfilePath returns <user-config-dir>/voicepilot/user_profile.json.
func DefaultProfilePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "voicepilot", "user_profile.json")
}

func (s *Store) loadOrCreate() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Warn("failed to create profile directory", zap.Error(err))
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read profile, starting fresh", zap.Error(err))
		}
		s.profile = models.NewUserProfile()
		s.flushLocked()
		return
	}

	profile := models.NewUserProfile()
	if err := json.Unmarshal(data, profile); err != nil {
		s.logger.Warn("corrupt profile, starting fresh", zap.String("path", s.path), zap.Error(err))
		s.profile = models.NewUserProfile()
		return
	}
	s.ensureMaps(profile)
	s.profile = profile
	s.logger.Info("user profile loaded", zap.Int("total_commands", profile.TotalCommands))
}

// ensureMaps guards against hand-edited profiles with missing fields.
func (s *Store) ensureMaps(p *models.UserProfile) {
	if p.CommandFrequency == nil {
		p.CommandFrequency = make(map[string]int)
	}
	if p.TimeBasedPatterns == nil {
		p.TimeBasedPatterns = make(map[string][]string)
	}
	if p.CustomMappings == nil {
		p.CustomMappings = make(map[string]string)
	}
	if p.ErrorCorrections == nil {
		p.ErrorCorrections = make(map[string]string)
	}
}

// snapshotLocked marshals the profile; callers must hold s.mu.
func (s *Store) snapshotLocked() []byte {
	s.profile.LastUpdated = s.now()
	data, err := json.MarshalIndent(s.profile, "", "  ")
	if err != nil {
		s.logger.Error("failed to marshal profile", zap.Error(err))
		return nil
	}
	return data
}

// flushLocked writes synchronously; callers must hold s.mu (or own the store
// exclusively, as during construction).
func (s *Store) flushLocked() {
	data := s.snapshotLocked()
	if data == nil {
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("failed to save profile", zap.Error(err))
	}
}

// scheduleSave persists a snapshot in the background so detection calls never
// wait on disk.
func (s *Store) scheduleSave(data []byte) {
	if data == nil {
		return
	}
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		if err := os.WriteFile(s.path, data, 0o644); err != nil {
			s.logger.Error("failed to save profile", zap.Error(err))
		}
	}()
}

// Flush writes the profile to disk immediately.
func (s *Store) Flush() {
	s.mu.Lock()
	data := s.snapshotLocked()
	s.mu.Unlock()
	if data == nil {
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("failed to save profile", zap.Error(err))
	}
}

// Close waits for in-flight background saves and flushes one last time.
func (s *Store) Close() {
	s.saves.Wait()
	s.Flush()
}

func normalizeCommand(command string) string {
	return synonyms.Lower(strings.TrimSpace(command))
}

// timeKey formats the hour bucket, e.g. "09:00-10:00".
func timeKey(t time.Time) string {
	h := t.Hour()
	return fmt.Sprintf("%02d:00-%02d:00", h, (h+1)%24)
}

// RecordCommand registers a detected command: frequency, hour bucket, the
// recent-command window and sequence detection. Every 10th command triggers a
// background profile save.
func (s *Store) RecordCommand(command string, result *models.IntentResult) {
	normalized := normalizeCommand(command)
	if normalized == "" {
		return
	}

	s.mu.Lock()
	s.profile.CommandFrequency[normalized]++

	key := timeKey(s.now())
	s.profile.TimeBasedPatterns[key] = append(s.profile.TimeBasedPatterns[key], normalized)

	s.recent = append(s.recent, normalized)
	if len(s.recent) > maxRecentCommands {
		s.recent = s.recent[1:]
	}
	s.detectSequencesLocked()

	s.profile.TotalCommands++

	var data []byte
	if s.profile.TotalCommands%flushEvery == 0 {
		data = s.snapshotLocked()
	}
	s.mu.Unlock()

	s.scheduleSave(data)
}

// detectSequencesLocked looks at the tail of the recent window for 2- and
// 3-grams. Known sequences gain frequency; only 2-grams create new entries.
func (s *Store) detectSequencesLocked() {
	if len(s.recent) < 2 {
		return
	}

	maxLen := 3
	if len(s.recent) < maxLen {
		maxLen = len(s.recent)
	}

	for seqLen := 2; seqLen <= maxLen; seqLen++ {
		tail := s.recent[len(s.recent)-seqLen:]

		var existing *models.CommandSequence
		for _, seq := range s.profile.CommandSequences {
			if equalCommands(seq.Commands, tail) {
				existing = seq
				break
			}
		}

		switch {
		case existing != nil:
			existing.Frequency++
		case seqLen == 2:
			s.profile.CommandSequences = append(s.profile.CommandSequences, &models.CommandSequence{
				Commands:  append([]string(nil), tail...),
				Frequency: 1,
			})
		}
	}

	if len(s.profile.CommandSequences) > maxSequences {
		sort.SliceStable(s.profile.CommandSequences, func(i, j int) bool {
			return s.profile.CommandSequences[i].Frequency > s.profile.CommandSequences[j].Frequency
		})
		s.profile.CommandSequences = s.profile.CommandSequences[:maxSequences]
	}
}

func equalCommands(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// UpdateCommandSuccess folds one success/failure into the running mean. The
// divisor is the command count as already incremented by RecordCommand, so
// the resulting rate reflects history before this call; after ten successes
// and one failure the rate is 10/11. The formula is kept bit-for-bit from the
// shipped behavior.
func (s *Store) UpdateCommandSuccess(command string, success bool, feedback string) {
	s.mu.Lock()
	n := s.profile.TotalCommands
	if n > 0 {
		hit := 0.0
		if success {
			hit = 1.0
		}
		s.profile.SuccessRate = (s.profile.SuccessRate*float64(n-1) + hit) / float64(n)
	}
	if !success && strings.TrimSpace(feedback) != "" {
		s.profile.ErrorCorrections[normalizeCommand(command)] = feedback
	}
	data := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleSave(data)
}

// CustomCommand returns the system command mapped to input, if any.
func (s *Store) CustomCommand(input string) (string, bool) {
	normalized := normalizeCommand(input)

	s.mu.Lock()
	defer s.mu.Unlock()
	mapped, ok := s.profile.CustomMappings[normalized]
	return mapped, ok
}

// ExpandAbbreviation resolves inputs of up to three characters to the most
// frequent known command sharing that prefix. Longer inputs and unknown
// prefixes pass through unchanged.
func (s *Store) ExpandAbbreviation(input string) string {
	if len([]rune(input)) > 3 {
		return input
	}
	normalized := synonyms.Lower(input)

	s.mu.Lock()
	defer s.mu.Unlock()

	best := ""
	bestCount := 0
	for cmd, count := range s.profile.CommandFrequency {
		if strings.HasPrefix(cmd, normalized) && count > bestCount {
			best, bestCount = cmd, count
		}
	}
	if best == "" {
		return input
	}
	s.logger.Debug("abbreviation expanded", zap.String("input", input), zap.String("expanded", best))
	return best
}

// LearnedIntent returns a correction previously stored for input, or nil.
func (s *Store) LearnedIntent(input string) *models.IntentResult {
	normalized := normalizeCommand(input)

	s.mu.Lock()
	corrected, ok := s.profile.ErrorCorrections[normalized]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	result := models.NewIntentResult(models.IntentCustom, input, corrected, 0.8)
	result.Intent.Name = "Learned"
	return result
}

// SimilarCommands returns up to three known commands with Levenshtein
// similarity to input strictly between 0.6 and 1.0, best first.
func (s *Store) SimilarCommands(input string) []string {
	normalized := normalizeCommand(input)

	type scored struct {
		command string
		score   float64
	}

	s.mu.Lock()
	candidates := make([]scored, 0)
	for cmd := range s.profile.CommandFrequency {
		score := similarity.Score(normalized, cmd)
		if score > similarityFloor && score < 1.0 {
			candidates = append(candidates, scored{cmd, score})
		}
	}
	s.mu.Unlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > maxSimilar {
		candidates = candidates[:maxSimilar]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.command
	}
	return out
}

// TimeBasedSuggestions returns the top commands for the hour bucket of t,
// falling back to the globally most frequent commands when the bucket is
// empty.
func (s *Store) TimeBasedSuggestions(t time.Time) []string {
	key := timeKey(t)

	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, cmd := range s.profile.TimeBasedPatterns[key] {
		counts[cmd]++
	}
	if len(counts) == 0 {
		counts = s.profile.CommandFrequency
	}
	return topByCount(counts, maxTimeBased)
}

// AutocompleteSuggestions returns up to five known commands starting with
// partial, most frequent first. When nothing shares the prefix, the known
// commands are ranked fuzzily instead so typos still surface suggestions.
func (s *Store) AutocompleteSuggestions(partial string) []string {
	normalized := normalizeCommand(partial)

	s.mu.Lock()
	matches := make(map[string]int)
	all := make([]string, 0, len(s.profile.CommandFrequency))
	for cmd, count := range s.profile.CommandFrequency {
		all = append(all, cmd)
		if strings.HasPrefix(cmd, normalized) {
			matches[cmd] = count
		}
	}
	s.mu.Unlock()

	if len(matches) > 0 {
		return topByCount(matches, maxAutocomplete)
	}

	sort.Strings(all)
	ranked := fuzzy.Find(normalized, all)
	out := make([]string, 0, maxAutocomplete)
	for _, m := range ranked {
		out = append(out, m.Str)
		if len(out) == maxAutocomplete {
			break
		}
	}
	return out
}

// AddCustomMapping stores a user phrase to system command mapping; it is
// visible to subsequent lookups immediately.
func (s *Store) AddCustomMapping(userPhrase, systemCommand string) {
	s.mu.Lock()
	s.profile.CustomMappings[normalizeCommand(userPhrase)] = systemCommand
	data := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("custom mapping added",
		zap.String("phrase", userPhrase), zap.String("command", systemCommand))
	s.scheduleSave(data)
}

// AddCustomCommand seeds a taught command into the frequency table so
// abbreviation expansion and autocomplete can reach it.
func (s *Store) AddCustomCommand(command, action string) {
	normalized := normalizeCommand(command)

	s.mu.Lock()
	if _, ok := s.profile.CommandFrequency[normalized]; !ok {
		s.profile.CommandFrequency[normalized] = 1
	}
	data := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("custom command learned",
		zap.String("command", normalized), zap.String("action", action))
	s.scheduleSave(data)
}

// Statistics returns a read-only snapshot of the learning state.
func (s *Store) Statistics() models.UserStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	top := make(map[string]int, 10)
	for _, cmd := range topByCount(s.profile.CommandFrequency, 10) {
		top[cmd] = s.profile.CommandFrequency[cmd]
	}

	return models.UserStatistics{
		TotalCommands:      s.profile.TotalCommands,
		SuccessRate:        s.profile.SuccessRate,
		MostUsedCommands:   top,
		CustomCommandCount: len(s.profile.CustomMappings),
		ProfileAge:         s.now().Sub(s.profile.CreatedAt),
	}
}

// topByCount returns up to n keys ordered by descending count, ties broken
// alphabetically for stable output.
func topByCount(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
