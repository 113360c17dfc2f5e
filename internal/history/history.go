// Package history keeps a session-scoped log of executed commands for
// short-term statistics. It is bounded, in-memory only and independent of the
// durable learning profile.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quadroai/voicepilot/internal/synonyms"
)

const defaultCapacity = 1000

// Entry is one executed command.
type Entry struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Result    string    `json:"result,omitempty"`
}

// Statistics summarizes the session so far.
type Statistics struct {
	TotalCommands      int        `json:"total_commands"`
	SuccessfulCommands int        `json:"successful_commands"`
	FailedCommands     int        `json:"failed_commands"`
	SuccessRate        float64    `json:"success_rate"`
	UniqueCommands     int        `json:"unique_commands"`
	OldestCommand      *time.Time `json:"oldest_command,omitempty"`
	NewestCommand      *time.Time `json:"newest_command,omitempty"`
}

// Log is a bounded FIFO of command entries, safe for concurrent use. The
// oldest entry is evicted once capacity is reached.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// NewLog creates a log; capacity values below 1 fall back to 1000.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = defaultCapacity
	}
	return &Log{capacity: capacity}
}

// Add appends a command outcome, evicting the oldest entry when full.
func (l *Log) Add(command string, success bool, result string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		ID:        uuid.NewString(),
		Command:   command,
		Timestamp: time.Now(),
		Success:   success,
		Result:    result,
	})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Recent returns up to count entries, newest first.
func (l *Log) Recent(count int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if count > len(l.entries) {
		count = len(l.entries)
	}
	out := make([]Entry, count)
	for i := 0; i < count; i++ {
		out[i] = l.entries[len(l.entries)-1-i]
	}
	return out
}

// InRange returns entries with a timestamp inside [start, end].
func (l *Log) InRange(start, end time.Time) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, e := range l.entries {
		if !e.Timestamp.Before(start) && !e.Timestamp.After(end) {
			out = append(out, e)
		}
	}
	return out
}

// MostFrequent returns the topN most used commands of the session with their
// counts, keyed by the lowercased command text.
func (l *Log) MostFrequent(topN int) map[string]int {
	l.mu.Lock()
	counts := make(map[string]int)
	for _, e := range l.entries {
		counts[synonyms.Lower(e.Command)]++
	}
	l.mu.Unlock()

	if len(counts) <= topN {
		return counts
	}

	out := make(map[string]int, topN)
	for len(out) < topN {
		bestCmd, bestCount := "", -1
		for cmd, count := range counts {
			if _, taken := out[cmd]; taken {
				continue
			}
			if count > bestCount || (count == bestCount && cmd < bestCmd) {
				bestCmd, bestCount = cmd, count
			}
		}
		out[bestCmd] = bestCount
	}
	return out
}

// SuccessRate returns the fraction of successful commands this session.
func (l *Log) SuccessRate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.successRateLocked()
}

func (l *Log) successRateLocked() float64 {
	if len(l.entries) == 0 {
		return 0
	}
	ok := 0
	for _, e := range l.entries {
		if e.Success {
			ok++
		}
	}
	return float64(ok) / float64(len(l.entries))
}

// CommandSuccessRate returns the success rate of one command, 0 when the
// command never ran.
func (l *Log) CommandSuccessRate(command string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	total, ok := 0, 0
	for _, e := range l.entries {
		if strings.EqualFold(e.Command, command) {
			total++
			if e.Success {
				ok++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ok) / float64(total)
}

// Clear drops all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Stats returns a snapshot of the session statistics.
func (l *Log) Stats() Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := Statistics{
		TotalCommands: len(l.entries),
		SuccessRate:   l.successRateLocked(),
	}

	unique := make(map[string]struct{})
	for _, e := range l.entries {
		if e.Success {
			stats.SuccessfulCommands++
		} else {
			stats.FailedCommands++
		}
		unique[synonyms.Lower(e.Command)] = struct{}{}
	}
	stats.UniqueCommands = len(unique)

	if len(l.entries) > 0 {
		oldest := l.entries[0].Timestamp
		newest := l.entries[len(l.entries)-1].Timestamp
		stats.OldestCommand = &oldest
		stats.NewestCommand = &newest
	}
	return stats
}
