package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the durable learning state for a single user. It is owned
// exclusively by the learning store and persisted as a JSON document.
type UserProfile struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// CommandFrequency maps a normalized command to its usage count.
	CommandFrequency map[string]int `json:"command_frequency"`

	// TimeBasedPatterns maps an hour bucket ("09:00-10:00") to the commands
	// observed in that bucket.
	TimeBasedPatterns map[string][]string `json:"time_based_patterns"`

	// CustomMappings maps a user phrase to the system command it stands for,
	// e.g. {"m": "mail aç"}.
	CustomMappings map[string]string `json:"custom_mappings"`

	// CommandSequences holds frequently co-occurring command pairs/triples.
	CommandSequences []*CommandSequence `json:"command_sequences"`

	// ErrorCorrections maps a failed command to the corrected text supplied
	// as feedback.
	ErrorCorrections map[string]string `json:"error_corrections"`

	FavoriteApplications []string `json:"favorite_applications"`

	TotalCommands int     `json:"total_commands"`
	SuccessRate   float64 `json:"success_rate"`
}

// CommandSequence is an ordered pair or triple of consecutive commands.
type CommandSequence struct {
	Commands  []string `json:"commands"`
	Frequency int      `json:"frequency"`
}

// NewUserProfile returns an empty profile with initialized maps.
func NewUserProfile() *UserProfile {
	now := time.Now()
	return &UserProfile{
		ID:                   uuid.NewString(),
		CreatedAt:            now,
		LastUpdated:          now,
		CommandFrequency:     make(map[string]int),
		TimeBasedPatterns:    make(map[string][]string),
		CustomMappings:       make(map[string]string),
		CommandSequences:     []*CommandSequence{},
		ErrorCorrections:     make(map[string]string),
		FavoriteApplications: []string{},
	}
}

// UserStatistics is a read-only snapshot of the learning state.
type UserStatistics struct {
	TotalCommands      int            `json:"total_commands"`
	SuccessRate        float64        `json:"success_rate"`
	MostUsedCommands   map[string]int `json:"most_used_commands"`
	CustomCommandCount int            `json:"custom_command_count"`
	ProfileAge         time.Duration  `json:"profile_age"`
}
