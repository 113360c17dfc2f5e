package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndRecent(t *testing.T) {
	l := NewLog(10)

	l.Add("mail aç", true, "OpenApplication")
	l.Add("excel aç", true, "OpenApplication")
	l.Add("xyzzy", false, "Unknown")

	recent := l.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "xyzzy", recent[0].Command)
	assert.Equal(t, "excel aç", recent[1].Command)
	assert.NotEqual(t, recent[0].ID, recent[1].ID)

	// Asking for more than exists returns everything.
	assert.Len(t, l.Recent(100), 3)
}

func TestCapacityEviction(t *testing.T) {
	l := NewLog(3)

	l.Add("a", true, "")
	l.Add("b", true, "")
	l.Add("c", true, "")
	l.Add("d", true, "")

	recent := l.Recent(10)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Command)
	assert.Equal(t, "b", recent[2].Command)
}

func TestInRange(t *testing.T) {
	l := NewLog(10)

	before := time.Now().Add(-time.Second)
	l.Add("mail aç", true, "")
	after := time.Now().Add(time.Second)

	assert.Len(t, l.InRange(before, after), 1)
	assert.Empty(t, l.InRange(after, after.Add(time.Hour)))
}

func TestMostFrequent(t *testing.T) {
	l := NewLog(10)

	l.Add("Mail Aç", true, "")
	l.Add("mail aç", true, "")
	l.Add("excel aç", true, "")
	l.Add("takvim aç", false, "")

	top := l.MostFrequent(2)
	require.Len(t, top, 2)
	assert.Equal(t, 2, top["mail aç"])
	assert.Equal(t, 1, top["excel aç"])
}

func TestSuccessRates(t *testing.T) {
	l := NewLog(10)

	assert.Zero(t, l.SuccessRate())

	l.Add("mail aç", true, "")
	l.Add("mail aç", false, "")
	l.Add("excel aç", true, "")

	assert.InDelta(t, 2.0/3.0, l.SuccessRate(), 1e-9)
	assert.InDelta(t, 0.5, l.CommandSuccessRate("MAIL AÇ"), 1e-9)
	assert.Zero(t, l.CommandSuccessRate("hiç yok"))
}

func TestStatsAndClear(t *testing.T) {
	l := NewLog(10)

	l.Add("mail aç", true, "")
	l.Add("mail aç", false, "")
	l.Add("excel aç", true, "")

	stats := l.Stats()
	assert.Equal(t, 3, stats.TotalCommands)
	assert.Equal(t, 2, stats.SuccessfulCommands)
	assert.Equal(t, 1, stats.FailedCommands)
	assert.Equal(t, 2, stats.UniqueCommands)
	require.NotNil(t, stats.OldestCommand)
	require.NotNil(t, stats.NewestCommand)
	assert.False(t, stats.NewestCommand.Before(*stats.OldestCommand))

	l.Clear()
	cleared := l.Stats()
	assert.Zero(t, cleared.TotalCommands)
	assert.Nil(t, cleared.OldestCommand)
}
