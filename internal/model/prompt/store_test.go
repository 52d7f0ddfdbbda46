package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForDayIsStableWithinADay(t *testing.T) {
	store := NewMemoryStore(Seed())

	morning := time.Date(2026, 10, 14, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 14, 23, 59, 0, 0, time.UTC)

	a, ok := store.ForDay(morning)
	require.True(t, ok)
	b, ok := store.ForDay(evening)
	require.True(t, ok)

	assert.Equal(t, a, b)
	assert.Equal(t, "2026-10-14", a.Date)
}

func TestForDayAdvancesAcrossDays(t *testing.T) {
	store := NewMemoryStore(Seed())

	day := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	today, _ := store.ForDay(day)
	tomorrow, _ := store.ForDay(day.Add(24 * time.Hour))

	assert.NotEqual(t, today.Prompt, tomorrow.Prompt)
}

func TestForDayEmptyCatalog(t *testing.T) {
	store := NewMemoryStore(nil)
	_, ok := store.ForDay(time.Now())
	assert.False(t, ok)
}

func TestListReturnsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())

	list := store.List()
	list[0].Prompts[0] = "changed"

	again, ok := store.FindByName(list[0].Name)
	require.True(t, ok)
	assert.NotEqual(t, "changed", again.Prompts[0])
}
