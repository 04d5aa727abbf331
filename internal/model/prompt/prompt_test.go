package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	items := Seed()

	require.Len(t, items, 3)
	assert.Equal(t, "quick-start-assessment", items[0].ID)
	assert.Equal(t, "Understand AI capabilities in data context", items[2].Action)
	assert.NotEqual(t, items[2].Title, items[2].Action)
}

func TestParseDefaultsTitle(t *testing.T) {
	items, err := Parse([]byte("- id: a\n  action: show me a table\n"))

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "show me a table", items[0].Title)
}

func TestParseRejectsIncompleteEntries(t *testing.T) {
	_, err := Parse([]byte("- title: no id\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not: [a list"))
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(Seed())

	got, ok := store.FindByID("guided-optimization")
	require.True(t, ok)
	assert.Contains(t, got.Action, "step by step")

	_, ok = store.FindByID("missing")
	assert.False(t, ok)

	list := store.List()
	list[0].ID = "mutated"
	assert.Equal(t, "quick-start-assessment", store.List()[0].ID)
}
