package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageMapKeepsInsertionOrder(t *testing.T) {
	m := PageMapOf("b.md", "b", "a.md", "a", "c/d.md", "c-d")
	m.Set("b.md", "b-renamed")

	assert.Equal(t, []string{"b.md", "a.md", "c/d.md"}, m.Paths())
	name, ok := m.Get("b.md")
	assert.True(t, ok)
	assert.Equal(t, "b-renamed", name)
	assert.True(t, m.HasName("c-d"))
	assert.False(t, m.HasName("b"))
}

func TestPageMapDelete(t *testing.T) {
	m := PageMapOf("a.md", "a", "b.md", "b")
	m.Delete("a.md")
	m.Delete("missing.md")

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{"b.md"}, m.Paths())
}

func TestPageMapNilSafe(t *testing.T) {
	var m *PageMap
	_, ok := m.Get("a.md")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Paths())
	assert.False(t, m.HasName("a"))
}
