package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiChoice_Navigation(t *testing.T) {
	m := NewMultiChoice("What is 2+2?", []string{"3", "4", "5", "6"}, "")
	assert.Equal(t, -1, m.Chosen)

	m.Up()
	assert.Equal(t, 0, m.Cursor)
	for range 5 {
		m.Down()
	}
	assert.Equal(t, 3, m.Cursor)

	assert.True(t, m.Jump("b"))
	assert.Equal(t, 1, m.Cursor)
	assert.False(t, m.Jump("e"))
	assert.Equal(t, "4", m.Choose())
	assert.Equal(t, 1, m.Chosen)
}

func TestMultiChoice_Previous(t *testing.T) {
	m := NewMultiChoice("q", []string{"a", "b", "c", "d"}, "c")
	assert.Equal(t, 2, m.Chosen)
	assert.Equal(t, 2, m.Cursor)

	m = NewMultiChoice("q", []string{"a", "b", "c", "d"}, "zzz")
	assert.Equal(t, -1, m.Chosen)
	assert.Equal(t, 0, m.Cursor)
}

func TestMultiChoice_ViewListsOptions(t *testing.T) {
	m := NewMultiChoice("Pick one", []string{"red", "green", "blue", "black"}, "")
	v := m.View()
	assert.Contains(t, v, "Pick one")
	assert.Contains(t, v, "A)  red")
	assert.Contains(t, v, "D)  black")
}

func TestProgressBar_Fraction(t *testing.T) {
	assert.Equal(t, 0.0, NewProgressBar(0, 0, 20).Fraction())
	assert.Equal(t, 0.5, NewProgressBar(5, 10, 20).Fraction())
	assert.Equal(t, 1.0, NewProgressBar(12, 10, 20).Fraction())
	assert.Contains(t, NewProgressBar(3, 10, 30).View(), "3/10")
}
