package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLocationHistory(t *testing.T) {
	loc := NewMemoryLocation("")
	assert.Equal(t, "/", loc.Path())

	var changes []LocationChange
	unsub := loc.Subscribe(func(c LocationChange) { changes = append(changes, c) })

	loc.Go("/a")
	loc.Go("/a")
	loc.Go("/b")
	assert.Empty(t, changes, "Go must not notify")

	assert.True(t, loc.Back())
	assert.True(t, loc.Back())
	assert.False(t, loc.Back())
	assert.True(t, loc.Forward())
	assert.Equal(t, []LocationChange{
		{Path: "/a", Kind: ChangeBack},
		{Path: "/", Kind: ChangeBack},
		{Path: "/a", Kind: ChangeForward},
	}, changes)

	loc.Go("/c")
	history, idx := loc.History()
	assert.Equal(t, []string{"/", "/a", "/c"}, history, "Go discards forward entries")
	assert.Equal(t, 2, idx)
	assert.False(t, loc.Forward())

	unsub()
	loc.Back()
	assert.Len(t, changes, 3)
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/", nil},
		{"/a/b", []string{"a", "b"}},
		{"//a//b/", []string{"a", "b"}},
		{"/a?x=1", []string{"a"}},
		{"/a#frag", []string{"a"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitPath(tt.in), tt.in)
	}
}
