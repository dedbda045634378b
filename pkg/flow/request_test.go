package flow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestMediaCap(t *testing.T) {
	paths := make([]string, MaxMediaPaths+1)
	for i := range paths {
		paths[i] = fmt.Sprintf("img-%d.png", i)
	}

	_, err := NewRequest("title", "body", paths)
	require.Error(t, err)

	_, err = NewRequest("title", "body", paths[:MaxMediaPaths])
	require.NoError(t, err)
}

func TestRequestCopiesMediaPaths(t *testing.T) {
	paths := []string{"a.png", "b.png"}
	req, err := NewRequest("t", "b", paths)
	require.NoError(t, err)

	paths[0] = "mutated.png"
	assert.Equal(t, []string{"a.png", "b.png"}, req.MediaPaths())

	got := req.MediaPaths()
	got[1] = "also-mutated.png"
	assert.Equal(t, []string{"a.png", "b.png"}, req.MediaPaths())
}

func TestRequestHasMedia(t *testing.T) {
	withMedia, err := NewRequest("t", "b", []string{"a.png"})
	require.NoError(t, err)
	assert.True(t, withMedia.HasMedia())

	textOnly, err := NewRequest("t", "b", nil)
	require.NoError(t, err)
	assert.False(t, textOnly.HasMedia())
}
