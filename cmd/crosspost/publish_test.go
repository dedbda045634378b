package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildPublishX(t *testing.T) {
	content := writeFile(t, "post.txt", "Hello from the file.\n")
	cover := writeFile(t, "cover.png", "png")

	platform, req, err := buildPublish([]string{"x", content, cover})
	require.NoError(t, err)

	assert.Equal(t, "x", platform.Name)
	assert.Empty(t, req.Title())
	assert.Equal(t, "Hello from the file.", req.Body())
	assert.Equal(t, []string{cover}, req.MediaPaths())
}

func TestBuildPublishXRequiresContentFile(t *testing.T) {
	_, _, err := buildPublish([]string{"x"})
	assert.ErrorIs(t, err, errUsage)

	_, _, err = buildPublish([]string{"twitter", "/nonexistent/post.txt"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}

func TestBuildPublishRedNoteBodyFromFile(t *testing.T) {
	content := writeFile(t, "body.txt", "  Body text.  ")
	image := writeFile(t, "1.png", "png")

	platform, req, err := buildPublish([]string{"rednote", "My title", content, image})
	require.NoError(t, err)

	assert.Equal(t, "rednote", platform.Name)
	assert.Equal(t, "My title", req.Title())
	assert.Equal(t, "Body text.", req.Body())
	assert.Equal(t, []string{image}, req.MediaPaths())
}

func TestBuildPublishRedNoteBodyAsLiteral(t *testing.T) {
	image := writeFile(t, "1.png", "png")

	_, req, err := buildPublish([]string{"xiaohongshu", "title", "Literal body text", image})
	require.NoError(t, err)
	assert.Equal(t, "Literal body text", req.Body())
}

func TestBuildPublishRedNoteUsage(t *testing.T) {
	_, _, err := buildPublish([]string{"rednote", "title", "body"})
	assert.ErrorIs(t, err, errUsage)
}

func TestBuildPublishRedNoteMissingImage(t *testing.T) {
	_, _, err := buildPublish([]string{"rednote", "title", "body", "/nonexistent/1.png"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}

func TestBuildPublishUnknownPlatform(t *testing.T) {
	_, _, err := buildPublish([]string{"mastodon", "a", "b", "c"})
	assert.ErrorIs(t, err, errUsage)
}
