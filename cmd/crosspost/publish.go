package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/entrhq/crosspost/pkg/flow"
)

// buildPublish turns the positional arguments into a platform profile and
// a publish request.
func buildPublish(args []string) (flow.Platform, flow.Request, error) {
	switch args[0] {
	case "x", "twitter":
		req, err := xRequest(args[1:])
		return flow.X(), req, err
	case "rednote", "xiaohongshu":
		req, err := redNoteRequest(args[1:])
		return flow.RedNote(), req, err
	default:
		return flow.Platform{}, flow.Request{}, fmt.Errorf("%w: unknown platform %q", errUsage, args[0])
	}
}

// xRequest parses `<contentFile> [coverImage] [detailImage]`. There is no
// title on X; the body always comes from a file.
func xRequest(args []string) (flow.Request, error) {
	if len(args) < 1 {
		return flow.Request{}, fmt.Errorf("%w: a content file is required", errUsage)
	}
	if len(args) > 3 {
		return flow.Request{}, fmt.Errorf("%w: at most a content file, a cover image and a detail image", errUsage)
	}

	body, err := readContentFile(args[0])
	if err != nil {
		return flow.Request{}, err
	}

	return flow.NewRequest("", body, args[1:])
}

// redNoteRequest parses `<title> <contentFileOrText> <image>...`. The
// content argument is read as a file when one exists at that path and used
// as literal text otherwise, so short posts need no file at all.
func redNoteRequest(args []string) (flow.Request, error) {
	if len(args) < 3 {
		return flow.Request{}, fmt.Errorf("%w: a title, content and at least one image are required", errUsage)
	}

	title := args[0]
	body := args[1]
	if info, err := os.Stat(body); err == nil && !info.IsDir() {
		if body, err = readContentFile(args[1]); err != nil {
			return flow.Request{}, err
		}
	}

	for _, path := range args[2:] {
		if _, err := os.Stat(path); err != nil {
			return flow.Request{}, fmt.Errorf("image %s: %w", path, err)
		}
	}

	return flow.NewRequest(title, body, args[2:])
}

// readContentFile reads a UTF-8 text file and trims surrounding whitespace.
func readContentFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read content file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
