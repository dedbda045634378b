// Package flow drives the publish flow state machine: navigate, wait out
// the login gate, force image/text mode, upload media, fill the form, and
// submit. Each state has an independent timeout and most are non-fatal:
// the target UI is an uncontrolled third party, so the controller gets as
// far as possible and then hands off to a human rather than aborting.
package flow

import "fmt"

// MaxMediaPaths is the platform-enforced cap on media files per post.
const MaxMediaPaths = 18

// Request is the content to publish. It is immutable once constructed:
// retries re-read the same values and never re-derive them from live UI
// state.
type Request struct {
	title      string
	body       string
	mediaPaths []string
}

// NewRequest validates and constructs a publish request. The media path
// order is preserved; the whole ordered set is handed to the file input in
// one call.
func NewRequest(title, body string, mediaPaths []string) (Request, error) {
	if len(mediaPaths) > MaxMediaPaths {
		return Request{}, fmt.Errorf("at most %d media files per post, got %d", MaxMediaPaths, len(mediaPaths))
	}

	paths := make([]string, len(mediaPaths))
	copy(paths, mediaPaths)

	return Request{title: title, body: body, mediaPaths: paths}, nil
}

// Title returns the post title. May be empty for platforms without a
// separate title field.
func (r Request) Title() string {
	return r.title
}

// Body returns the post body text.
func (r Request) Body() string {
	return r.body
}

// MediaPaths returns a copy of the ordered media file paths.
func (r Request) MediaPaths() []string {
	paths := make([]string, len(r.mediaPaths))
	copy(paths, r.mediaPaths)
	return paths
}

// HasMedia reports whether any media files were supplied.
func (r Request) HasMedia() bool {
	return len(r.mediaPaths) > 0
}
