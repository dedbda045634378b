package flow

import (
	"time"

	"github.com/entrhq/crosspost/pkg/config"
	"github.com/entrhq/crosspost/pkg/locate"
)

// Markers are the UI-specific patterns the flow inspects. They are brittle
// by nature (the platforms' UI is not a contract this tool controls), so
// every one of them can be overridden from the config file; the built-in
// values match the platforms' current layouts.
type Markers struct {
	// LoginURLGlobs match login-path URLs.
	LoginURLGlobs []string

	// LoginPrompt is a selector for an in-page login prompt.
	LoginPrompt string

	// VideoModeURL is a URL fragment present in the wrong (video) mode.
	VideoModeURL string

	// VideoModeText is a page-content marker for the wrong mode.
	VideoModeText string

	// ImageModeReady is a selector confirming image/text mode.
	ImageModeReady string

	// UploadProgress is a selector matching the upload-count marker.
	UploadProgress string

	// FormReady is a selector that appears once the post-upload form has
	// rendered.
	FormReady string
}

// Platform describes one publish target: its URLs, markers, and the target
// registry mapping logical roles to candidate locator chains.
type Platform struct {
	// Name is the platform key used by the CLI and the config file.
	Name string

	// EntryURL is the publish entry point.
	EntryURL string

	// ModeSwitchURL, when non-empty, forces image/text publishing mode
	// via direct navigation. Empty means the platform has no mode switch.
	ModeSwitchURL string

	// TitleLimit is the platform-enforced title length in runes. Zero
	// means the platform has no separate title field.
	TitleLimit int

	Markers Markers

	// Target registry. Zero-valued targets (no candidates) are skipped
	// by the states that would use them.
	FileInput        locate.Target
	TitleInput       locate.Target
	BodyEditor       locate.Target
	FallbackEditable locate.Target
	ModeTab          locate.Target
	ComposeButton    locate.Target
	Submit           locate.Target
}

// RedNote returns the Xiaohongshu creator-center profile. The publish form
// only renders after media upload, and the composer can open in video mode
// depending on the last session, hence the mode-switch machinery.
func RedNote() Platform {
	return Platform{
		Name:          "rednote",
		EntryURL:      "https://creator.xiaohongshu.com/publish/publish",
		ModeSwitchURL: "https://creator.xiaohongshu.com/publish/publish?from=tab_switch",
		TitleLimit:    20,
		Markers: Markers{
			LoginURLGlobs:  []string{"*/login*"},
			LoginPrompt:    "text=扫码登录",
			VideoModeURL:   "target=video",
			VideoModeText:  "上传视频",
			ImageModeReady: "text=上传图片，或写文字生成图片",
			UploadProgress: `text=/\(\d+\/18\)/`,
			FormReady:      "input[placeholder*='标题']",
		},
		FileInput: locate.Target{
			Role:     "file-input",
			Interval: 500 * time.Millisecond,
			Ceiling:  5 * time.Second,
			Candidates: []locate.Candidate{
				{Selector: "input[type='file']"},
			},
		},
		TitleInput: locate.Target{
			Role:     "title-input",
			Critical: true,
			Candidates: []locate.Candidate{
				{Selector: "input[placeholder*='填写标题']", Pred: locate.Visible},
				{Selector: "input[placeholder*='标题']", Pred: locate.Visible},
			},
		},
		BodyEditor: locate.Target{
			Role: "body-editor",
			// The body editor renders after and below the title, so the
			// last matching editable region is the one we want.
			Candidates: []locate.Candidate{
				{Selector: "div[contenteditable='true'] p", Pred: locate.Visible, Pick: locate.PickLast},
				{Selector: ".ql-editor", Pick: locate.PickLast},
				{Selector: "div[contenteditable='true']", Pred: locate.Visible, Pick: locate.PickLast},
			},
		},
		FallbackEditable: locate.Target{
			Role:    "fallback-editable",
			Ceiling: 5 * time.Second,
			Candidates: []locate.Candidate{
				{Selector: "div[contenteditable='true']"},
			},
		},
		ModeTab: locate.Target{
			Role:    "mode-tab",
			Ceiling: 3 * time.Second,
			// Two occurrences of the tab label usually render; the second
			// is the clickable one.
			Candidates: []locate.Candidate{
				{Selector: "text=上传图文", Pred: locate.MinCount, Min: 2, Pick: locate.PickNth, Nth: 1},
				{Selector: "text=上传图文"},
			},
		},
		Submit: locate.Target{
			Role:     "submit-button",
			Critical: true,
			Interval: 500 * time.Millisecond,
			Ceiling:  10 * time.Second,
			Candidates: []locate.Candidate{
				{Role: "button", Name: "发布", Pred: locate.Visible},
			},
		},
	}
}

// X returns the X (Twitter) profile. There is no separate title field and
// no mode switch; the composer may need an explicit click on the side-nav
// compose button before it renders.
func X() Platform {
	return Platform{
		Name:     "x",
		EntryURL: "https://x.com/home",
		Markers: Markers{
			LoginURLGlobs: []string{"*/login*", "*/i/flow/login*"},
		},
		FileInput: locate.Target{
			Role:     "file-input",
			Interval: 500 * time.Millisecond,
			Ceiling:  5 * time.Second,
			Candidates: []locate.Candidate{
				{Selector: "input[type='file'][data-testid='fileInput']"},
				{Selector: "input[type='file']"},
			},
		},
		BodyEditor: locate.Target{
			Role:     "composer",
			Critical: true,
			Candidates: []locate.Candidate{
				{Selector: "div[role='textbox'][data-testid='tweetTextarea_0']", Pred: locate.Visible},
			},
		},
		FallbackEditable: locate.Target{
			Role:    "fallback-editable",
			Ceiling: 5 * time.Second,
			Candidates: []locate.Candidate{
				{Selector: "div[role='textbox']", Pred: locate.Visible},
			},
		},
		ComposeButton: locate.Target{
			Role:    "compose-button",
			Ceiling: 3 * time.Second,
			Candidates: []locate.Candidate{
				{Selector: "a[data-testid='SideNav_NewTweet_Button']", Pred: locate.Visible},
				{Selector: "div[data-testid='SideNav_NewTweet_Button']", Pred: locate.Visible},
			},
		},
		Submit: locate.Target{
			Role:     "submit-button",
			Critical: true,
			Interval: 500 * time.Millisecond,
			Ceiling:  10 * time.Second,
			Candidates: []locate.Candidate{
				{Selector: "div[data-testid='tweetButtonInline']", Pred: locate.Visible},
				{Role: "button", Name: "Post", Pred: locate.Visible},
			},
		},
	}
}

// ApplyOverrides merges a config override block into the profile. Empty
// override fields keep the built-ins; selector lists replace the whole
// candidate chain for their role.
func (p *Platform) ApplyOverrides(o config.Platform) {
	if o.EntryURL != "" {
		p.EntryURL = o.EntryURL
	}
	if o.ModeSwitchURL != "" {
		p.ModeSwitchURL = o.ModeSwitchURL
	}
	if len(o.LoginURLGlobs) > 0 {
		p.Markers.LoginURLGlobs = o.LoginURLGlobs
	}
	if o.LoginPrompt != "" {
		p.Markers.LoginPrompt = o.LoginPrompt
	}
	if o.VideoModeURL != "" {
		p.Markers.VideoModeURL = o.VideoModeURL
	}
	if o.VideoModeText != "" {
		p.Markers.VideoModeText = o.VideoModeText
	}
	if o.ImageModeReady != "" {
		p.Markers.ImageModeReady = o.ImageModeReady
	}
	if o.UploadProgress != "" {
		p.Markers.UploadProgress = o.UploadProgress
	}
	if o.FormReady != "" {
		p.Markers.FormReady = o.FormReady
	}

	for role, selectors := range o.Selectors {
		target := p.target(role)
		if target == nil || len(selectors) == 0 {
			continue
		}
		target.Candidates = overrideCandidates(role, selectors)
	}
}

// target maps a logical role name to the profile's target slot.
func (p *Platform) target(role string) *locate.Target {
	switch role {
	case "file-input":
		return &p.FileInput
	case "title-input":
		return &p.TitleInput
	case "body-editor", "composer":
		return &p.BodyEditor
	case "fallback-editable":
		return &p.FallbackEditable
	case "mode-tab":
		return &p.ModeTab
	case "compose-button":
		return &p.ComposeButton
	case "submit-button":
		return &p.Submit
	default:
		return nil
	}
}

// overrideCandidates builds a candidate chain from bare selectors, keeping
// the role's usual predicate and pick semantics.
func overrideCandidates(role string, selectors []string) []locate.Candidate {
	candidates := make([]locate.Candidate, 0, len(selectors))
	for _, s := range selectors {
		c := locate.Candidate{Selector: s}
		switch role {
		case "file-input":
			// presence is enough, file inputs are usually hidden
		case "body-editor", "composer":
			c.Pred = locate.Visible
			c.Pick = locate.PickLast
		default:
			c.Pred = locate.Visible
		}
		candidates = append(candidates, c)
	}
	return candidates
}
