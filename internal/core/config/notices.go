package config

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/expr-lang/expr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/colonyops/noticeboard/internal/core/notice"
)

// markdown converts content_md declarations to HTML.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// sanitizer strips anything unsafe from markdown-rendered content so the
// notice controller always receives pre-sanitized markup. Inline `content`
// declarations bypass it: those are the operator's responsibility, matching
// the controller's contract.
var sanitizer = bluemonday.UGCPolicy()

// NoticeConfigs converts the declared notices into controller configurations.
// Markdown content is rendered and sanitized here; rules are compiled here.
// Validation has already run, so compile errors only occur for notices that
// slipped in through a non-Load path.
func (c *Config) NoticeConfigs() ([]notice.Config, error) {
	configs := make([]notice.Config, 0, len(c.Notices))

	for i, n := range c.Notices {
		content := template.HTML(n.Content)
		if n.ContentMD != "" {
			rendered, err := renderMarkdown(n.ContentMD)
			if err != nil {
				return nil, fmt.Errorf("notices[%d] %q: %w", i, n.ID, err)
			}
			content = rendered
		}

		cfg := notice.Config{
			ID:          n.ID,
			Content:     content,
			Dismissible: n.IsDismissible(),
			Scope:       notice.Scope(n.Scope),
			Style:       notice.Style(n.Style),
			Capability:  n.Capability,
			KeyPrefix:   n.KeyPrefix,
			Screens:     n.Screens,
		}

		if n.Rule != "" {
			program, err := expr.Compile(n.Rule)
			if err != nil {
				return nil, fmt.Errorf("notices[%d] %q: compile rule: %w", i, n.ID, err)
			}
			cfg.Rule = program
		}

		configs = append(configs, cfg)
	}

	return configs, nil
}

// renderMarkdown converts markdown to sanitized HTML.
func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
