package markdown

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// TextProcessor turns post content written in markdown into safe HTML.
type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify, extension.Table),
		// Line breaks in a textarea are meant literally.
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	// Images may only show uploaded attachments; any other source is blanked.
	p.RewriteSrc(func(u *url.URL) {
		if !isUploadedImage(u) {
			*u = url.URL{}
		}
	})

	return &TextProcessor{md: md, policy: p}
}

var uploadedImagePath = regexp.MustCompile(`^/images/[^/]+$`)

func isUploadedImage(u *url.URL) bool {
	if u.Scheme != "" || u.Host != "" || u.User != nil || u.RawQuery != "" || u.Opaque != "" {
		return false
	}
	name := strings.TrimPrefix(u.Path, "/images/")
	return uploadedImagePath.MatchString(u.Path) && name != "." && name != ".."
}

// Render converts markdown to sanitized HTML. Raw HTML in the source is
// dropped by goldmark and whatever slips through is cleaned by the policy.
func (tp *TextProcessor) Render(text string) string {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return tp.policy.Sanitize(text)
	}
	return strings.TrimSpace(tp.policy.Sanitize(buf.String()))
}
