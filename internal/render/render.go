package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

// Error wraps a rendering collaborator failure. Stage names the path that
// failed ("screenshot" or "markdown").
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result is a rendered statement ready to send.
type Result struct {
	MIME string
	Data []byte
}

// Renderer turns a question title and statement body into a sendable payload.
// The image and text implementations are the two pipeline variants; which one
// runs is a configuration choice made at startup.
type Renderer interface {
	Render(ctx context.Context, title, body string) (Result, error)
}

const htmlDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: -apple-system, "PingFang SC", "Microsoft YaHei", sans-serif;
         max-width: 720px; margin: 0 auto; padding: 24px; line-height: 1.7;
         color: #262626; background: #ffffff; }
  h1 { font-size: 22px; border-bottom: 1px solid #e5e5e5; padding-bottom: 8px; }
  pre { background: #f6f8fa; padding: 12px; border-radius: 6px; overflow-x: auto; }
  code { font-family: "SF Mono", Consolas, monospace; font-size: 13px; }
  img { max-width: 100%%; }
</style>
</head>
<body>
<h1>%s</h1>
%s
</body>
</html>`

// ImageRenderer renders statements to PNG through two external services: an
// HTML screenshot service for markup bodies and a markdown-to-image service
// for plain ones.
type ImageRenderer struct {
	screenshotURL string
	markdownURL   string
	client        *http.Client
}

func NewImageRenderer(screenshotURL, markdownURL string, timeout time.Duration) *ImageRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ImageRenderer{
		screenshotURL: screenshotURL,
		markdownURL:   markdownURL,
		client:        &http.Client{Timeout: timeout},
	}
}

type screenshotRequest struct {
	HTML      string `json:"html"`
	FullPage  bool   `json:"fullPage"`
	WaitUntil string `json:"waitUntil"`
}

type markdownRequest struct {
	Markdown string `json:"markdown"`
}

func (r *ImageRenderer) Render(ctx context.Context, title, body string) (Result, error) {
	switch Classify(body) {
	case KindHTML:
		doc := fmt.Sprintf(htmlDocument, html.EscapeString(title), body)
		png, err := r.post(ctx, r.screenshotURL, screenshotRequest{
			HTML:      doc,
			FullPage:  true,
			WaitUntil: "networkidle0",
		})
		if err != nil {
			return Result{}, &Error{Stage: "screenshot", Err: err}
		}
		return Result{MIME: "image/png", Data: png}, nil
	default:
		md := "# " + title + "\n\n" + body
		png, err := r.post(ctx, r.markdownURL, markdownRequest{Markdown: md})
		if err != nil {
			return Result{}, &Error{Stage: "markdown", Err: err}
		}
		return Result{MIME: "image/png", Data: png}, nil
	}
}

func (r *ImageRenderer) post(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	png, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("empty image response")
	}
	return png, nil
}

// TextRenderer is the text-only pipeline variant: no external collaborator,
// the statement goes out as plain text with markup stripped.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

func (r *TextRenderer) Render(_ context.Context, title, body string) (Result, error) {
	text := body
	if Classify(body) == KindHTML {
		text = stripTags(body)
	}
	out := title + "\n\n" + strings.TrimSpace(text)
	return Result{MIME: "text/plain; charset=utf-8", Data: []byte(out)}, nil
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}
