// Package templates holds the page-level views. Pages and fragments are
// hand-composed templ components, so the SSE handlers can patch any of them
// through the same render interface.
package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"soundstage.systems/foleydeck/cmd/web/ctxkeys"
)

// datastarSrc pins the browser bundle to the release line the server SDK
// speaks.
const datastarSrc = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

// layout wraps page content in the document shell.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html><html lang="en"><head>`)
		b.WriteString(`<meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>` + templ.EscapeString(title) + `</title>`)
		b.WriteString(`<link rel="icon" href="/static/dist/favicon.svg" type="image/svg+xml">`)
		b.WriteString(`<link rel="stylesheet" href="/static/dist/main.css">`)
		b.WriteString(`<script type="module" src="` + datastarSrc + `"></script>`)
		b.WriteString(`</head><body>`)
		if on, _ := ctx.Value(ctxkeys.PreviewEnabled).(bool); on {
			b.WriteString(`<div class="preview-ribbon">Preview</div>`)
		}
		if err := body.Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
