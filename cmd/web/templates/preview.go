package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"soundstage.systems/foleydeck/cmd/web/viewtypes"
)

// PreviewLogin renders the preview gate page.
func PreviewLogin(errMsg string) templ.Component {
	return layout("Preview access", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="page page-narrow">`)
		b.WriteString(`<section class="preview-panel">`)
		b.WriteString(`<h1 class="` + viewtypes.PageHeading + `">Preview access</h1>`)
		b.WriteString(`<p class="preview-note">This showcase is not public yet. Enter the preview password to continue.</p>`)
		if err := PreviewForm(errMsg).Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString(`</section>`)
		b.WriteString(`</main>`)

		_, err := io.WriteString(w, b.String())
		return err
	}))
}

// PreviewForm is the gate form fragment. The login handler re-patches it by
// id when the password does not match.
func PreviewForm(errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<form id="preview-form" class="preview-form" data-signals="{password: ''}" data-on-submit="@post('/api/preview/login')">`)
		if errMsg != "" {
			b.WriteString(`<p class="form-error">` + templ.EscapeString(errMsg) + `</p>`)
		}
		b.WriteString(`<input type="password" class="` + viewtypes.InputClass + `" data-bind-password placeholder="Password" autocomplete="current-password" autofocus>`)
		b.WriteString(`<button type="submit" class="` + viewtypes.PrimaryButton + `">Enter</button>`)
		b.WriteString(`</form>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
