package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"soundstage.systems/foleydeck/cmd/web/templates/components"
	"soundstage.systems/foleydeck/cmd/web/viewtypes"
	"soundstage.systems/foleydeck/internal/site"
)

// Index renders the landing page shell: hero, abstract, and one section per
// gallery. Gallery bodies start as skeletons; each section loads its records
// over SSE from /api/galleries/:slug once mounted.
func Index(st *site.Site, abstractHTML string, liveReload bool) templ.Component {
	return layout(st.Title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="page">`)
		if liveReload {
			// Keeps a reload stream open so edited datasets re-render in place.
			b.WriteString(`<div id="reload-watch" data-on-load="@get('/api/reload')"></div>`)
		}

		b.WriteString(`<header class="hero">`)
		b.WriteString(`<h1 class="` + viewtypes.PageHeading + `">` + templ.EscapeString(st.Title) + `</h1>`)
		if st.Tagline != "" {
			b.WriteString(`<p class="hero-tagline">` + templ.EscapeString(st.Tagline) + `</p>`)
		}
		if len(st.Links) > 0 {
			b.WriteString(`<nav class="hero-links">`)
			for _, l := range st.Links {
				class := "hero-link"
				if l.Kind != "" {
					class += " hero-link-" + l.Kind
				}
				b.WriteString(`<a class="` + templ.EscapeString(class) + `" href="` + templ.EscapeString(l.Href) + `" target="_blank" rel="noopener">` +
					templ.EscapeString(l.Label) + `</a>`)
			}
			b.WriteString(`</nav>`)
		}
		b.WriteString(`</header>`)

		if abstractHTML != "" {
			b.WriteString(`<section class="abstract" id="abstract">`)
			b.WriteString(`<h2 class="` + viewtypes.SubHeading + `">Abstract</h2>`)
			// abstractHTML arrives sanitized from the markdown renderer.
			b.WriteString(`<div class="abstract-body">` + abstractHTML + `</div>`)
			b.WriteString(`</section>`)
		}

		for _, g := range st.Galleries {
			if err := components.GallerySection(g).Render(ctx, &b); err != nil {
				return err
			}
		}

		b.WriteString(`</main>`)

		_, err := io.WriteString(w, b.String())
		return err
	}))
}
