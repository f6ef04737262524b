package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/internal/site"
	"soundstage.systems/foleydeck/pkg/gallery"
)

// SignalsKey returns the Datastar signal namespace for a gallery. Slugs use
// hyphens, which signal paths cannot carry, so they become underscores.
func SignalsKey(slug string) string {
	return strings.ReplaceAll(slug, "-", "_")
}

func galleryPath(slug string) string {
	return "/api/galleries/" + slug
}

// GallerySection renders the static shell of one gallery: anchor, header, a
// skeleton body, and an empty controls slot. The real body and controls are
// patched in over SSE once the section's on-load fires.
func GallerySection(g site.Gallery) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ns := SignalsKey(g.Slug)

		var b strings.Builder
		fmt.Fprintf(&b, `<section class="gallery" id="gallery-%s" data-signals="{%s: {page: 1, expanded: false}}" data-on-load="@get('%s')">`,
			g.Slug, ns, galleryPath(g.Slug))

		b.WriteString(`<header class="gallery-header">`)
		b.WriteString(`<h2 class="gallery-title">` + templ.EscapeString(g.Title) + `</h2>`)
		if g.Blurb != "" {
			b.WriteString(`<p class="gallery-blurb">` + templ.EscapeString(g.Blurb) + `</p>`)
		}
		b.WriteString(`</header>`)

		fmt.Fprintf(&b, `<div class="gallery-body" id="gallery-%s-body">`, g.Slug)
		for i := 0; i < 2; i++ {
			b.WriteString(`<div class="card card-skeleton" aria-hidden="true"><div class="skeleton-line"></div><div class="skeleton-tile"></div></div>`)
		}
		b.WriteString(`</div>`)

		fmt.Fprintf(&b, `<div class="gallery-controls" id="gallery-%s-controls"></div>`, g.Slug)
		b.WriteString(`</section>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// GalleryBody renders the card list for the records a gallery currently
// shows. Callers slice the record list first; this component renders exactly
// what it is handed.
func GalleryBody(st *site.Site, g site.Gallery, recs []dataset.Record, mediaBase string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div class="gallery-body" id="gallery-%s-body">`, g.Slug)
		if len(recs) == 0 {
			b.WriteString(`<p class="gallery-empty">No comparisons loaded.</p>`)
		}
		for i := range recs {
			if err := ComparisonCard(st, &recs[i], mediaBase).Render(ctx, &b); err != nil {
				return err
			}
		}
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// DisclosureControls renders the expand/collapse toggle. With initialCount or
// fewer records there is nothing to disclose and the slot stays empty.
func DisclosureControls(g site.Gallery, d *gallery.Disclosure, total int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ns := SignalsKey(g.Slug)

		var b strings.Builder
		fmt.Fprintf(&b, `<div class="gallery-controls" id="gallery-%s-controls">`, g.Slug)
		if d.ControlVisible(total) {
			label := fmt.Sprintf("Show all %d clips", total)
			if d.Expanded() {
				label = "Show fewer"
			}
			fmt.Fprintf(&b, `<button type="button" class="btn-disclose" data-on-click="$%s.expanded = !$%s.expanded; @get('%s')">%s</button>`,
				ns, ns, galleryPath(g.Slug), templ.EscapeString(label))
		}
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Pagination carries the pager state a controls strip renders from.
type Pagination struct {
	Slug        string
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PageSize    int
	HasPrev     bool
	HasNext     bool
}

// PaginationControls renders the page strip: prev/next, a windowed run of
// page buttons with ellipsis gaps, and a status line. A single page renders
// an empty slot, keeping the element id in place for later patches.
func PaginationControls(p Pagination) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<nav class="gallery-controls pagination" id="gallery-%s-controls">`, p.Slug)
		if p.TotalPages > 1 {
			writePageButton(&b, p.Slug, "page-btn page-prev", p.CurrentPage-1, "Prev", !p.HasPrev)
			for _, item := range gallery.Window(p.TotalPages, p.CurrentPage) {
				if item.Gap {
					b.WriteString(`<span class="page-gap">&hellip;</span>`)
					continue
				}
				class := "page-btn"
				if item.Page == p.CurrentPage {
					class = "page-btn page-current"
				}
				writePageButton(&b, p.Slug, class, item.Page, fmt.Sprintf("%d", item.Page), false)
			}
			writePageButton(&b, p.Slug, "page-btn page-next", p.CurrentPage+1, "Next", !p.HasNext)
			fmt.Fprintf(&b, `<span class="page-status">Page %d of %d &middot; %d clips</span>`,
				p.CurrentPage, p.TotalPages, p.TotalItems)
		}
		b.WriteString(`</nav>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writePageButton(b *strings.Builder, slug, class string, page int, label string, disabled bool) {
	attr := ""
	if disabled {
		attr = " disabled"
	}
	fmt.Fprintf(b, `<button type="button" class="%s" data-on-click="@get('%s?goto=%d')"%s>%s</button>`,
		class, galleryPath(slug), page, attr, templ.EscapeString(label))
}
