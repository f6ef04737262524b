// Package components holds the fragment-level views the gallery SSE handlers
// patch into the page. Every fragment that gets patched carries its own
// element id, so PatchElementTempl needs no selector.
package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/internal/site"
)

// ComparisonCard renders one comparison record: the clip header, its prompt,
// and one video tile per method. Methods render in the site's canonical order
// first; ids the registry does not know keep the record's own order and show
// their raw id as the caption.
func ComparisonCard(st *site.Site, rec *dataset.Record, mediaBase string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(`<article class="card">`)
		b.WriteString(`<header class="card-header">`)
		fmt.Fprintf(&b, `<span class="card-seq">#%d</span>`, rec.SequenceID)
		b.WriteString(`<span class="card-id">` + templ.EscapeString(rec.VideoID) + `</span>`)
		b.WriteString(`</header>`)

		if rec.Prompt != "" {
			b.WriteString(`<p class="card-prompt">` + templ.EscapeString(rec.Prompt) + `</p>`)
		}

		b.WriteString(`<div class="card-tiles">`)
		for _, id := range st.OrderMethods(rec.Methods()) {
			ref, ok := rec.Videos[id]
			if !ok {
				continue
			}
			b.WriteString(`<figure class="tile">`)
			b.WriteString(`<video class="tile-video" controls preload="metadata" src="` +
				templ.EscapeString(mediaURL(mediaBase, ref)) + `"></video>`)
			b.WriteString(`<figcaption class="tile-caption">` + templ.EscapeString(st.DisplayName(id)) + `</figcaption>`)
			b.WriteString(`</figure>`)
		}
		b.WriteString(`</div>`)
		b.WriteString(`</article>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// mediaURL resolves a record's media reference against the configured base.
// Absolute http(s) and protocol-relative references pass through untouched;
// everything else joins onto the base with exactly one slash.
func mediaURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//") {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
