// package gallery_api provides the gallery fragment SSE handlers.
package gallery_api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"

	"soundstage.systems/foleydeck/cmd/web/handlers/common"
	"soundstage.systems/foleydeck/cmd/web/templates/components"
	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/internal/site"
	"soundstage.systems/foleydeck/pkg/gallery"
)

// gallerySignals is one gallery's slice of the page signal tree. Every
// gallery keeps its state under its own namespace, so one page can hold any
// number of them without crosstalk.
type gallerySignals struct {
	Page     int  `json:"page"`
	Expanded bool `json:"expanded"`
}

// HandleGallery patches a gallery's body and controls to match the browser's
// interaction state. The same endpoint serves the initial on-load fetch and
// every later toggle or page click; the request's signals say which.
func HandleGallery(st *site.Site, store *dataset.Store, mediaBase string) echo.HandlerFunc {
	return func(c echo.Context) error {
		slug, err := common.RequireSlugParam(c, "slug")
		if err != nil {
			return err
		}
		g, ok := st.Gallery(slug)
		if !ok {
			return common.ErrNotFound("unknown gallery")
		}

		// IMPORTANT: ReadSignals MUST happen BEFORE NewSSE.
		sig := gallerySignals{Page: 1}
		tree := map[string]json.RawMessage{}
		if err := datastar.ReadSignals(c.Request(), &tree); err == nil {
			if raw, ok := tree[components.SignalsKey(slug)]; ok {
				_ = json.Unmarshal(raw, &sig)
			}
		} else {
			// Fallback to query params for non-Datastar requests.
			if p, perr := strconv.Atoi(c.QueryParam("page")); perr == nil {
				sig.Page = p
			}
			sig.Expanded = c.QueryParam("expanded") == "true"
		}

		gotoPage, hasGoto, err := common.OptionalIntQuery(c, "goto")
		if err != nil {
			return err
		}

		var recs []dataset.Record
		if ds, ok := store.Get(g.Dataset); ok {
			recs = ds.Records
		} else {
			slog.Error("gallery references a dataset the store does not hold", "gallery", slug, "dataset", g.Dataset)
		}

		switch g.Kind {
		case site.KindDisclosure:
			return streamDisclosure(c, st, *g, recs, sig, mediaBase)
		case site.KindPaginated:
			return streamPaginated(c, st, *g, recs, sig, gotoPage, hasGoto, mediaBase)
		}
		return common.ErrInternal("unhandled gallery kind")
	}
}

func streamDisclosure(c echo.Context, st *site.Site, g site.Gallery, recs []dataset.Record, sig gallerySignals, mediaBase string) error {
	d := gallery.NewDisclosure(g.InitialCount)
	d.SetExpanded(sig.Expanded)

	total := len(recs)
	visible := d.Visible(total)

	common.SetSSEHeaders(c)
	sse := datastar.NewSSE(c.Response().Writer, c.Request())

	if err := sse.PatchElementTempl(components.GalleryBody(st, g, recs[:visible], mediaBase)); err != nil {
		slog.Error("failed to send gallery body SSE patch", "gallery", g.Slug, "error", err)
		return err
	}
	if sse.IsClosed() {
		return nil
	}
	if err := sse.PatchElementTempl(components.DisclosureControls(g, d, total)); err != nil {
		slog.Error("failed to send disclosure controls SSE patch", "gallery", g.Slug, "error", err)
		return err
	}
	return nil
}

func streamPaginated(c echo.Context, st *site.Site, g site.Gallery, recs []dataset.Record, sig gallerySignals, gotoPage int, hasGoto bool, mediaBase string) error {
	total := len(recs)

	p := gallery.NewPager(g.ItemsPerPage)
	// Restore the page the browser thinks it is on. A stale or garbage
	// signal fails the move and the pager stays on page 1.
	p.GoToPage(sig.Page, total)

	changed := false
	if hasGoto {
		changed = p.GoToPage(gotoPage, total)
	}

	lo, hi := p.PageSlice(total)
	pagination := components.Pagination{
		Slug:        g.Slug,
		CurrentPage: p.CurrentPage(),
		TotalPages:  p.TotalPages(total),
		TotalItems:  total,
		PageSize:    p.ItemsPerPage(),
		HasPrev:     p.HasPrev(),
		HasNext:     p.HasNext(total),
	}

	common.SetSSEHeaders(c)
	sse := datastar.NewSSE(c.Response().Writer, c.Request())

	if err := sse.PatchElementTempl(components.GalleryBody(st, g, recs[lo:hi], mediaBase)); err != nil {
		slog.Error("failed to send gallery body SSE patch", "gallery", g.Slug, "error", err)
		return err
	}
	if sse.IsClosed() {
		return nil
	}
	if err := sse.PatchElementTempl(components.PaginationControls(pagination)); err != nil {
		slog.Error("failed to send pagination SSE patch", "gallery", g.Slug, "error", err)
		return err
	}

	// Re-sync the browser's page signal whenever it disagrees with the pager,
	// which covers both an accepted goto and a stale signal after a reload.
	if p.CurrentPage() != sig.Page {
		pageJSON, _ := json.Marshal(map[string]interface{}{
			components.SignalsKey(g.Slug): map[string]interface{}{"page": p.CurrentPage()},
		})
		_ = sse.PatchSignals(pageJSON)
	}

	// Scroll only on an actual page move. Rejected and repeated gotos leave
	// the viewport alone.
	if changed {
		_ = sse.ExecuteScript(fmt.Sprintf(`
			{
				const gallery = document.getElementById('gallery-%s');
				if (gallery) {
					gallery.scrollIntoView({behavior: 'smooth', block: 'start'});
				}
			}
		`, g.Slug))
	}
	return nil
}
