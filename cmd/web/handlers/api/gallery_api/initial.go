package gallery_api

import (
	"encoding/json"

	"github.com/starfederation/datastar-go/datastar"

	"soundstage.systems/foleydeck/cmd/web/templates/components"
	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/internal/site"
	"soundstage.systems/foleydeck/pkg/gallery"
)

// PatchInitialState renders a gallery at its initial view state: collapsed,
// page 1, signals reset. The reload stream uses it to bring open tabs back to
// a known state after a dataset swap, since any page or expansion the browser
// held referred to the old record list.
func PatchInitialState(sse *datastar.ServerSentEventGenerator, st *site.Site, g site.Gallery, recs []dataset.Record, mediaBase string) error {
	total := len(recs)

	switch g.Kind {
	case site.KindDisclosure:
		d := gallery.NewDisclosure(g.InitialCount)
		if err := sse.PatchElementTempl(components.GalleryBody(st, g, recs[:d.Visible(total)], mediaBase)); err != nil {
			return err
		}
		if err := sse.PatchElementTempl(components.DisclosureControls(g, d, total)); err != nil {
			return err
		}
	case site.KindPaginated:
		p := gallery.NewPager(g.ItemsPerPage)
		lo, hi := p.PageSlice(total)
		if err := sse.PatchElementTempl(components.GalleryBody(st, g, recs[lo:hi], mediaBase)); err != nil {
			return err
		}
		pagination := components.Pagination{
			Slug:        g.Slug,
			CurrentPage: p.CurrentPage(),
			TotalPages:  p.TotalPages(total),
			TotalItems:  total,
			PageSize:    p.ItemsPerPage(),
			HasPrev:     p.HasPrev(),
			HasNext:     p.HasNext(total),
		}
		if err := sse.PatchElementTempl(components.PaginationControls(pagination)); err != nil {
			return err
		}
	}

	sigJSON, _ := json.Marshal(map[string]interface{}{
		components.SignalsKey(g.Slug): map[string]interface{}{"page": 1, "expanded": false},
	})
	return sse.PatchSignals(sigJSON)
}
