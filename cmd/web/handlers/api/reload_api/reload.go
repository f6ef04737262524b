// package reload_api provides the live-reload SSE stream.
package reload_api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"

	"soundstage.systems/foleydeck/cmd/web/handlers/api/gallery_api"
	"soundstage.systems/foleydeck/cmd/web/handlers/common"
	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/internal/livereload"
	"soundstage.systems/foleydeck/internal/site"
)

// HandleReloadStream returns an SSE handler that holds a subscription to the
// dataset reload hub for the lifetime of the tab. When a dataset is swapped,
// every gallery showing it is patched back to its initial state.
func HandleReloadStream(st *site.Site, store *dataset.Store, hub *livereload.Hub, mediaBase string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !hub.AcquireStream() {
			return c.String(429, "too many open reload streams")
		}
		defer hub.ReleaseStream()

		resp := c.Response()
		flusher, ok := resp.Writer.(http.Flusher)
		if !ok {
			return c.String(500, "streaming unsupported")
		}

		common.SetSSEHeaders(c)

		sse := datastar.NewSSE(resp, c.Request())

		evtCh, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		// Keep-alive comments so proxies/browsers keep the stream open.
		_, _ = fmt.Fprintf(resp, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-c.Request().Context().Done():
				return nil
			case evt, ok := <-evtCh:
				if !ok {
					return nil
				}
				slog.Info("pushing dataset reload to tab", "dataset", evt.Dataset, "fingerprint", evt.Fingerprint)
				for _, g := range st.Galleries {
					if g.Dataset != evt.Dataset {
						continue
					}
					var recs []dataset.Record
					if ds, ok := store.Get(g.Dataset); ok {
						recs = ds.Records
					}
					if err := gallery_api.PatchInitialState(sse, st, g, recs, mediaBase); err != nil {
						return nil
					}
					if sse.IsClosed() {
						return nil
					}
				}
				flusher.Flush()
			case <-ticker.C:
				_, _ = fmt.Fprintf(resp, ": keepalive\n\n")
				flusher.Flush()
			}
		}
	}
}
