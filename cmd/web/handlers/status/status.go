// Package status serves the operator status page.
package status

import (
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"

	"soundstage.systems/foleydeck/cmd/web/templates"
	"soundstage.systems/foleydeck/internal/config"
	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/internal/livereload"
	"soundstage.systems/foleydeck/pkg/utils/format"
)

func HandleStatusPage(store *dataset.Store, hub *livereload.Hub, conf *config.Config, startedAt time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := time.Now()
		m := templates.StatusModel{
			Uptime:      strings.TrimSpace(humanize.RelTime(startedAt, now, "", "")),
			StartedAt:   startedAt.UTC().Format(time.RFC1123),
			GoVersion:   runtime.Version(),
			WatchActive: conf.WatchDatasets,
			PreviewGate: conf.PreviewPasswordHash != "",
			Subscribers: hub.Subscribers(),
			MediaBase:   conf.MediaBaseURL,
		}

		for _, ds := range store.All() {
			m.Datasets = append(m.Datasets, templates.DatasetRow{
				Name:        ds.Name,
				Path:        ds.Path,
				Records:     len(ds.Records),
				Size:        format.Bytes(ds.ByteSize),
				Fingerprint: ds.Fingerprint.String()[:8],
				LoadedAt:    ds.LoadedAt.UTC().Format(time.RFC1123),
				LoadedAgo:   humanize.Time(ds.LoadedAt),
			})
		}

		return templates.Status(m).Render(c.Request().Context(), c.Response())
	}
}
