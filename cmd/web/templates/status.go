package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"soundstage.systems/foleydeck/cmd/web/viewtypes"
)

// DatasetRow is one dataset line on the status page.
type DatasetRow struct {
	Name        string
	Path        string
	Records     int
	Size        string
	Fingerprint string
	LoadedAt    string // absolute, shown as tooltip
	LoadedAgo   string // relative, shown in the cell
}

// StatusModel is everything the status page shows.
type StatusModel struct {
	Uptime      string
	StartedAt   string
	GoVersion   string
	WatchActive bool
	PreviewGate bool
	Subscribers int
	MediaBase   string
	Datasets    []DatasetRow
}

// Status renders the operator status page.
func Status(m StatusModel) templ.Component {
	return layout("Status", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="page">`)
		b.WriteString(`<h1 class="` + viewtypes.PageHeading + `">Status</h1>`)

		b.WriteString(`<dl class="` + viewtypes.InfoBoxClass + ` status-facts">`)
		writeFact(&b, "Uptime", m.Uptime)
		writeFact(&b, "Started", m.StartedAt)
		writeFact(&b, "Go", m.GoVersion)
		writeFact(&b, "Watcher", onOff(m.WatchActive))
		writeFact(&b, "Preview gate", onOff(m.PreviewGate))
		writeFact(&b, "Reload subscribers", fmt.Sprintf("%d", m.Subscribers))
		writeFact(&b, "Media base", m.MediaBase)
		b.WriteString(`</dl>`)

		b.WriteString(`<h2 class="` + viewtypes.SubHeading + `">Datasets</h2>`)
		if len(m.Datasets) == 0 {
			b.WriteString(`<p class="status-empty">No datasets loaded.</p>`)
		} else {
			b.WriteString(`<table class="status-table">`)
			b.WriteString(`<thead><tr><th>Dataset</th><th>Records</th><th>Size</th><th>Fingerprint</th><th>Loaded</th></tr></thead>`)
			b.WriteString(`<tbody>`)
			for _, d := range m.Datasets {
				b.WriteString(`<tr>`)
				b.WriteString(`<td title="` + templ.EscapeString(d.Path) + `">` + templ.EscapeString(d.Name) + `</td>`)
				fmt.Fprintf(&b, `<td class="num">%d</td>`, d.Records)
				b.WriteString(`<td class="num">` + templ.EscapeString(d.Size) + `</td>`)
				b.WriteString(`<td><code>` + templ.EscapeString(d.Fingerprint) + `</code></td>`)
				b.WriteString(`<td title="` + templ.EscapeString(d.LoadedAt) + `">` + templ.EscapeString(d.LoadedAgo) + `</td>`)
				b.WriteString(`</tr>`)
			}
			b.WriteString(`</tbody></table>`)
		}

		if m.PreviewGate {
			b.WriteString(`<form class="preview-logout" method="post" action="/api/preview/logout">`)
			b.WriteString(`<button type="submit" class="` + viewtypes.GhostButton + `">Leave preview</button>`)
			b.WriteString(`</form>`)
		}

		b.WriteString(`</main>`)

		_, err := io.WriteString(w, b.String())
		return err
	}))
}

func writeFact(b *strings.Builder, label, value string) {
	b.WriteString(`<div class="status-fact"><dt>` + templ.EscapeString(label) + `</dt><dd>` + templ.EscapeString(value) + `</dd></div>`)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
