package content

import (
	"github.com/labstack/echo/v4"

	"soundstage.systems/foleydeck/cmd/web/templates"
	"soundstage.systems/foleydeck/internal/site"
)

func HandleHomePage(st *site.Site, abstractHTML string, liveReload bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Render a fast shell; gallery bodies are loaded asynchronously via
		// Datastar SSE from /api/galleries/:slug.
		return templates.Index(st, abstractHTML, liveReload).Render(c.Request().Context(), c.Response())
	}
}
