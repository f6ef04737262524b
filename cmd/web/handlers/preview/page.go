// Package preview implements the preview gate: a single shared password in
// front of the whole site while the showcase is unpublished.
package preview

import (
	"github.com/labstack/echo/v4"

	"soundstage.systems/foleydeck/cmd/web/auth"
	"soundstage.systems/foleydeck/cmd/web/templates"
)

func HandlePreviewPage(sm *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		if sm.IsPreviewGranted(c.Request()) {
			return c.Redirect(302, "/")
		}
		return templates.PreviewLogin("").Render(c.Request().Context(), c.Response())
	}
}
