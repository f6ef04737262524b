package preview

import (
	"github.com/labstack/echo/v4"

	"soundstage.systems/foleydeck/cmd/web/auth"
)

func HandleLogout(sm *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		sm.ClearSession(c.Response().Writer, c.Request())
		return c.Redirect(302, "/preview")
	}
}
