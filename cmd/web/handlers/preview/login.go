package preview

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"

	"soundstage.systems/foleydeck/cmd/web/auth"
	"soundstage.systems/foleydeck/cmd/web/handlers/common"
	"soundstage.systems/foleydeck/cmd/web/templates"
	"soundstage.systems/foleydeck/pkg/utils/passwords"
)

func HandleLogin(sm *auth.SessionManager, passwordHash string) echo.HandlerFunc {
	return func(c echo.Context) error {
		// IMPORTANT: ReadSignals MUST happen BEFORE NewSSE.
		type Signals struct {
			Password string `json:"password"`
		}
		// Buffer the body: ReadSignals drains it, and the form fallback
		// needs a second pass when the request is not a signals POST.
		raw, _ := io.ReadAll(c.Request().Body)
		c.Request().Body = io.NopCloser(bytes.NewReader(raw))

		signals := &Signals{}
		if err := datastar.ReadSignals(c.Request(), signals); err != nil {
			c.Request().Body = io.NopCloser(bytes.NewReader(raw))
			signals.Password = c.FormValue("password")
		}

		password := strings.TrimSpace(signals.Password)
		if password == "" {
			return patchFormError(c, "Password is required")
		}

		stored := passwords.Password(passwordHash)
		match, err := stored.ComparePasswordAndHash(passwords.PasswordInput{Password: password})
		if err != nil || !match {
			slog.Warn("preview login rejected", "remote_ip", c.RealIP())
			return patchFormError(c, "Incorrect password")
		}

		// The session cookie must go out with the response headers, so save
		// before the SSE stream opens.
		if err := sm.SavePreviewSession(c.Response().Writer, c.Request()); err != nil {
			slog.Error("failed to save preview session", "error", err)
			return patchFormError(c, "An error occurred. Please try again.")
		}

		common.SetSSEHeaders(c)
		sse := datastar.NewSSE(c.Response().Writer, c.Request())
		_ = sse.ExecuteScript("window.location.href = '/';")
		return nil
	}
}

func patchFormError(c echo.Context, msg string) error {
	common.SetSSEHeaders(c)
	sse := datastar.NewSSE(c.Response().Writer, c.Request())
	return sse.PatchElementTempl(templates.PreviewForm(msg))
}
