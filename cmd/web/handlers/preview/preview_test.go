package preview

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"soundstage.systems/foleydeck/cmd/web/auth"
	"soundstage.systems/foleydeck/pkg/utils/passwords"
)

func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := passwords.NewPassword(passwords.PasswordInput{Password: password})
	require.NoError(t, err)
	return hash.String()
}

func postLogin(t *testing.T, sm *auth.SessionManager, hash, password string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/preview/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, HandleLogin(sm, hash)(c))
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionName {
			return c
		}
	}
	return nil
}

func TestHandleLogin(t *testing.T) {
	t.Parallel()
	hash := testHash(t, "opensesame123")

	t.Run("signals body grants and redirects", func(t *testing.T) {
		t.Parallel()
		sm := auth.NewSessionManager("test-secret")

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/preview/login", strings.NewReader(`{"password":"opensesame123"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, HandleLogin(sm, hash)(c))

		require.Contains(t, rec.Body.String(), "window.location.href = '/'")

		cookie := sessionCookie(t, rec)
		require.NotNil(t, cookie)

		followup := httptest.NewRequest(http.MethodGet, "/", nil)
		followup.AddCookie(cookie)
		require.True(t, sm.IsPreviewGranted(followup))
	})

	t.Run("form body works as a fallback", func(t *testing.T) {
		t.Parallel()
		sm := auth.NewSessionManager("test-secret")
		rec := postLogin(t, sm, hash, "opensesame123")

		require.Contains(t, rec.Body.String(), "window.location.href = '/'")
		require.NotNil(t, sessionCookie(t, rec))
	})

	t.Run("wrong password patches the form", func(t *testing.T) {
		t.Parallel()
		sm := auth.NewSessionManager("test-secret")
		rec := postLogin(t, sm, hash, "not-the-password")

		body := rec.Body.String()
		require.Contains(t, body, "Incorrect password")
		require.NotContains(t, body, "window.location.href")
		require.Nil(t, sessionCookie(t, rec))
	})

	t.Run("blank password patches the form", func(t *testing.T) {
		t.Parallel()
		sm := auth.NewSessionManager("test-secret")
		rec := postLogin(t, sm, hash, "   ")

		require.Contains(t, rec.Body.String(), "Password is required")
		require.Nil(t, sessionCookie(t, rec))
	})
}

func TestHandleLogout(t *testing.T) {
	t.Parallel()
	sm := auth.NewSessionManager("test-secret")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/preview/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, HandleLogout(sm)(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/preview", rec.Header().Get(echo.HeaderLocation))
	require.NotEmpty(t, rec.Result().Header.Values("Set-Cookie"))
}

func TestHandlePreviewPage(t *testing.T) {
	t.Parallel()
	sm := auth.NewSessionManager("test-secret")

	t.Run("ungranted browser gets the form", func(t *testing.T) {
		t.Parallel()
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/preview", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, HandlePreviewPage(sm)(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `id="preview-form"`)
	})

	t.Run("granted browser is sent home", func(t *testing.T) {
		t.Parallel()
		grant := httptest.NewRequest(http.MethodGet, "/", nil)
		grantRec := httptest.NewRecorder()
		require.NoError(t, sm.SavePreviewSession(grantRec, grant))
		cookie := sessionCookie(t, grantRec)
		require.NotNil(t, cookie)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/preview", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, HandlePreviewPage(sm)(c))
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	})
}
