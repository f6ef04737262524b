package web

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"soundstage.systems/foleydeck/cmd/web/auth"
	"soundstage.systems/foleydeck/cmd/web/ctxkeys"
	"soundstage.systems/foleydeck/cmd/web/handlers/common"
	"soundstage.systems/foleydeck/cmd/web/handlers/content"
	"soundstage.systems/foleydeck/cmd/web/handlers/preview"
	"soundstage.systems/foleydeck/cmd/web/handlers/status"

	"soundstage.systems/foleydeck/cmd/web/handlers/api/fileserver"
	"soundstage.systems/foleydeck/cmd/web/handlers/api/gallery_api"
	"soundstage.systems/foleydeck/cmd/web/handlers/api/reload_api"

	staticpkg "soundstage.systems/foleydeck/cmd/web/internal/web/utils/static"
	"soundstage.systems/foleydeck/internal/config"
	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/internal/livereload"
	"soundstage.systems/foleydeck/internal/site"
)

type Webserver struct {
	*echo.Echo
	conf           *config.Config
	site           *site.Site
	store          *dataset.Store
	reloadHub      *livereload.Hub
	sessionManager *auth.SessionManager
	staticCache    *staticpkg.StaticCache
	fileServer     *fileserver.FileServer
	abstractHTML   string
	startedAt      time.Time
}

func NewWebserver(conf *config.Config, st *site.Site, store *dataset.Store, reloadHub *livereload.Hub, sessionManager *auth.SessionManager, abstractHTML string) (*Webserver, error) {
	e := echo.New()

	// Initialize static cache
	staticCache, err := staticpkg.NewStaticCache()
	if err != nil {
		return nil, err
	}

	webserver := &Webserver{
		Echo:           e,
		conf:           conf,
		site:           st,
		store:          store,
		reloadHub:      reloadHub,
		sessionManager: sessionManager,
		staticCache:    staticCache,
		fileServer:     fileserver.NewFileServer(),
		abstractHTML:   abstractHTML,
		startedAt:      time.Now(),
	}

	if err = webserver.registerRoutes(); err != nil {
		return nil, err
	}

	if err = webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	return webserver, nil
}

// previewExempt lists the routes reachable without a preview grant.
func previewExempt(routePath string) bool {
	switch routePath {
	case "/preview", "/api/preview/login", "/api/preview/logout", "/healthz":
		return true
	}
	return strings.HasPrefix(routePath, "/static/")
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("2M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		// Range requests for video scrubbing do not mix with gzip, and the
		// SSE endpoints manage their own flushing.
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/media/*",
				"/api/galleries/:slug",
				"/api/reload",
				"/api/preview/login":
				return true
			default:
				return false
			}
		},
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/healthz",
				"/api/reload":
				return true
			default:
				return false
			}
		},
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))

	// Preview gate. When a password hash is configured the whole site sits
	// behind /preview until the session carries the grant.
	s.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			gateOn := s.conf.PreviewPasswordHash != ""
			granted := false
			if gateOn {
				granted = s.sessionManager.IsPreviewGranted(c.Request())
			}

			// Set in Echo context for handlers
			c.Set("previewGranted", granted)

			// Set both values in request context for templates
			ctx := context.WithValue(c.Request().Context(), ctxkeys.PreviewEnabled, gateOn)
			ctx = context.WithValue(ctx, ctxkeys.PreviewGranted, granted)
			c.SetRequest(c.Request().WithContext(ctx))

			if gateOn && !granted && !previewExempt(c.Path()) {
				// Media and API requests come from <video> tags and Datastar,
				// where a redirect to an HTML login page only confuses things.
				if strings.HasPrefix(c.Path(), "/api/") || strings.HasPrefix(c.Path(), "/media/") {
					return common.ErrUnauthorized()
				}
				return c.Redirect(302, "/preview")
			}

			return next(c)
		}
	})

	return nil
}

func (s *Webserver) registerRoutes() error {
	apiGroup := s.Group("/api")
	apiGroup.GET("/galleries/:slug", gallery_api.HandleGallery(s.site, s.store, s.conf.MediaBaseURL))
	apiGroup.GET("/reload", reload_api.HandleReloadStream(s.site, s.store, s.reloadHub, s.conf.MediaBaseURL))
	apiGroup.POST("/preview/login", preview.HandleLogin(s.sessionManager, s.conf.PreviewPasswordHash))
	apiGroup.POST("/preview/logout", preview.HandleLogout(s.sessionManager))

	// Local comparison videos referenced by gallery records
	s.GET("/media/*", fileserver.HandleMedia(s.conf.MediaDir, s.fileServer))

	// Health check
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})

	// Static file serving
	s.GET("/static/*", s.staticCache.ServeStaticFile("/static/"))

	// Content routes
	s.GET("/preview", preview.HandlePreviewPage(s.sessionManager))
	s.GET("/status", status.HandleStatusPage(s.store, s.reloadHub, s.conf, s.startedAt))
	s.GET("/", content.HandleHomePage(s.site, s.abstractHTML, s.conf.WatchDatasets))

	return nil
}
