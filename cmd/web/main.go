package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"soundstage.systems/foleydeck/cmd/web/auth"
	"soundstage.systems/foleydeck/cmd/web/internal/web"
	"soundstage.systems/foleydeck/internal/config"
	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/internal/livereload"
	"soundstage.systems/foleydeck/internal/site"
	"soundstage.systems/foleydeck/pkg/utils/markdown"
)

// resolvePath joins a manifest-relative path onto the data dir. Absolute
// paths pass through.
func resolvePath(dataDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting web service")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: conf.SlogLevel(),
	})))

	st, err := site.Load(conf.SiteManifest)
	if err != nil {
		slog.Error("failed to load site manifest", "error", err)
		os.Exit(1)
	}

	// Paths inside the manifest resolve against DATA_DIR.
	abstractHTML := ""
	if st.AbstractPath != "" {
		md, err := markdown.LoadFile(resolvePath(conf.DataDir, st.AbstractPath))
		if err != nil {
			slog.Error("failed to load abstract", "error", err)
			os.Exit(1)
		}
		abstractHTML = string(md.Render())
	}

	store := dataset.NewStore(conf.SiteDomain)
	loaded := make(map[string]struct{}, len(st.Galleries))
	for _, g := range st.Galleries {
		if _, done := loaded[g.Dataset]; done {
			continue
		}
		loaded[g.Dataset] = struct{}{}

		path := resolvePath(conf.DataDir, g.Dataset)
		ds, _, err := store.LoadFile(g.Dataset, path)
		if err != nil {
			slog.Error("failed to load dataset", "dataset", g.Dataset, "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("dataset loaded",
			"dataset", ds.Name,
			"records", len(ds.Records),
			"fingerprint", ds.Fingerprint.String(),
		)
	}

	reloadHub := livereload.NewHub()

	if conf.WatchDatasets {
		watcher, err := dataset.NewWatcher(store, reloadHub)
		if err != nil {
			slog.Error("failed to start dataset watcher", "error", err)
			os.Exit(1)
		}
		go watcher.Run(ctx)
	}

	// Initialize session manager
	sessionMgr := auth.NewSessionManager(conf.SessionSecret)

	e, err := web.NewWebserver(conf, st, store, reloadHub, sessionMgr, abstractHTML)
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		// Echo returns an error on Shutdown; treat it as normal if context is done.
		if ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
