package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/PizzaHomicide/reel/internal/bridge"
	"github.com/PizzaHomicide/reel/internal/browser"
	"github.com/PizzaHomicide/reel/internal/config"
	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/ipc"
	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/player/builtin"
	"github.com/PizzaHomicide/reel/internal/server"
	"github.com/PizzaHomicide/reel/internal/session"
	"github.com/PizzaHomicide/reel/internal/ui/tui"
	"github.com/PizzaHomicide/reel/internal/version"
	"golang.org/x/sync/errgroup"
)

// app is one running reel: the host page bridge, the session driving it and the surfaces controlling the session
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	hub     *bridge.Hub
	session *session.Controller
}

// newApp loads the configuration, sets up logging and builds the session.  Headless runs log to logWriter instead of
// the configured file.
func newApp(opts *rootOptions, logWriter io.Writer) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := log.New(log.Config{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
		Format:   cfg.Logging.Format,
		Writer:   logWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise logger: %w", err)
	}
	log.SetDefaultLogger(logger)
	log.Info("Starting up reel", "version", version.GetVersion(), "build_time", version.GetBuildTime())

	registry, err := builtin.New(cfg.Player.Platforms)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("invalid player.platforms: %w", err)
	}

	hub := bridge.NewHub()
	controller := session.New(registry, registry.Loaders(hub, cfg.Player.SDKLoadTimeout), hub, cfg.Player.Session())

	// A reloaded page has lost every SDK and player, so start over from idle
	hub.OnPageReplaced(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Player.DestroyTimeout)
		defer cancel()
		if err := controller.Reset(ctx); err != nil && !errors.Is(err, domain.ErrClosed) {
			log.Warn("Failed to reset session after the host page was replaced", "error", err)
		}
	})

	return &app{cfg: cfg, logger: logger, hub: hub, session: controller}, nil
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.listen != "" {
		cfg.Server.Listen = opts.listen
	}
	if opts.noBrowser {
		disabled := false
		cfg.Server.OpenBrowser = &disabled
	}
	if opts.noIPC {
		disabled := false
		cfg.IPC.Enabled = &disabled
	}
	return cfg, nil
}

// run serves the HTTP surface and the IPC socket, plus the console when console is set, until ctx is cancelled, the
// console is quit or one of them fails
func (a *app) run(ctx context.Context, console bool) error {
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	httpServer := server.New(a.session, a.hub)
	if console && a.cfg.OpenBrowserEnabled() {
		httpServer.OnListening(func(addr net.Addr) {
			if err := browser.Open(pageURL(addr.String()), a.cfg.Server.Browser); err != nil {
				log.Warn("Failed to open the host page automatically", "error", err)
			}
		})
	}
	g.Go(func() error {
		return httpServer.Run(gctx, a.cfg.Server.Listen)
	})

	if a.cfg.IPCEnabled() {
		ipcServer := ipc.NewServer(a.session, a.cfg.IPC.SocketPath)
		g.Go(func() error {
			return ipcServer.Serve(gctx)
		})
	}

	if console {
		g.Go(func() error {
			// Quitting the console stops everything else
			defer cancel()
			return tui.Run(gctx, a.session, pageURL(a.cfg.Server.Listen), a.hub.Connected)
		})
	} else {
		log.Info("Open the host page in a browser", "url", pageURL(a.cfg.Server.Listen))
	}

	return g.Wait()
}

// close destroys the live player while the page may still be attached, then drops the page
func (a *app) close() {
	a.session.Close()
	a.hub.Close()
	log.Info("reel shutting down.  Goodbye!")
	a.logger.Close()
}

// pageURL is the address a browser should open for listen.  Wildcard hosts are shown as loopback.
func pageURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen + "/"
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
