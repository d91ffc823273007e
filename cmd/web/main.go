// Web front end for go-pagefront
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-pagefront/internal/config"
	xlog "github.com/go-while/go-pagefront/internal/log"
	"github.com/go-while/go-pagefront/internal/web"
)

var (
	// command-line flags
	configFile  string
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	staticDir   string
	templateDir string
	withMetrics bool
	pprofAddr   string
)

var appVersion = "-unset-"

var Prof *prof.Profiler

func main() {
	config.AppVersion = appVersion

	flag.StringVar(&configFile, "config", "", "YAML config file (optional)")
	flag.IntVar(&webport, "webport", 0, "Web server port (default: 8080 or $PORT)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&staticDir, "staticdir", "", "Serve /static from this directory instead of the embedded assets")
	flag.StringVar(&templateDir, "templatedir", "", "Load templates from this directory (reloaded on change on the development server)")
	flag.BoolVar(&withMetrics, "metrics", false, "Expose Prometheus metrics on /metrics")
	flag.StringVar(&pprofAddr, "pprof", "", "Start the pprof web server on this address (e.g. :51111)")
	flag.Parse()

	// local development keeps SERVER_SOFTWARE and friends in .env
	envErr := loadDotEnv(".env")

	mainConfig, cfgErr := loadConfig(os.Getenv)
	level := ""
	if cfgErr == nil {
		level = mainConfig.Web.LogLevel
	}
	xlog.Configure(xlog.Config{Level: level, Version: appVersion})
	logger := xlog.WithComponent("main")
	if envErr != nil {
		logger.Warn().Err(envErr).Str("event", "dotenv.invalid").Msg("ignoring .env file")
	}
	if cfgErr != nil {
		logger.Fatal().Err(cfgErr).Str("event", "config.invalid").Msg("cannot load configuration")
	}

	// missing platform variables are fatal here, never per request
	rt, err := config.LoadRuntime(os.Getenv)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "runtime.invalid").Msg("cannot read platform environment")
	}
	logger.Info().
		Str("event", "startup").
		Str("server_software", rt.ServerSoftware).
		Str("version_id", rt.VersionID).
		Bool("is_dev", rt.IsDev).
		Str("js_suffix", rt.JSSuffix).
		Int("port", mainConfig.Web.ListenPort).
		Bool("ssl", mainConfig.Web.SSL).
		Msg("starting go-pagefront")

	if pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofAddr)
		logger.Info().Str("event", "pprof.start").Str("addr", pprofAddr).Msg("pprof web server started")
	}

	server, err := web.NewServer(mainConfig.Web, rt)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "server.init_failed").Msg("failed to create web server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Str("event", "server.failed").Msg("web server failed")
		stop()
		os.Exit(1)
	}
	logger.Info().Str("event", "shutdown.complete").Msg("web server stopped")
}
