package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/leoallday/movwatch/internal/appflow"
	"github.com/leoallday/movwatch/internal/config"
	"github.com/leoallday/movwatch/internal/discord"
	"github.com/leoallday/movwatch/internal/scraper"
	"github.com/leoallday/movwatch/internal/tracking"
	"github.com/leoallday/movwatch/internal/ui"
	"github.com/leoallday/movwatch/internal/updater"
	"github.com/leoallday/movwatch/internal/util"
	"github.com/leoallday/movwatch/internal/version"
)

const updateCheckTimeout = 3 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	var (
		interactive bool
		subsLang    string
		configPath  string
	)
	flag.BoolVar(&interactive, "i", false, "force the minimal interactive CLI")
	flag.BoolVar(&interactive, "interactive", false, "force the minimal interactive CLI")
	flag.StringVar(&subsLang, "l", "", "preferred subtitle language")
	flag.StringVar(&subsLang, "subs-lang", "", "preferred subtitle language")
	flag.StringVar(&configPath, "config", "", "config file path")
	debugFlag := flag.Bool("debug", false, "enable debug mode")
	perfFlag := flag.Bool("perf", false, "report network timings on exit")
	versionFlag := flag.Bool("version", false, "show version information")
	updateFlag := flag.Bool("update", false, "install the latest release")
	helpFlag := flag.Bool("help", false, "show help message")
	altHelpFlag := flag.Bool("h", false, "show help message")
	flag.Usage = util.ShowHelp

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.String())
		return 0
	}
	if *helpFlag || *altHelpFlag {
		util.ShowHelp()
		return 0
	}

	util.SetDebugMode(*debugFlag)
	util.PerfEnabled = *perfFlag

	cfg, err := config.Load(configPath)
	util.InitLogger(logDir(cfg))
	defer util.CloseLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, util.ErrorHandler(err))
		return 1
	}
	util.SetLogLevel(cfg.LogLevel)
	util.Debug("Loaded config", "path", cfg.Path(), "player", cfg.Player)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *updateFlag {
		if err := updater.NewChecker().CheckAndPrompt(ctx); err != nil {
			fmt.Fprintln(os.Stderr, util.ErrorHandler(err))
			return 1
		}
		return 0
	}

	if subsLang != "" {
		cfg.PreferLanguage(subsLang)
	}

	catalog := scraper.NewClient(scraper.Options{
		BaseURL:           cfg.BaseURL,
		DecoderURL:        cfg.DecoderURL,
		UserAgent:         cfg.UserAgent,
		HTTPClient:        util.NewHTTPClient(util.ClientOptions{Timeout: cfg.Timeout}),
		Retries:           cfg.Retries,
		SubtitleLanguages: cfg.SubtitleLanguages,
	})

	store, err := tracking.Open(tracking.DefaultPath(cfg.ResolvedDataDir()))
	if err != nil {
		util.Warn("History and favorites are disabled", "error", err)
	}
	defer func() { _ = store.Close() }()

	presence := discord.New(cfg.DiscordClientID, cfg.DiscordRPC)
	if err := presence.Connect(); err != nil {
		util.Debug("Continuing without Discord Rich Presence", "error", err)
	}
	defer func() { _ = presence.Close() }()

	app := appflow.New(appflow.Options{
		Config:      cfg,
		Catalog:     catalog,
		Tracker:     store,
		Presence:    presence,
		Full:        ui.NewTUI(cfg.Theme),
		Simple:      ui.NewSimple(cfg.Theme),
		ForceSimple: interactive,
		Status:      updateNotice(ctx),
	})

	err = app.Run(ctx, strings.Join(flag.Args(), " "))
	if util.PerfEnabled {
		util.GetPerfTracker().WriteReport(os.Stderr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, util.ErrorHandler(err))
		return 1
	}
	return 0
}

func logDir(cfg *config.Settings) string {
	if cfg == nil {
		return ""
	}
	return cfg.LogDir()
}

func updateNotice(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()
	return updater.NewChecker().Banner(ctx)
}
