// Package main provides the crosspost command line tool. It drives a real,
// operator-visible Chrome to publish a text and media post to a social
// platform, reusing the browser's login sessions instead of handling any
// credentials itself.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/crosspost/pkg/browser"
	"github.com/entrhq/crosspost/pkg/config"
	"github.com/entrhq/crosspost/pkg/flow"
	"github.com/entrhq/crosspost/pkg/logging"
	"github.com/entrhq/crosspost/pkg/progress"
)

const version = "0.1.0"

// Config holds the command line configuration.
type Config struct {
	ConfigPath  string
	Port        int
	ProfileDir  string
	ShowVersion bool
	Args        []string
}

var errUsage = errors.New("invalid arguments")

func main() {
	cfg := parseFlags()

	if cfg.ShowVersion {
		fmt.Printf("crosspost v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		cancel()
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			flag.Usage()
			os.Exit(1)
		}
		if errors.Is(err, flow.ErrAborted) {
			// The browser was handed off to the operator with the next
			// manual step already printed; not a tool failure.
			fmt.Fprintf(os.Stderr, "crosspost: %v\n", err)
			return
		}
		log.Fatalf("crosspost: %v", err)
	}
}

// parseFlags parses command line flags.
func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.ConfigPath, "config", "", "Path to config file (default: ~/.crosspost/config.yaml)")
	flag.IntVar(&cfg.Port, "port", 0, "Browser control port (default: from config, falling back to 9222)")
	flag.StringVar(&cfg.ProfileDir, "profile-dir", "", "Browser profile directory (default: from config or CROSSPOST_PROFILE_DIR)")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "crosspost - publish a post through a real browser\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  crosspost [options] x <contentFile> [coverImage] [detailImage]\n")
		fmt.Fprintf(os.Stderr, "  crosspost [options] rednote <title> <contentFileOrText> <image> [image ...]\n\n")
		fmt.Fprintf(os.Stderr, "Platforms:\n")
		fmt.Fprintf(os.Stderr, "  x, twitter             post to X; the post body is read from <contentFile>\n")
		fmt.Fprintf(os.Stderr, "  rednote, xiaohongshu   post to Xiaohongshu; <contentFileOrText> is read as a\n")
		fmt.Fprintf(os.Stderr, "                         file when one exists at that path, otherwise used as-is\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s   Browser profile directory\n", config.EnvProfileDir)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  crosspost x post.txt cover.png\n")
		fmt.Fprintf(os.Stderr, "  crosspost rednote \"My title\" body.txt 1.png 2.png\n")
	}

	flag.Parse()
	cfg.Args = flag.Args()
	return cfg
}

// run executes the publish flow end to end.
func run(ctx context.Context, cfg *Config) error {
	if len(cfg.Args) == 0 {
		return fmt.Errorf("%w: a platform is required", errUsage)
	}

	platform, req, err := buildPublish(cfg.Args)
	if err != nil {
		return err
	}

	configPath := cfg.ConfigPath
	if configPath == "" {
		if configPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	appCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	platform.ApplyOverrides(appCfg.Platform(platform.Name))

	if cfg.ProfileDir != "" {
		appCfg.ProfileDir = cfg.ProfileDir
	}
	profileDir, err := appCfg.ResolveProfileDir()
	if err != nil {
		return err
	}

	port := cfg.Port
	if port == 0 {
		port = appCfg.ControlPort
	}

	reporter := progress.New(os.Stdout)
	logger, err := logging.NewLogger("main")
	if err == nil {
		defer logger.Close()
		reporter.Info("run %s, log at %s", logger.RunID(), logger.LogPath())
	}

	reporter.Info("a browser window will open or come to the front")
	reporter.Info("if a login page appears, log in there; this tool never sees credentials")

	endpoint, outcome := browser.Ensure(ctx, port, profileDir)
	switch outcome {
	case browser.AlreadyListening:
		reporter.OK("attached to the browser on port %d", endpoint.Port)
	case browser.Launched:
		reporter.OK("started a browser on port %d", endpoint.Port)
	case browser.Unavailable:
		reporter.Warn("no controllable browser found, launching a managed one")
	}

	session, err := browser.Acquire(endpoint, outcome)
	if err != nil {
		return fmt.Errorf("failed to acquire a browser: %w", err)
	}

	controller, err := flow.New(session.Page(), platform, reporter, flow.Options{})
	if err != nil {
		session.Release()
		return err
	}
	defer controller.Close()

	diag, runErr := controller.Run(ctx, req)
	if diag != nil {
		reporter.Info("%s", diag.Summary())
	}

	browser.HoldOpen(ctx, session, reporter)
	return runErr
}
