package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ironsheep/textmask/internal/config"
	"github.com/ironsheep/textmask/internal/logging"
	"github.com/ironsheep/textmask/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and --help flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("textmask-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("textmask-mcp - MCP server that isolates text on plates and signs")
			fmt.Println()
			fmt.Println("Usage: textmask-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  TEXTMASK_CONFIG=path.yaml     Load pipeline settings from a YAML file")
			fmt.Println("  TEXTMASK_LOG_LEVEL=debug      Log level (debug, info, warn, error)")
			fmt.Println("  TEXTMASK_LOG_FORMAT=console   Log format (json, console)")
			fmt.Println("  TEXTMASK_<SETTING>=value      Override any config setting, e.g. TEXTMASK_PADDING=20")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Logs are written to stderr.")
			return
		}
	}

	// Logging goes to stderr (stdout is for MCP protocol) until the
	// configured logger is available.
	boot := logging.NewConsole(zerolog.InfoLevel)

	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "CONFIG"))
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.FromEnv(os.LookupEnv); err != nil {
		boot.Fatal().Err(err).Msg("invalid environment override")
	}
	if err := cfg.Validate(); err != nil {
		boot.Fatal().Err(err).Msg("invalid config")
	}

	log, err := cfg.Logger()
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to configure logging")
	}

	server.Version = Version
	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("contour_source", cfg.ContourSource).
		Msg("textmask MCP server starting")

	srv := server.New(server.WithConfig(cfg), server.WithLogger(log))
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
