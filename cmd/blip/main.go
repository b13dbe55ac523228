package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/hpungsan/blip/internal/config"
	"github.com/hpungsan/blip/internal/mcp"
	"github.com/hpungsan/blip/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"capture": true, "show": true, "surface": true, "context": true,
	"note": true, "snooze": true, "archive": true, "promote": true,
	"link": true, "tag": true, "list": true, "search": true,
	"recent": true, "stats": true, "delete": true,
	"cleanup": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// baseDir resolves the data directory: BLIP_HOME if set, else ~/.blip.
func baseDir() (string, error) {
	if dir := os.Getenv("BLIP_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".blip"), nil
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _     _ _
  | |__ | (_)_ __
  | '_ \| | | '_ \
  | |_) | | | |_) |
  |_.__/|_|_| .__/
            |_|

  Capture small notes, surface them later

  Usage: blip <command> [options]
         blip --help

  MCP server mode requires piped input.`)
}

func main() {
	_ = godotenv.Load()

	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before touching the store
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	base, err := baseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(base, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	blipsDir := cfg.BlipsDir
	if blipsDir == "" {
		blipsDir = filepath.Join(base, "blips")
	}
	s, err := store.New(blipsDir, store.WithSummaryChars(cfg.SummaryChars))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open store: %v\n", err)
		os.Exit(1)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(s, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'blip --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(s, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
