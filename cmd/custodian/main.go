// Custodian is a turn-based text adventure engine shipping "Cosmic Custodian".
// Usage: custodian [--version] [--plain] [--script <file>] [--trace]
//
//	[--config <file>] [--seed <n>] [game_directory]
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/nathoo/custodian/cli"
	"github.com/nathoo/custodian/config"
	"github.com/nathoo/custodian/engine"
	"github.com/nathoo/custodian/engine/save"
	"github.com/nathoo/custodian/loader"
	"github.com/nathoo/custodian/puzzles"
	"github.com/nathoo/custodian/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: custodian [--version] [--plain] [--script <file>] [--trace] [--config <file>] [--seed <n>] [game_directory]"

type options struct {
	plain      bool
	trace      bool
	scriptFile string
	configFile string
	gameDir    string
	seed       string
}

func main() {
	var opts options

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("custodian %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--script", "--config", "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a value\n%s\n", args[i], usage)
				os.Exit(1)
			}
			switch args[i] {
			case "--script":
				opts.scriptFile = args[i+1]
			case "--config":
				opts.configFile = args[i+1]
			case "--seed":
				opts.seed = args[i+1]
			}
			i++
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			if opts.gameDir == "" {
				opts.gameDir = args[i]
			}
		}
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configFile, ".env")
	if err != nil {
		return err
	}
	if opts.gameDir != "" {
		cfg.GameDir = opts.gameDir
	}
	if opts.seed != "" {
		n, err := strconv.ParseInt(opts.seed, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing --seed: %w", err)
		}
		cfg.Seed = n
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Script and plain modes print to stdout, so logs go to stderr.
	// The TUI owns the terminal and logs only to a configured file.
	useTUI := opts.scriptFile == "" && !opts.plain && isTerminal()
	var fallback io.Writer = os.Stderr
	if useTUI {
		fallback = nil
	}
	log, closeLog, err := cfg.NewLogger(fallback)
	if err != nil {
		return err
	}
	defer closeLog()

	g, err := newGame(cfg, log)
	if err != nil {
		return err
	}

	// Script mode: read commands from the file, echo them.
	if opts.scriptFile != "" {
		f, err := os.Open(opts.scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(g)
		c.In = f
		c.EchoInput = true
		c.Trace = opts.trace
		return c.Run()
	}

	if !useTUI {
		c := cli.New(g)
		c.Trace = opts.trace
		return c.Run()
	}

	return tui.Run(g)
}

// newGame loads content, opens the save directory and installs the
// puzzle hooks when the content provides their entities.
func newGame(cfg *config.Config, log *slog.Logger) (*engine.Game, error) {
	defs, err := loader.Load(cfg.GameDir, log)
	if err != nil {
		return nil, fmt.Errorf("loading game: %w", err)
	}

	store, err := save.NewFileStore(cfg.SaveDir)
	if err != nil {
		return nil, fmt.Errorf("opening save directory: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g, err := engine.New(defs, engine.Options{
		Store:        store,
		Logger:       log,
		Seed:         seed,
		MaxInventory: cfg.MaxInventory,
	})
	if err != nil {
		return nil, err
	}

	p, err := puzzles.Install(g.World())
	if err != nil {
		log.Warn("puzzles not installed", "dir", cfg.GameDir, "error", err)
		return g, nil
	}
	g.SetLoadHook(p.Restore)
	log.Debug("game ready", "title", defs.Game.Title, "seed", seed, "saves", store.Dir())
	return g, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
