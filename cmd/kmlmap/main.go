package main

import (
	"fmt"
	"io"
	"os"

	"kmlmap/internal/config"
	"kmlmap/internal/logger"
	"kmlmap/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"KMLMAP_CONFIG" description:"Path to configuration file"`

	Args struct {
		File string `positional-arg-name:"file" description:"KML file to open on start"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// the terminal belongs to the UI, so logs go nowhere unless --log-file is set
	if err := opts.Logger.Setup(io.Discard); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		log.Error().Err(err).Msg("Failed to load configuration")
		opts.Logger.Close()
		os.Exit(1)
	}

	var m tea.Model
	if opts.Args.File != "" {
		m = tui.NewWithPath(cfg, opts.Args.File)
	} else {
		m = tui.New(cfg)
	}
	log.Info().Str("start_dir", cfg.StartDir).Str("file", opts.Args.File).Msg("Viewer started")

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if err != nil {
		log.Error().Err(err).Msg("UI failed")
	}
	opts.Logger.Close()
	if err != nil {
		os.Exit(1)
	}
}
