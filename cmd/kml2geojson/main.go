package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"kmlmap/internal/logger"
	"kmlmap/internal/session"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input   string `short:"i" long:"in"      description:"Input KML file path" required:"true"`
	Output  string `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Format  string `short:"f" long:"format"  description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Summary bool   `long:"summary"           description:"Print the element count table to stderr"`
	Detail  bool   `long:"detail"            description:"Print the line length table to stderr"`
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

	if err := opts.Logger.Setup(os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err := run(opts, os.Stdout, os.Stderr)
	if err != nil {
		log.Error().Err(err).Msg("Conversion failed")
	}
	opts.Logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

// run converts opts.Input and writes the document to opts.Output or stdout.
// Summary tables go to stderr.
func run(opts Options, stdout, stderr io.Writer) error {
	sess := session.New()
	if err := sess.Open(opts.Input); err != nil {
		return fmt.Errorf("convert %s: %w", opts.Input, err)
	}

	out, err := encode(sess, opts.Format)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", opts.Format, err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().
			Str("output", opts.Output).
			Str("format", opts.Format).
			Int("features", len(sess.Collection().Features)).
			Msg("Converted")
	} else {
		fmt.Fprintln(stdout, string(out))
	}

	if opts.Summary {
		counts, _ := sess.Summary()
		rows := make([][]string, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, []string{c.Type, strconv.Itoa(c.Count)})
		}
		fmt.Fprintln(stderr, renderTable("Element Type", "Count", rows))
	}
	if opts.Detail {
		lengths, _ := sess.Detail()
		if len(lengths) == 0 {
			fmt.Fprintln(stderr, "No LineString or MultiLineString features")
		} else {
			rows := make([][]string, 0, len(lengths))
			for _, l := range lengths {
				rows = append(rows, []string{l.Type, l.Display()})
			}
			fmt.Fprintln(stderr, renderTable("Element Type", "Total Length", rows))
		}
	}
	return nil
}

// encode renders the session collection as indented JSON or as YAML. YAML
// goes through a generic JSON round trip so keys follow the GeoJSON names.
func encode(sess *session.Session, format string) ([]byte, error) {
	data, err := sess.GeoJSON(true)
	if err != nil || format != "yaml" {
		return data, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

func renderTable(keyTitle, valueTitle string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(keyTitle, valueTitle).
		Rows(rows...).
		String()
}
