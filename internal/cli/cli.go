package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/countrysearch/internal/config"
	"github.com/studiowebux/countrysearch/internal/filter"
	"github.com/studiowebux/countrysearch/internal/lookup"
	"github.com/studiowebux/countrysearch/internal/notify"
	"github.com/studiowebux/countrysearch/internal/render"
	"github.com/studiowebux/countrysearch/internal/restcountries"
	"github.com/studiowebux/countrysearch/internal/types"
	"github.com/studiowebux/countrysearch/internal/version"
)

// ErrLookupFailed is returned when the lookup ended with a failure notification
var ErrLookupFailed = errors.New("lookup failed")

// ErrEmptyQuery is returned when the name is blank after trimming
var ErrEmptyQuery = errors.New("country name must not be empty")

// Output formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatHTML     = "html"
)

// RunOptions contains options for a one-shot lookup
type RunOptions struct {
	Name         string
	OutputFormat string // text, markdown, json, yaml, html
	Query        string // JMESPath expression over the matched countries
	SavePath     string
	Pick         bool // choose one country from a list result
	NoColor      bool
	Settings     config.Settings
	Logger       *zap.Logger
	Observers    []lookup.Observer
	Stdout       io.Writer
	Stderr       io.Writer
}

// Report is the machine readable form of a lookup
type Report struct {
	Query        string          `json:"query" yaml:"query"`
	State        string          `json:"state" yaml:"state"`
	Matches      int             `json:"matches" yaml:"matches"`
	Countries    []types.Country `json:"countries,omitempty" yaml:"countries,omitempty"`
	List         string          `json:"list,omitempty" yaml:"list,omitempty"`
	Info         string          `json:"info,omitempty" yaml:"info,omitempty"`
	Notification *Notification   `json:"notification,omitempty" yaml:"notification,omitempty"`
}

// Notification is a toast raised by the lookup
type Notification struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Run performs one lookup and writes the result
func Run(ctx context.Context, opts RunOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	format := opts.OutputFormat
	if format == "" {
		format = FormatText
	}

	renderer, err := rendererFor(format)
	if err != nil {
		return err
	}
	if opts.Query != "" && !filter.IsValidJMESPath(opts.Query) {
		return fmt.Errorf("invalid query expression: %s", opts.Query)
	}

	client := restcountries.NewClient(opts.Settings.APIURL,
		restcountries.WithTimeout(opts.Settings.RequestTimeout),
		restcountries.WithUserAgent("countrysearch/"+version.Version))

	ctrlOpts := []lookup.Option{
		lookup.WithMaxListSize(opts.Settings.MaxListSize),
		lookup.WithLogger(opts.Logger),
	}
	for _, o := range opts.Observers {
		ctrlOpts = append(ctrlOpts, lookup.WithObserver(o))
	}
	controller := lookup.NewController(client, renderer, ctrlOpts...)

	surface := lookup.NewTranscript()
	query, ok := controller.Begin(surface, opts.Name)
	if !ok {
		return ErrEmptyQuery
	}

	res := controller.Fetch(ctx, query)
	state := controller.Finish(surface, res)

	if opts.Pick && state == lookup.StateList && isInteractive() {
		idx, err := promptForCountry(res.Countries, opts.Stderr)
		if err != nil {
			return err
		}
		if idx >= 0 {
			chosen := res.Countries[idx]
			res.Countries = []types.Country{chosen}
			surface = lookup.NewTranscript()
			surface.PrependInfo(renderer.Detail(chosen))
			state = lookup.StateDetail
		}
	}

	report := buildReport(query, state, res, surface)

	output, err := formatOutput(report, format, opts.Query, !opts.NoColor)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	// Toasts go to stderr so piped output stays clean
	if report.Notification != nil && format != FormatJSON && format != FormatYAML {
		writeNotification(opts.Stderr, *report.Notification, !opts.NoColor)
	}

	if opts.SavePath == "" && !opts.NoColor && isTerminal(opts.Stdout) {
		output = highlight(output, format)
	}

	if opts.SavePath != "" {
		if err := os.WriteFile(opts.SavePath, []byte(output), config.FilePermissions); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		fmt.Fprintf(opts.Stderr, "Output saved to %s\n", opts.SavePath)
	} else if output != "" {
		fmt.Fprint(opts.Stdout, output)
	}

	if state == lookup.StateFailed {
		return ErrLookupFailed
	}
	return nil
}

func rendererFor(format string) (lookup.Renderer, error) {
	switch format {
	case FormatText, FormatMarkdown:
		return render.Markdown{}, nil
	case FormatJSON, FormatYAML, FormatHTML:
		return render.HTML{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use text, markdown, json, yaml or html)", format)
	}
}

func buildReport(query string, state lookup.State, res lookup.Result, surface *lookup.Transcript) Report {
	report := Report{
		Query:   query,
		State:   state.String(),
		Matches: len(res.Countries),
		List:    surface.List(),
		Info:    surface.Info(),
	}
	if state == lookup.StateList || state == lookup.StateDetail {
		report.Countries = res.Countries
	}

	notes := surface.Notifications()
	if len(notes) > 0 {
		// Only the latest toast is visible
		last := notes[len(notes)-1]
		report.Notification = &Notification{Kind: last.Kind, Message: last.Message}
	}
	return report
}

// formatOutput formats the report based on the output format
func formatOutput(report Report, format string, expression string, color bool) (string, error) {
	if expression != "" {
		out, err := filter.Apply(report.Countries, expression)
		if err != nil {
			return "", err
		}
		return out + "\n", nil
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case FormatHTML, FormatMarkdown:
		return joinRegions(report.List, report.Info), nil

	default:
		md := joinRegions(report.List, report.Info)
		if md == "" {
			return "", nil
		}
		return renderMarkdown(md, color)
	}
}

// joinRegions lays out the list region above the info region
func joinRegions(list, info string) string {
	var parts []string
	if list != "" {
		parts = append(parts, strings.TrimRight(list, "\n"))
	}
	if info != "" {
		parts = append(parts, strings.TrimRight(info, "\n"))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func renderMarkdown(md string, color bool) (string, error) {
	style := glamour.WithAutoStyle()
	if !color {
		style = glamour.WithStandardStyle("notty")
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return renderer.Render(md)
}

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
)

func writeNotification(w io.Writer, n Notification, color bool) {
	if !color {
		fmt.Fprintf(w, "%s: %s\n", n.Kind, n.Message)
		return
	}
	c := colorYellow
	if n.Kind == notify.Failure.String() {
		c = colorRed
	}
	fmt.Fprintf(w, "%s%s%s\n", c, n.Message, colorReset)
}

// isTerminal reports whether w is a character device
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
