// lsv is a terminal viewer for lock-protocol debug traces.
//
// It loads a JSON trace of lock requests, grants, releases and deadlock
// events, lays each actor's activity out as a bar on a zoomable timeline, and
// reloads the trace whenever the file is rewritten.
//
// Usage:
//
//	lsv                         # Load $LOCKSCOPE_TRACE or ./debug.json
//	lsv trace.json              # Load a specific trace
//	lsv --trace <path>          # Same, as a flag
//	lsv --config lockscope.yaml # Override colours, zoom and grid settings
//	lsv --json                  # Print the computed layout as JSON and exit
//	lsv --json --scene          # Also include pixel-space draw commands
//	lsv --log lsv.log --debug   # Write debug logs to a file
//	lsv --version               # Print version and exit
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daviddao/lockscope/internal/config"
	"github.com/daviddao/lockscope/internal/datasource"
	"github.com/daviddao/lockscope/internal/layout"
	"github.com/daviddao/lockscope/internal/logging"
	"github.com/daviddao/lockscope/internal/protocol"
	"github.com/daviddao/lockscope/internal/scene"
	"github.com/daviddao/lockscope/internal/snapshot"
	"github.com/daviddao/lockscope/internal/store"
	"github.com/daviddao/lockscope/internal/viewport"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

// jsonViewportWidth is the fallback bounds width for --json mode, where there
// is no terminal to measure.
const jsonViewportWidth = 80

// sceneWidth is the pixel width of the frame printed by --scene.
const sceneWidth = 1280

// jsonOutput is the structure for --json mode.
type jsonOutput struct {
	Source  string          `json:"source"`
	BuiltAt string          `json:"built_at"`
	Bounds  jsonBounds      `json:"bounds"`
	Groups  []jsonGroup     `json:"groups"`
	Summary jsonSummary     `json:"summary"`
	Scene   []scene.Command `json:"scene,omitempty"`
}

type jsonBounds struct {
	Begin float64 `json:"begin"`
	End   float64 `json:"end"`
}

type jsonGroup struct {
	ActorID int64   `json:"actor_id"`
	Row     int     `json:"row"`
	Label   string  `json:"label"`
	Begin   float64 `json:"begin"`
	End     float64 `json:"end"`
	Warn    bool    `json:"warn"`
	Entries int     `json:"entries"`
}

type jsonSummary struct {
	Entries        int            `json:"entries"`
	Actors         int            `json:"actors"`
	Groups         int            `json:"groups"`
	FilteredActors int            `json:"filtered_actors"`
	Warnings       int            `json:"warnings"`
	Rows           int            `json:"rows"`
	Types          map[string]int `json:"types"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lsv: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	traceFlag := flag.String("trace", "", "path to trace JSON (default: $LOCKSCOPE_TRACE or ./debug.json)")
	configFlag := flag.String("config", "", "path to YAML config (default: $LOCKSCOPE_CONFIG)")
	jsonMode := flag.Bool("json", false, "print the layout as JSON and exit (no TUI)")
	rowsFlag := flag.Int("rows", 20, "row capacity used by --json")
	sceneFlag := flag.Bool("scene", false, "include pixel-space draw commands in --json output")
	logFlag := flag.String("log", "", "append logs to this file (default: $LOCKSCOPE_LOG)")
	debugFlag := flag.Bool("debug", false, "log at debug level")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("lsv %s\n", Version)
		return nil
	}

	explicit := *traceFlag
	if explicit == "" && flag.NArg() > 0 {
		explicit = flag.Arg(0)
	}

	cfgPath := config.Path(*configFlag)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	theme, err := cfg.Theme()
	if err != nil {
		return err
	}

	log, logCloser, err := logging.New(logging.Path(*logFlag, cfg.LogFile), *debugFlag)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	if cfgPath != "" {
		log.Info().Str("config", cfgPath).Msg("config loaded")
	}

	path, err := datasource.Discover(explicit)
	if err != nil {
		return err
	}
	entries, err := datasource.Load(path)
	if err != nil {
		return err
	}
	s := store.New()
	s.Replace(entries, path)
	log.Info().Str("trace", path).Int("entries", s.Len()).Msg("trace loaded")

	// --json mode: lay out, print, exit.
	if *jsonMode {
		rows := max(*rowsFlag, 1)
		groups := layout.GroupEntries(s.Entries(), rows)
		snap := snapshot.Build(s, path, groups, jsonViewportWidth)
		out := buildJSONOutput(snap, groups)
		if *sceneFlag {
			out.Scene = buildScene(groups, snap.Bounds, rows, cfg, theme)
		}
		return writeJSON(os.Stdout, out)
	}

	w, err := datasource.NewWatcher(path, cfg.Debounce, log)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	m := newModel(s, w, cfg, theme, log, path)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Feed trace change events into the TUI.
	go func() {
		for range w.Changes() {
			p.Send(traceChangedMsg{})
		}
	}()

	_, err = p.Run()
	return err
}

func writeJSON(w io.Writer, out jsonOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

// buildJSONOutput converts a snapshot and its groups into the JSON output
// structure.
func buildJSONOutput(snap *snapshot.Snapshot, groups []layout.Group) jsonOutput {
	out := make([]jsonGroup, len(groups))
	for i, g := range groups {
		out[i] = jsonGroup{
			ActorID: g.ActorID,
			Row:     g.Row,
			Label:   g.Label,
			Begin:   g.Span.Begin,
			End:     g.Span.End,
			Warn:    g.Warn,
			Entries: len(g.Entries),
		}
	}

	types := make(map[string]int)
	for _, t := range protocol.AllTypes() {
		if n := snap.TypeCounts[t]; n > 0 {
			types[t.String()] = n
		}
	}

	return jsonOutput{
		Source:  snap.Source,
		BuiltAt: snap.BuiltAt.Format(time.RFC3339),
		Bounds:  jsonBounds{Begin: snap.Bounds.Begin, End: snap.Bounds.End},
		Groups:  out,
		Summary: jsonSummary{
			Entries:        snap.Entries,
			Actors:         snap.Actors,
			Groups:         snap.Groups,
			FilteredActors: snap.FilteredActors,
			Warnings:       snap.Warnings,
			Rows:           snap.Rows,
			Types:          types,
		},
	}
}

// buildScene lays out the whole recording as one pixel-surface frame.
func buildScene(groups []layout.Group, bounds viewport.Bounds, rows int, cfg config.Config, theme scene.Theme) []scene.Command {
	mt := scene.DefaultMetrics()
	vp := viewport.New(sceneWidth, mt.RowHeight*float64(rows), bounds, cfg.ViewportOptions())
	begin, end := vp.Window()
	return scene.Build(scene.Frame{
		View:    &vp,
		Groups:  layout.Visible(groups, begin, end, cfg.MaxVisible),
		Grid:    vp.Grid(),
		MaxRows: rows,
		Theme:   theme,
		Metrics: mt,
	})
}
