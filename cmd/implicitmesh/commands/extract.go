// cmd/implicitmesh/commands/extract.go
package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ThermalSpan/implicit-plotter/internal/cache"
	"github.com/ThermalSpan/implicit-plotter/internal/cliutil"
	"github.com/ThermalSpan/implicit-plotter/internal/geom"
	"github.com/ThermalSpan/implicit-plotter/internal/interval"
	"github.com/ThermalSpan/implicit-plotter/internal/mesh"
	"github.com/ThermalSpan/implicit-plotter/internal/parser"
	"github.com/ThermalSpan/implicit-plotter/internal/plot"
	"github.com/ThermalSpan/implicit-plotter/internal/preview"
)

// Config is the resolved set of options ExtractCommand runs with.
type Config struct {
	Expression string
	Box        interval.Interval
	Depth      int
	RelaxPasses int
	OutPath    string
	CachePath  string
	ServeAddr  string
}

func defaultConfig() Config {
	return Config{
		Expression:  "x^2 + y^2 + z^2 - 1",
		Box:         interval.Interval{Min: -2, Max: 2},
		Depth:       5,
		RelaxPasses: 1,
		OutPath:     "mesh.json",
	}
}

// ExtractCommand parses args (see parseFlags), builds the expression
// tree, runs the refine/materialize/relax pipeline, and writes the
// resulting geometry to a plot.JSONFile sink - optionally consulting a
// cache.Store first and streaming progress to a preview.Server.
func ExtractCommand(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	runID := uuid.New().String()

	fn, err := parser.Parse(cfg.Expression)
	if err != nil {
		return errors.Wrap(err, "parsing expression")
	}

	box := geom.Box{X: cfg.Box, Y: cfg.Box, Z: cfg.Box}

	var store *cache.Store
	var cacheKey string
	if cfg.CachePath != "" {
		store, err = cache.Open(cfg.CachePath)
		if err != nil {
			return errors.Wrap(err, "opening mesh cache")
		}
		defer store.Close()
		cacheKey = cache.Key(cfg.Expression, box, cfg.Depth)
	}

	var previewServer *preview.Server
	if cfg.ServeAddr != "" {
		previewServer = preview.NewServer()
		go func() {
			if err := previewServer.ListenAndServe(cfg.ServeAddr); err != nil {
				fmt.Fprintf(os.Stderr, "preview server stopped: %v\n", err)
			}
		}()
	}

	tree := mesh.New(fn, box)

	cached := false
	if store != nil {
		if solutionMap, depth, ok, err := store.Load(cacheKey); err != nil {
			return errors.Wrap(err, "reading mesh cache")
		} else if ok {
			tree.SolutionMap = solutionMap
			tree.Level = depth
			cached = true
		}
	}

	if !cached {
		for i := 0; i < cfg.Depth; i++ {
			tree.Refine()
			tree.GenerateVertices()
			if previewServer != nil {
				broadcastFrame(previewServer, runID, tree)
			}
		}
		if store != nil {
			if err := store.Save(cacheKey, cfg.Depth, tree.SolutionMap); err != nil {
				return errors.Wrap(err, "writing mesh cache")
			}
		}
	}

	tree.GenerateVertices()
	tree.GenerateEdges()
	for i := 0; i < cfg.RelaxPasses; i++ {
		tree.Relax()
	}

	sink := plot.NewJSONFile()
	plot.AddSolutionMap(sink, tree.SolutionMap)
	plot.AddVertices(sink, tree.VertexMap)
	plot.AddEdges(sink, tree.EdgeSet, tree.VertexMap)

	out, err := os.Create(cfg.OutPath)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer out.Close()
	if err := sink.Serialize(out); err != nil {
		return errors.Wrap(err, "serializing mesh")
	}

	cliutil.Fprint(os.Stdout, cliutil.Summary{
		RunID:        runID,
		Level:        tree.Level,
		SolutionSize: len(tree.SolutionMap),
		VertexCount:  len(tree.VertexMap),
		EdgeCount:    len(tree.EdgeSet),
	})
	return nil
}

func broadcastFrame(srv *preview.Server, runID string, tree *mesh.Tree) {
	vertices := make([]plot.Point, 0, len(tree.VertexMap))
	for _, v := range tree.VertexMap {
		vertices = append(vertices, plot.Point{X: v.X, Y: v.Y, Z: v.Z})
	}
	_ = srv.Broadcast(preview.Frame{RunID: runID, Level: tree.Level, Vertices: vertices})
}

// parseFlags hand-parses "-name=value" arguments rather than reaching
// for a flag/config library.
func parseFlags(args []string) (Config, error) {
	cfg := defaultConfig()
	for _, arg := range args {
		name, value, ok := strings.Cut(strings.TrimPrefix(arg, "-"), "=")
		if !ok {
			return cfg, fmt.Errorf("expected -name=value, got %q", arg)
		}
		var err error
		switch name {
		case "f", "fn":
			cfg.Expression = value
		case "box":
			cfg.Box, err = parseBox(value)
		case "depth":
			cfg.Depth, err = strconv.Atoi(value)
		case "relax":
			cfg.RelaxPasses, err = strconv.Atoi(value)
		case "out":
			cfg.OutPath = value
		case "cache":
			cfg.CachePath = value
		case "serve":
			cfg.ServeAddr = value
		default:
			return cfg, fmt.Errorf("unrecognized flag -%s", name)
		}
		if err != nil {
			return cfg, fmt.Errorf("invalid value for -%s: %w", name, err)
		}
	}
	return cfg, nil
}

func parseBox(value string) (interval.Interval, error) {
	lo, hi, ok := strings.Cut(value, ",")
	if !ok {
		return interval.Interval{}, fmt.Errorf("expected min,max, got %q", value)
	}
	min, err := strconv.ParseFloat(lo, 32)
	if err != nil {
		return interval.Interval{}, err
	}
	max, err := strconv.ParseFloat(hi, 32)
	if err != nil {
		return interval.Interval{}, err
	}
	return interval.Interval{Min: float32(min), Max: float32(max)}, nil
}
