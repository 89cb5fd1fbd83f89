// Package convert runs the conversion of a building model into one coloured
// triangle mesh.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/philipparndt/goifc/internal/appearance"
	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/pkg/ifc"
)

// Source is the queryable model a conversion reads
type Source interface {
	SurfaceStyles() ([]ifc.SurfaceStyle, error)
	Materials() ([]ifc.Material, error)
	StyledItems() ([]ifc.StyledItem, error)
	Textures() ([]ifc.Texture, error)
	Elements() ([]ifc.Element, error)
}

// Tessellator produces the world-coordinate soup of one element
type Tessellator interface {
	Tessellate(ctx context.Context, e ifc.Element) (*mesh.Geometry, error)
}

// Serializer writes a finalized mesh to path
type Serializer interface {
	Write(buf *mesh.Buffer, path string) error
}

// TessellatorFactory creates the tessellator for a loaded model
type TessellatorFactory func(model *ifc.Model, input string, log *zap.Logger) Tessellator

// Options tune a Converter
type Options struct {
	// Workers > 1 tessellates elements concurrently
	Workers int

	// ProgressInterval logs progress every n elements, 0 disables it
	ProgressInterval int

	// ExcludeTypes lists entity type names that are never converted
	ExcludeTypes []string
}

// Converter runs conversions. It holds no per-run state and may be reused.
type Converter struct {
	log            *zap.Logger
	opts           Options
	serializer     Serializer
	newTessellator TessellatorFactory
	exclude        map[string]bool
}

// New creates a converter
func New(log *zap.Logger, opts Options, serializer Serializer, newTessellator TessellatorFactory) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	exclude := make(map[string]bool, len(opts.ExcludeTypes))
	for _, t := range opts.ExcludeTypes {
		exclude[strings.ToUpper(t)] = true
	}

	return &Converter{
		log:            log,
		opts:           opts,
		serializer:     serializer,
		newTessellator: newTessellator,
		exclude:        exclude,
	}
}

// runLogger derives the logger of one run
func (c *Converter) runLogger() (string, *zap.Logger) {
	id := uuid.NewString()
	return id, c.log.With(zap.String("run", id))
}

// ConvertFile loads the model at input, tessellates it with the configured
// factory and writes the mesh to output
func (c *Converter) ConvertFile(ctx context.Context, input, output string) (*Result, error) {
	runID, log := c.runLogger()

	if _, err := os.Stat(input); err != nil {
		log.Error("input not readable", zap.String("input", input), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	start := time.Now()
	model, err := ifc.Open(input)
	if err != nil {
		log.Error("failed to parse model", zap.String("input", input), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	log.Info("model loaded",
		zap.String("input", input),
		zap.String("schema", model.Schema()),
		zap.Int("instances", model.File.Len()),
		zap.Duration("elapsed", time.Since(start)))

	if c.newTessellator == nil {
		return nil, errors.New("no tessellator configured")
	}
	tess := c.newTessellator(model, input, log)

	result, err := c.run(ctx, runID, log, model, tess, output)
	if result != nil {
		result.Input = input
	}
	return result, err
}

// Convert converts an already loaded model
func (c *Converter) Convert(ctx context.Context, src Source, tess Tessellator, output string) (*Result, error) {
	runID, log := c.runLogger()
	return c.run(ctx, runID, log, src, tess, output)
}

func (c *Converter) run(ctx context.Context, runID string, log *zap.Logger, src Source, tess Tessellator, output string) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: runID, Output: output}

	colors, err := appearance.BuildColorIndex(src)
	if err != nil {
		log.Warn("colour extraction failed, using default colours", zap.Error(err))
	}
	textures, err := appearance.BuildTextureIndex(src)
	if err != nil {
		log.Warn("texture extraction failed", zap.Error(err))
	}
	log.Debug("appearance indices built",
		zap.Int("colors", colors.Len()),
		zap.Int("textures", textures.Len()))

	all, err := src.Elements()
	if err != nil {
		log.Error("failed to enumerate elements", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	elements := c.filter(all)
	log.Info("converting elements",
		zap.Int("elements", len(elements)),
		zap.Int("excluded", len(all)-len(elements)),
		zap.Int("workers", c.opts.Workers))

	resolver := appearance.NewResolver(colors, textures)
	acc := mesh.NewAccumulator()

	if c.opts.Workers > 1 {
		err = c.parallel(ctx, log, elements, tess, resolver, acc, result)
	} else {
		err = c.sequential(ctx, log, elements, tess, resolver, acc, result)
	}
	if err != nil {
		log.Warn("conversion cancelled", zap.Int("processed", result.Processed), zap.Error(err))
		return result, err
	}

	buf, err := acc.Finalize()
	result.Elapsed = time.Since(start)
	if err != nil {
		log.Error("no element produced geometry", zap.Int("processed", result.Processed))
		return result, fmt.Errorf("failed to convert: %w", err)
	}

	result.Vertices = buf.VertexCount()
	result.Triangles = buf.TriangleCount()
	result.Bounds = buf.Bounds

	if err := c.serializer.Write(buf, output); err != nil {
		log.Error("failed to write mesh", zap.String("output", output), zap.Error(err))
		return result, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	result.Elapsed = time.Since(start)
	log.Info("conversion finished",
		zap.String("output", output),
		zap.Int("processed", result.Processed),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("vertices", result.Vertices),
		zap.Int("triangles", result.Triangles),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

func (c *Converter) filter(elements []ifc.Element) []ifc.Element {
	if len(c.exclude) == 0 {
		return elements
	}
	kept := make([]ifc.Element, 0, len(elements))
	for _, e := range elements {
		if !c.exclude[strings.ToUpper(e.Type)] {
			kept = append(kept, e)
		}
	}
	return kept
}

// outcome is the tessellated and resolved form of one element
type outcome struct {
	geometry   *mesh.Geometry
	appearance appearance.Appearance
	err        error
}

func process(ctx context.Context, e ifc.Element, tess Tessellator, resolver *appearance.Resolver) outcome {
	g, err := tess.Tessellate(ctx, e)
	if err != nil {
		return outcome{err: err}
	}
	if g.Empty() {
		return outcome{}
	}
	return outcome{geometry: g, appearance: resolver.Resolve(e)}
}

func (c *Converter) sequential(ctx context.Context, log *zap.Logger, elements []ifc.Element, tess Tessellator,
	resolver *appearance.Resolver, acc *mesh.Accumulator, result *Result) error {
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.merge(log, e, process(ctx, e, tess, resolver), acc, result, len(elements))
	}
	return nil
}

// parallel tessellates with bounded concurrency and merges the outcomes in
// enumeration order, so the mesh matches a sequential run
func (c *Converter) parallel(ctx context.Context, log *zap.Logger, elements []ifc.Element, tess Tessellator,
	resolver *appearance.Resolver, acc *mesh.Accumulator, result *Result) error {
	outcomes := make([]outcome, len(elements))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, e := range elements {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = process(gctx, e, tess, resolver)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, e := range elements {
		c.merge(log, e, outcomes[i], acc, result, len(elements))
	}
	return nil
}

// merge feeds one outcome to the accumulator and updates the tallies
func (c *Converter) merge(log *zap.Logger, e ifc.Element, o outcome, acc *mesh.Accumulator, result *Result, total int) {
	result.Processed++
	defer c.progress(log, result, total)

	if o.err != nil {
		c.fail(log, result, e, o.err)
		return
	}
	if o.geometry == nil {
		result.Empty++
		log.Debug("element has no geometry", zap.Int("element", e.ID), zap.String("type", e.Type))
		return
	}

	color := o.appearance.ColorOrDefault()
	if o.appearance.Kind == appearance.Texture {
		result.Textured++
		log.Warn("texture found but not applied, using default colour",
			zap.Int("element", e.ID),
			zap.String("texture", o.appearance.Texture))
	}

	if err := acc.Append(o.geometry, color); err != nil {
		c.fail(log, result, e, err)
		return
	}
	result.Succeeded++
}

func (c *Converter) fail(log *zap.Logger, result *Result, e ifc.Element, err error) {
	result.Failed++
	result.Failures = append(result.Failures, &ElementError{ID: e.ID, Type: e.Type, Err: err})
	log.Debug("skipping element",
		zap.Int("element", e.ID),
		zap.String("type", e.Type),
		zap.String("guid", e.GlobalID),
		zap.Error(err))
}

func (c *Converter) progress(log *zap.Logger, result *Result, total int) {
	if c.opts.ProgressInterval <= 0 || result.Processed%c.opts.ProgressInterval != 0 {
		return
	}
	log.Info("progress",
		zap.Int("processed", result.Processed),
		zap.Int("total", total),
		zap.Int("succeeded", result.Succeeded))
}
