package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/ironsheep/template-render/internal/imaging"
	"github.com/ironsheep/template-render/internal/markup"
)

// Request is one render: a serialized template, the data to bind to it and
// the output resolution.
type Request struct {
	Template    []byte
	DataContext any
	DpiX        float64
	DpiY        float64
}

// Validate checks the request before any work starts.
func (r Request) Validate() error {
	if len(r.Template) == 0 {
		return fmt.Errorf("%w: template is empty", ErrInvalidRequest)
	}
	for _, d := range []struct {
		name  string
		value float64
	}{{"dpiX", r.DpiX}, {"dpiY", r.DpiY}} {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) || d.value <= 0 {
			return fmt.Errorf("%w: %s must be a positive finite number, got %v", ErrInvalidRequest, d.name, d.value)
		}
	}
	return nil
}

// Renderer starts renders. It holds no per-request state and is safe for
// concurrent use.
type Renderer struct {
	parser     TemplateParser
	rasterizer Rasterizer
	encoder    ImageEncoder
	log        logrus.FieldLogger
	observer   Observer
	slots      *semaphore.Weighted
	maxSlots   int64
	maxPixels  int64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithParser replaces the template parser.
func WithParser(p TemplateParser) Option {
	return func(r *Renderer) { r.parser = p }
}

// WithRasterizer replaces the tree rasterizer.
func WithRasterizer(rz Rasterizer) Option {
	return func(r *Renderer) { r.rasterizer = rz }
}

// WithEncoder replaces the output encoder. The default writes PNG.
func WithEncoder(e ImageEncoder) Option {
	return func(r *Renderer) { r.encoder = e }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Renderer) { r.log = l }
}

// WithObserver registers a hook for state transitions.
func WithObserver(o Observer) Option {
	return func(r *Renderer) { r.observer = o }
}

// WithMaxConcurrent bounds how many renders execute at once. n <= 0 means
// GOMAXPROCS.
func WithMaxConcurrent(n int) Option {
	return func(r *Renderer) { r.maxSlots = int64(n) }
}

// WithMaxPixels bounds the output size in pixels. Larger renders fail
// with imaging.ErrTooLarge before any pixel memory is allocated. n <= 0
// means DefaultMaxPixels.
func WithMaxPixels(n int64) Option {
	return func(r *Renderer) { r.maxPixels = n }
}

// New returns a Renderer using the markup template engine and PNG output
// unless options say otherwise.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		parser:     markup.Parser{},
		rasterizer: markup.Rasterizer{},
		encoder:    imaging.PNGEncoder(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		r.log = l
	}
	if r.maxSlots <= 0 {
		r.maxSlots = int64(runtime.GOMAXPROCS(0))
	}
	r.slots = semaphore.NewWeighted(r.maxSlots)
	if r.maxPixels <= 0 {
		r.maxPixels = DefaultMaxPixels
	}
	return r
}

// MaxConcurrent returns the number of renders allowed to execute at once.
func (r *Renderer) MaxConcurrent() int { return int(r.maxSlots) }

// MaxPixels returns the largest output, in pixels, a render may produce.
func (r *Renderer) MaxPixels() int64 { return r.maxPixels }

// RenderAsync starts a render and returns without waiting for it. ctx only
// bounds the wait for an execution slot: once the render has started it
// runs to completion.
func (r *Renderer) RenderAsync(ctx context.Context, req Request) *Future {
	f := newFuture()
	id := uuid.NewString()
	log := r.log.WithField("request", id)

	if err := req.Validate(); err != nil {
		log.WithError(err).Warn("Rejected render request")
		f.resolve(nil, err)
		return f
	}

	go func() {
		if err := r.slots.Acquire(ctx, 1); err != nil {
			f.resolve(nil, fmt.Errorf("waiting to render: %w", err))
			return
		}
		defer r.slots.Release(1)

		w := &worker{
			id:         id,
			req:        req,
			parser:     r.parser,
			rasterizer: r.rasterizer,
			encoder:    r.encoder,
			maxPixels:  r.maxPixels,
			log:        log,
			observer:   r.observer,
		}
		out, err := w.run()
		if err == nil && out == nil {
			err = ErrNoResult
		}
		if err != nil {
			log.WithError(err).Info("Render failed")
		} else {
			log.WithField("bytes", len(out)).Debug("Render complete")
		}
		f.resolve(out, err)
	}()
	return f
}

// Render runs a render and waits for its result.
func (r *Renderer) Render(ctx context.Context, req Request) ([]byte, error) {
	return r.RenderAsync(ctx, req).Wait(ctx)
}
