package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"golang.org/x/image/draw"

	"github.com/ironsheep/template-render/internal/visual"
)

// fakeNode records the calls the pipeline makes on a root.
type fakeNode struct {
	mu       sync.Mutex
	desired  visual.Size
	arranged visual.Rect
	calls    []string
	data     any
	dataSets []any
	unloaded int

	panicOnMeasure bool
	err            error
}

func (n *fakeNode) record(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, fmt.Sprintf(format, args...))
}

func (n *fakeNode) Measure(available visual.Size) {
	if n.panicOnMeasure {
		panic("measure exploded")
	}
	n.record("measure %v", available)
}

func (n *fakeNode) DesiredSize() visual.Size { return n.desired }

func (n *fakeNode) Arrange(final visual.Rect) {
	n.arranged = final
	n.record("arrange %v", final)
}

func (n *fakeNode) UpdateLayout() { n.record("update") }

func (n *fakeNode) RenderSize() visual.Size { return n.arranged.Size() }

func (n *fakeNode) SetDataContext(data any) {
	n.data = data
	n.dataSets = append(n.dataSets, data)
}

func (n *fakeNode) DataContext() any { return n.data }

func (n *fakeNode) RaiseUnloaded() { n.unloaded++ }

func (n *fakeNode) Err() error { return n.err }

type fakeParser struct {
	obj any
	err error
}

func (p fakeParser) Parse(r io.Reader) (any, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	return p.obj, p.err
}

// fakeRasterizer fills dst with one color and records what it was given.
type fakeRasterizer struct {
	mu             sync.Mutex
	bounds         image.Rectangle
	scaleX, scaleY float64
	err            error
	block          chan struct{}
}

func (r *fakeRasterizer) Rasterize(_ visual.Node, dst draw.Image, scaleX, scaleY float64) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.bounds, r.scaleX, r.scaleY = dst.Bounds(), scaleX, scaleY
	r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	return nil
}

// silentEncoder succeeds without writing anything.
type silentEncoder struct{}

func (silentEncoder) Encode(io.Writer, image.Image) error { return nil }

type failingEncoder struct{}

func (failingEncoder) Encode(io.Writer, image.Image) error { return errors.New("disk full") }
