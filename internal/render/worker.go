package render

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/template-render/internal/dispatch"
	"github.com/ironsheep/template-render/internal/visual"
)

// State is a step of a single render.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateBinding
	StateLayingOut
	StateRasterizing
	StateEncoding
	StateTearingDown
	StateTerminated
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateLoading:     "loading",
	StateBinding:     "binding",
	StateLayingOut:   "laying-out",
	StateRasterizing: "rasterizing",
	StateEncoding:    "encoding",
	StateTearingDown: "tearing-down",
	StateTerminated:  "terminated",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) activity() string {
	switch s {
	case StateLoading:
		return "loading the template"
	case StateBinding:
		return "binding data"
	case StateLayingOut:
		return "laying out"
	case StateTearingDown:
		return "tearing down"
	}
	return s.String()
}

// Observer is told about every state a render enters. It runs on the
// render's dispatcher thread and must not block.
type Observer func(requestID string, state State)

// errReporter is implemented by trees that record problems, such as an
// unloadable image, during layout instead of failing outright.
type errReporter interface {
	Err() error
}

// worker runs one request from Idle to Terminated or Failed. It is used
// once.
type worker struct {
	id         string
	req        Request
	parser     TemplateParser
	rasterizer Rasterizer
	encoder    ImageEncoder
	maxPixels  int64
	log        logrus.FieldLogger
	observer   Observer

	state State
	disp  *dispatch.Dispatcher
	root  visual.Node
}

// run executes the request on a fresh dispatcher and returns once the
// dispatcher thread has exited.
func (w *worker) run() ([]byte, error) {
	w.disp = dispatch.Start()

	var (
		out []byte
		err error
	)
	invokeErr := w.disp.Invoke(func() {
		out, err = w.execute()
	})
	// execute always shuts the dispatcher down; this guards against it
	// never having run.
	w.disp.InvokeShutdown()
	<-w.disp.Done()

	if invokeErr != nil && err == nil {
		return nil, &RenderFailure{Stage: w.state, Err: invokeErr}
	}
	return out, err
}

// execute runs on the dispatcher thread.
func (w *worker) execute() (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.WithField("state", w.state).Errorf("Recovered panic: %v", r)
			out, err = nil, &RenderFailure{Stage: w.state, Err: fmt.Errorf("panic: %v", r)}
		}
		if terr := w.teardown(); terr != nil && err == nil {
			out, err = nil, terr
		}
		if err != nil {
			w.transition(StateFailed)
			w.log.WithError(err).Debug("Render failed")
		} else {
			w.transition(StateTerminated)
		}
	}()

	w.transition(StateLoading)
	root, err := LoadTemplate(w.parser, bytes.NewReader(w.req.Template))
	if err != nil {
		return nil, err
	}
	w.root = root

	w.transition(StateBinding)
	Bind(root, w.req.DataContext)

	w.transition(StateLayingOut)
	AutoSize(root)
	if r, ok := root.(errReporter); ok {
		if err := r.Err(); err != nil {
			return nil, &RenderFailure{Stage: StateLayingOut, Err: err}
		}
	}
	size := root.RenderSize()
	w.log.WithField("size", size).Debug("Layout complete")

	w.transition(StateRasterizing)
	surface, err := rasterize(root, w.rasterizer, w.req.DpiX, w.req.DpiY, w.maxPixels)
	if err != nil {
		return nil, err
	}

	w.transition(StateEncoding)
	return encode(surface, w.encoder)
}

// teardown detaches the data, unloads the tree and stops the dispatcher.
// It runs on both the success and the failure path.
func (w *worker) teardown() (err error) {
	w.transition(StateTearingDown)
	defer w.disp.InvokeShutdown()
	defer func() {
		if r := recover(); r != nil {
			w.log.Errorf("Recovered panic during teardown: %v", r)
			err = &RenderFailure{Stage: StateTearingDown, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if w.root != nil {
		w.root.SetDataContext(nil)
		w.root.RaiseUnloaded()
	}
	return nil
}

func (w *worker) transition(s State) {
	w.state = s
	w.log.WithField("state", s).Debug("Render state")
	if w.observer != nil {
		w.observer(w.id, s)
	}
}
