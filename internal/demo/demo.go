// Package demo is the two-button application bundled with the kakapo CLI.
//
// The primary button toggles a second secondary button. Each secondary
// button starts background work that flips a shared flag after a delay
// and raises the state root's ViewRefs from its own goroutine.
package demo

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/image/colornames"

	"github.com/kakapo-ui/kakapo/pkg/view"
	"github.com/kakapo-ui/kakapo/pkg/widgets"
)

// DefaultPressDelay is how long a secondary button's background work takes.
const DefaultPressDelay = 2 * time.Second

// Palette.
var (
	PrimaryOff   = widgets.RGBA(colornames.Red)
	PrimaryOn    = widgets.RGBA(colornames.Lime)
	SecondaryOff = widgets.RGBA(colornames.Blue)
	SecondaryOn  = widgets.RGBA(colornames.Cyan)
)

// SharedState is shared between the render goroutine and background work.
type SharedState struct {
	refs   view.ViewRefs
	first  atomic.Bool
	second atomic.Bool
}

// ViewRefs implements view.ViewModel.
func (s *SharedState) ViewRefs() *view.ViewRefs {
	return &s.refs
}

// First reports the flag behind button A.
func (s *SharedState) First() bool {
	return s.first.Load()
}

// Second reports the flag behind button B.
func (s *SharedState) Second() bool {
	return s.second.Load()
}

// toggle flips one flag and raises.
func (s *SharedState) toggle(first bool) {
	flag := &s.second
	if first {
		flag = &s.first
	}
	for {
		old := flag.Load()
		if flag.CompareAndSwap(old, !old) {
			break
		}
	}
	s.refs.Raise()
}

// AppData is the state root of the demo window.
type AppData struct {
	TwoButtons bool
	Shared     *SharedState

	delay   time.Duration
	logger  *slog.Logger
	pending sync.WaitGroup
}

// Option configures AppData.
type Option func(*AppData)

// WithPressDelay sets the duration of the background work.
func WithPressDelay(d time.Duration) Option {
	return func(a *AppData) {
		a.delay = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *AppData) {
		a.logger = logger
	}
}

// NewAppData creates the initial state: one secondary button, both flags
// clear.
func NewAppData(opts ...Option) *AppData {
	a := &AppData{
		Shared: &SharedState{},
		delay:  DefaultPressDelay,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "demo")
	return a
}

// ViewRefs implements view.ViewModel.
func (a *AppData) ViewRefs() *view.ViewRefs {
	return a.Shared.ViewRefs()
}

// Wait blocks until all background work has finished.
func (a *AppData) Wait() {
	a.pending.Wait()
}

// PrimaryDelegate toggles the second secondary button.
type PrimaryDelegate struct{}

// Pressed implements widgets.ButtonDelegate.
func (PrimaryDelegate) Pressed(data *view.UserDataMut) {
	a := view.DowncastMut[*AppData](data)
	a.TwoButtons = !a.TwoButtons
	a.logger.Debug("primary pressed", "two_buttons", a.TwoButtons)
	a.Shared.refs.Raise()
}

// SecondaryDelegate flips button A's flag (First) or button B's after the
// press delay.
type SecondaryDelegate struct {
	First bool
}

// Pressed implements widgets.ButtonDelegate. The capsule is not used by the
// background goroutine; it only keeps the shared state.
func (s SecondaryDelegate) Pressed(data *view.UserDataMut) {
	a := view.DowncastMut[*AppData](data)
	shared, delay, logger := a.Shared, a.delay, a.logger
	logger.Debug("secondary pressed", "first", s.First, "delay", delay)

	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		time.Sleep(delay)
		shared.toggle(s.First)
		logger.Debug("background work done", "first", s.First)
	}()
}

// View renders the demo window.
func View(cache *view.WidgetCache, data *view.UserData) *view.WidgetTree {
	a := view.Downcast[*AppData](data)

	primary := PrimaryOff
	if a.TwoButtons {
		primary = PrimaryOn
	}

	root := widgets.NewBox().
		Append(widgets.NewButton(primary, PrimaryDelegate{}).AddText(widgets.Text("Primary"))).
		Append(secondaryButton("A", a.Shared.First(), true))
	if a.TwoButtons {
		root.Append(secondaryButton("B", a.Shared.Second(), false))
	}
	return cache.Build(root)
}

func secondaryButton(text string, on, first bool) *widgets.Button {
	color := SecondaryOff
	if on {
		color = SecondaryOn
	}
	return widgets.NewButton(color, SecondaryDelegate{First: first}).AddText(widgets.Text(text))
}
