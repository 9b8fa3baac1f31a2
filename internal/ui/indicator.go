package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/nozo-moto/netspeed/internal/format"
	"github.com/nozo-moto/netspeed/pkg/types"
	"github.com/rivo/tview"
)

const waitingText = "measuring..."

// Indicator is a one-line terminal display of the current down/up label.
type Indicator struct {
	app  *tview.Application
	view *tview.TextView

	// mu pairs the running check with the redraw request so nothing is
	// queued once the event loop has exited.
	mu      sync.Mutex
	running bool
	pending bool
}

func NewIndicator() *Indicator {
	in := &Indicator{
		app: tview.NewApplication(),
		view: tview.NewTextView().
			SetTextAlign(tview.AlignCenter).
			SetTextColor(tcell.ColorGreen),
	}
	in.view.SetBorder(true).
		SetTitle(" Network Speed (q to quit) ")
	in.view.SetText(waitingText)

	in.app.SetAfterDrawFunc(func(tcell.Screen) {
		in.mu.Lock()
		in.pending = false
		in.mu.Unlock()
	})

	in.app.SetRoot(in.view, true).
		SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			switch event.Key() {
			case tcell.KeyEsc:
				in.app.Stop()
				return nil
			case tcell.KeyRune:
				if event.Rune() == 'q' {
					in.app.Stop()
					return nil
				}
			}
			return event
		})

	return in
}

// SetScreen replaces the terminal, mainly for simulation screens in tests.
func (in *Indicator) SetScreen(screen tcell.Screen) {
	in.app.SetScreen(screen)
}

func (in *Indicator) Update(r types.RateSample) {
	in.view.SetText(format.Label(r))

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.running && !in.pending {
		// Draw waits for the event loop to run it and hangs if the loop
		// has just exited. A resize event only needs a buffered send and
		// still makes the loop redraw; at most one is outstanding.
		in.pending = true
		in.app.QueueEvent(tcell.NewEventResize(0, 0))
	}
}

func (in *Indicator) Text() string {
	return in.view.GetText(true)
}

// Run blocks until the user quits or Stop is called.
func (in *Indicator) Run() error {
	in.mu.Lock()
	in.running = true
	in.mu.Unlock()

	err := in.app.Run()

	in.mu.Lock()
	in.running = false
	in.pending = false
	in.mu.Unlock()

	return err
}

func (in *Indicator) Stop() {
	in.app.Stop()
}
