package ui

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nozo-moto/netspeed/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSink struct {
	got []types.RateSample
}

func (c *countingSink) Update(r types.RateSample) {
	c.got = append(c.got, r)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	w.Update(types.RateSample{Down: 777_000, Up: 2330})
	w.Update(types.RateSample{})

	assert.Equal(t, "↓ 777 K/s ↑ 2.33 K/s\n↓ 0 B/s ↑ 0 B/s\n", buf.String())
}

func TestMulti(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := Multi{a, b}

	m.Update(types.RateSample{Down: 1, Up: 2})

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.Equal(t, types.RateSample{Down: 1, Up: 2}, b.got[0])
}

func TestSystemdNotifier(t *testing.T) {
	var states []string
	n := NewSystemdNotifier(nil)
	n.notify = func(unset bool, state string) (bool, error) {
		assert.False(t, unset)
		states = append(states, state)
		return true, nil
	}

	n.Ready()
	n.Update(types.RateSample{Down: 3000, Up: 200})
	n.Stopping()

	assert.Equal(t, []string{"READY=1", "STATUS=↓ 3.00 K/s ↑ 200 B/s", "STOPPING=1"}, states)
}

func TestSystemdNotifier_ErrorIsNotFatal(t *testing.T) {
	n := NewSystemdNotifier(nil)
	n.notify = func(bool, string) (bool, error) {
		return false, errors.New("socket gone")
	}

	assert.NotPanics(t, func() { n.Update(types.RateSample{}) })
}

func TestIndicator_Update(t *testing.T) {
	in := NewIndicator()
	assert.Contains(t, in.Text(), waitingText)

	in.Update(types.RateSample{Down: 3000, Up: 200})
	assert.Contains(t, in.Text(), "↓ 3.00 K/s ↑ 200 B/s")
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestIndicator_RunUpdateStop(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	in := NewIndicator()
	in.SetScreen(screen)

	runDone := make(chan struct{})
	var runErr error
	go func() {
		defer close(runDone)
		runErr = in.Run()
	}()

	// The callback only runs once the event loop is up.
	loopUp := make(chan struct{})
	go in.app.QueueUpdate(func() { close(loopUp) })
	waitClosed(t, loopUp, "event loop")

	stopUpdates := make(chan struct{})
	updatesDone := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; ; n++ {
				select {
				case <-stopUpdates:
					return
				default:
				}
				in.Update(types.RateSample{Down: float64(1000 * (i + n)), Up: 200})
				time.Sleep(time.Millisecond)
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(updatesDone)
	}()

	time.Sleep(50 * time.Millisecond)
	in.Stop()
	waitClosed(t, runDone, "Run to return")
	require.NoError(t, runErr)

	close(stopUpdates)
	waitClosed(t, updatesDone, "updates to return")

	lastDone := make(chan struct{})
	go func() {
		defer close(lastDone)
		in.Update(types.RateSample{Down: 3000, Up: 200})
	}()
	waitClosed(t, lastDone, "update after stop")
	assert.Contains(t, in.Text(), "↓ 3.00 K/s ↑ 200 B/s")
}
