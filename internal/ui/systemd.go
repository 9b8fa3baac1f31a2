package ui

import (
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/nozo-moto/netspeed/internal/format"
	"github.com/nozo-moto/netspeed/pkg/types"
)

type notifyFunc func(unsetEnvironment bool, state string) (bool, error)

// SystemdNotifier reports readiness and the current label to systemd through
// sd_notify. Outside a notify-type unit every call is a no-op.
type SystemdNotifier struct {
	notify notifyFunc
	log    *slog.Logger
}

func NewSystemdNotifier(log *slog.Logger) *SystemdNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &SystemdNotifier{notify: daemon.SdNotify, log: log}
}

func (n *SystemdNotifier) Ready() {
	n.send(daemon.SdNotifyReady)
}

func (n *SystemdNotifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

func (n *SystemdNotifier) Update(r types.RateSample) {
	n.send("STATUS=" + format.Label(r))
}

func (n *SystemdNotifier) send(state string) {
	if _, err := n.notify(false, state); err != nil {
		n.log.Warn("failed to notify systemd", "state", state, "error", err)
	}
}
