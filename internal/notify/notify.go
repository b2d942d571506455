// Package notify sends desktop notifications over the session D-Bus.
package notify

import (
	"fmt"

	godbus "github.com/godbus/dbus/v5"

	"github.com/cptspacemanspiff/batblock/internal/battery"
)

const (
	busName   = "org.freedesktop.Notifications"
	objPath   = "/org/freedesktop/Notifications"
	ifaceName = "org.freedesktop.Notifications"

	summaryTimeRemaining = "Time Remaining"
)

// caller is the subset of godbus.BusObject used to send notifications.
type caller interface {
	Call(method string, flags godbus.Flags, args ...interface{}) *godbus.Call
}

// Notifier posts notifications through org.freedesktop.Notifications.
type Notifier struct {
	conn      *godbus.Conn
	obj       caller
	appName   string
	timeoutMS int32
}

// Dial connects to the session bus.
func Dial(appName string, timeoutMS int) (*Notifier, error) {
	conn, err := godbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	n := newNotifier(conn.Object(busName, objPath), appName, timeoutMS)
	n.conn = conn
	return n, nil
}

func newNotifier(obj caller, appName string, timeoutMS int) *Notifier {
	return &Notifier{obj: obj, appName: appName, timeoutMS: int32(timeoutMS)}
}

// Close releases the bus connection.
func (n *Notifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}

// Notify shows a notification and returns the id the server assigned to it.
func (n *Notifier) Notify(summary, body, icon string) (uint32, error) {
	var id uint32
	call := n.obj.Call(ifaceName+".Notify", 0,
		n.appName,
		uint32(0),
		icon,
		summary,
		body,
		[]string{},
		map[string]godbus.Variant{},
		n.timeoutMS,
	)
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}
	return id, nil
}

// TimeRemaining posts the estimated time to full or empty for s.
func (n *Notifier) TimeRemaining(s *battery.Snapshot) (uint32, error) {
	return n.Notify(summaryTimeRemaining, s.FormatTimeRemaining(), IconName(s.Display()))
}

// IconName maps a display to a freedesktop icon-theme name.
func IconName(d battery.Display) string {
	var name string
	switch d.Level {
	case battery.LevelCharged:
		return "battery-full-charged"
	case battery.LevelFull:
		name = "battery-full"
	case battery.LevelThreeQuarters:
		name = "battery-good"
	case battery.LevelHalf:
		name = "battery-medium"
	case battery.LevelQuarter:
		name = "battery-low"
	default:
		name = "battery-caution"
	}
	if d.Charging {
		name += "-charging"
	}
	return name
}
