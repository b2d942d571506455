package dbus

import (
	"encoding/json"
	"fmt"

	godbus "github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/cptspacemanspiff/batblock/internal/battery"
)

const (
	busName   = "org.batblock.Battery"
	objPath   = "/org/batblock/Battery"
	ifaceName = "org.batblock.Battery"
)

const introspectXML = `
<node>
  <interface name="` + ifaceName + `">
    <method name="GetSnapshot">
      <arg direction="out" type="s" name="json"/>
    </method>
    <method name="GetDisplay">
      <arg direction="out" type="i" name="percent"/>
      <arg direction="out" type="s" name="level"/>
      <arg direction="out" type="b" name="charging"/>
    </method>
  </interface>
` + introspect.IntrospectDataString + `
</node>`

// AcquireFunc takes a fresh snapshot of the served battery.
type AcquireFunc func() (*battery.Snapshot, error)

// Service exposes battery snapshots over D-Bus. Every call reads sysfs again.
type Service struct {
	acquire AcquireFunc
}

// NewService creates a new D-Bus service.
func NewService(acquire AcquireFunc) *Service {
	return &Service{acquire: acquire}
}

// BusName is the well-known name the service requests.
func BusName() string { return busName }

// Export registers the service on the session bus.
func (s *Service) Export() (*godbus.Conn, error) {
	conn, err := godbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	if err := conn.Export(s, objPath, ifaceName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export %s: %w", ifaceName, err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), objPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(busName, godbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("request name: %w", err)
	}
	if reply != godbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("name %s already taken", busName)
	}

	return conn, nil
}

// GetSnapshot returns the battery report as JSON.
func (s *Service) GetSnapshot() (string, *godbus.Error) {
	snap, err := s.acquire()
	if err != nil {
		return "", godbus.MakeFailedError(err)
	}
	data, err := json.Marshal(snap.Report())
	if err != nil {
		return "", godbus.MakeFailedError(err)
	}
	return string(data), nil
}

// GetDisplay returns the status-bar category of the battery.
func (s *Service) GetDisplay() (int32, string, bool, *godbus.Error) {
	snap, err := s.acquire()
	if err != nil {
		return 0, "", false, godbus.MakeFailedError(err)
	}
	d := snap.Display()
	return int32(d.Percent), d.Level.String(), d.Charging, nil
}
