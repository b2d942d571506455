// Package battery takes point-in-time snapshots of a power-supply battery and
// derives charge metrics from them.
package battery

import (
	"errors"
	"fmt"

	"github.com/cptspacemanspiff/batblock/internal/sysfs"
)

// DefaultDevice is used when no device name is configured.
const DefaultDevice = "BAT0"

// Attribute file names read for every snapshot, in read order.
const (
	AttrChargeNow        = "charge_now"
	AttrChargeFull       = "charge_full"
	AttrChargeFullDesign = "charge_full_design"
	AttrCycleCount       = "cycle_count"
	AttrStatus           = "status"
	AttrCurrentNow       = "current_now"
	AttrCurrentAvg       = "current_avg"
)

// ErrNoDevice is returned when a snapshot is requested without a device name.
var ErrNoDevice = errors.New("battery device name must not be empty")

// Attributes holds the raw values of one battery. Charges are in µAh and
// currents in µA as reported by the kernel.
type Attributes struct {
	ChargeNow        uint64
	ChargeFull       uint64
	ChargeFullDesign uint64
	CycleCount       uint64
	Status           Status
	CurrentNow       uint64
	CurrentAvg       uint64
}

// Snapshot is an immutable reading of all attributes of one device.
// Obtain one through Acquire or New; the zero value is not usable.
type Snapshot struct {
	device string
	attrs  Attributes
}

// Acquire reads every attribute of device. The first failing read is
// returned as is and no snapshot is produced.
func Acquire(r *sysfs.Reader, device string) (*Snapshot, error) {
	if device == "" {
		return nil, ErrNoDevice
	}

	var (
		a   Attributes
		err error
	)
	if a.ChargeNow, err = r.ReadUint(device, AttrChargeNow); err != nil {
		return nil, err
	}
	if a.ChargeFull, err = r.ReadUint(device, AttrChargeFull); err != nil {
		return nil, err
	}
	if a.ChargeFullDesign, err = r.ReadUint(device, AttrChargeFullDesign); err != nil {
		return nil, err
	}
	if a.CycleCount, err = r.ReadUint(device, AttrCycleCount); err != nil {
		return nil, err
	}
	if a.Status, err = sysfs.Read[Status](r, device, AttrStatus); err != nil {
		return nil, err
	}
	if a.CurrentNow, err = r.ReadUint(device, AttrCurrentNow); err != nil {
		return nil, err
	}
	if a.CurrentAvg, err = r.ReadUint(device, AttrCurrentAvg); err != nil {
		return nil, err
	}

	s, err := New(device, a)
	if err != nil {
		var acqErr *sysfs.AcquisitionError
		if errors.As(err, &acqErr) {
			acqErr.Path = r.Path(device, acqErr.Attribute)
		}
		return nil, err
	}
	return s, nil
}

// New builds a snapshot from values already read. Capacities are divisors
// for every derived metric, so a zero charge_full or charge_full_design is
// rejected as a conversion error.
func New(device string, a Attributes) (*Snapshot, error) {
	if device == "" {
		return nil, ErrNoDevice
	}
	if a.ChargeFull == 0 {
		return nil, zeroCapacity(device, AttrChargeFull)
	}
	if a.ChargeFullDesign == 0 {
		return nil, zeroCapacity(device, AttrChargeFullDesign)
	}
	if _, err := a.Status.MarshalText(); err != nil {
		return nil, &sysfs.AcquisitionError{Kind: sysfs.KindConversion, Device: device, Attribute: AttrStatus, Err: err}
	}
	return &Snapshot{device: device, attrs: a}, nil
}

func zeroCapacity(device, attribute string) error {
	return &sysfs.AcquisitionError{
		Kind:      sysfs.KindConversion,
		Device:    device,
		Attribute: attribute,
		Err:       fmt.Errorf("capacity must be positive, got 0"),
	}
}

// Device returns the power-supply name the snapshot was read from.
func (s *Snapshot) Device() string { return s.device }

// Attributes returns a copy of the raw values.
func (s *Snapshot) Attributes() Attributes { return s.attrs }

func (s *Snapshot) Status() Status { return s.attrs.Status }
