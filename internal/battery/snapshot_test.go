package battery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cptspacemanspiff/batblock/internal/sysfs"
)

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func defaultAttrFiles() map[string]string {
	return map[string]string{
		AttrChargeNow:        "50\n",
		AttrChargeFull:       "100\n",
		AttrChargeFullDesign: "120\n",
		AttrCycleCount:       "312\n",
		AttrStatus:           "Discharging\n",
		AttrCurrentNow:       "30\n",
		AttrCurrentAvg:       "25\n",
	}
}

// writeBattery writes files into a fake sysfs tree and returns a reader on it.
func writeBattery(t *testing.T, device string, files map[string]string) *sysfs.Reader {
	t.Helper()

	root := t.TempDir()
	for name, contents := range files {
		writeTestFile(t, filepath.Join(root, "class/power_supply", device, name), contents)
	}
	return sysfs.NewReader(root)
}

func TestAcquire_ReadsAllAttributes(t *testing.T) {
	r := writeBattery(t, "BAT0", defaultAttrFiles())

	s, err := Acquire(r, "BAT0")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	want := Attributes{
		ChargeNow:        50,
		ChargeFull:       100,
		ChargeFullDesign: 120,
		CycleCount:       312,
		Status:           Discharging,
		CurrentNow:       30,
		CurrentAvg:       25,
	}
	if got := s.Attributes(); got != want {
		t.Fatalf("Attributes() = %+v, want %+v", got, want)
	}
	if s.Device() != "BAT0" {
		t.Fatalf("Device() = %q, want BAT0", s.Device())
	}
}

func TestAcquire_Example(t *testing.T) {
	r := writeBattery(t, "BAT0", defaultAttrFiles())

	s, err := Acquire(r, "BAT0")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if got := s.PercentRemaining(); got != 50 {
		t.Fatalf("PercentRemaining() = %d, want 50", got)
	}
	if got := s.AbsPercentRemaining(); got != 41 {
		t.Fatalf("AbsPercentRemaining() = %d, want 41", got)
	}
	if got := s.Health(); got != 83 {
		t.Fatalf("Health() = %d, want 83", got)
	}
	if got := s.FormatTimeRemaining(); got != "02:00" {
		t.Fatalf("FormatTimeRemaining() = %q, want 02:00", got)
	}
}

func TestAcquire_UnrecognizedStatus(t *testing.T) {
	files := defaultAttrFiles()
	files[AttrStatus] = "Unplugged\n"
	// A later attribute is missing too; the status failure must win.
	delete(files, AttrCurrentAvg)
	r := writeBattery(t, "BAT0", files)

	s, err := Acquire(r, "BAT0")
	if s != nil {
		t.Fatalf("Acquire() snapshot = %+v, want nil", s)
	}
	if !errors.Is(err, sysfs.ErrConversion) {
		t.Fatalf("Acquire() error = %v, want ErrConversion", err)
	}
	var acqErr *sysfs.AcquisitionError
	if !errors.As(err, &acqErr) || acqErr.Attribute != AttrStatus {
		t.Fatalf("Acquire() error = %v, want failure on %s", err, AttrStatus)
	}
}

func TestAcquire_MissingDevice(t *testing.T) {
	r := writeBattery(t, "BAT0", defaultAttrFiles())

	s, err := Acquire(r, "BAT1")
	if s != nil {
		t.Fatalf("Acquire() snapshot = %+v, want nil", s)
	}
	if !errors.Is(err, sysfs.ErrIO) {
		t.Fatalf("Acquire() error = %v, want ErrIO", err)
	}
	var acqErr *sysfs.AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("Acquire() error = %T, want *sysfs.AcquisitionError", err)
	}
	if acqErr.Attribute != AttrChargeNow {
		t.Fatalf("failed attribute = %q, want first attribute %q", acqErr.Attribute, AttrChargeNow)
	}
}

func TestAcquire_EachAttributeFailure(t *testing.T) {
	attrs := []string{
		AttrChargeNow, AttrChargeFull, AttrChargeFullDesign, AttrCycleCount,
		AttrStatus, AttrCurrentNow, AttrCurrentAvg,
	}
	for _, attr := range attrs {
		t.Run(attr+" missing", func(t *testing.T) {
			files := defaultAttrFiles()
			delete(files, attr)
			r := writeBattery(t, "BAT0", files)

			_, err := Acquire(r, "BAT0")
			var acqErr *sysfs.AcquisitionError
			if !errors.As(err, &acqErr) {
				t.Fatalf("Acquire() error = %v, want *sysfs.AcquisitionError", err)
			}
			if acqErr.Kind != sysfs.KindIO || acqErr.Attribute != attr {
				t.Fatalf("got %v on %s, want io on %s", acqErr.Kind, acqErr.Attribute, attr)
			}
		})
		t.Run(attr+" garbage", func(t *testing.T) {
			files := defaultAttrFiles()
			files[attr] = "garbage\n"
			r := writeBattery(t, "BAT0", files)

			_, err := Acquire(r, "BAT0")
			var acqErr *sysfs.AcquisitionError
			if !errors.As(err, &acqErr) {
				t.Fatalf("Acquire() error = %v, want *sysfs.AcquisitionError", err)
			}
			if acqErr.Kind != sysfs.KindConversion || acqErr.Attribute != attr {
				t.Fatalf("got %v on %s, want conversion on %s", acqErr.Kind, acqErr.Attribute, attr)
			}
		})
	}
}

func TestAcquire_ZeroCapacity(t *testing.T) {
	for _, attr := range []string{AttrChargeFull, AttrChargeFullDesign} {
		t.Run(attr, func(t *testing.T) {
			files := defaultAttrFiles()
			files[attr] = "0\n"
			r := writeBattery(t, "BAT0", files)

			s, err := Acquire(r, "BAT0")
			if s != nil {
				t.Fatalf("Acquire() snapshot = %+v, want nil", s)
			}
			var acqErr *sysfs.AcquisitionError
			if !errors.As(err, &acqErr) {
				t.Fatalf("Acquire() error = %v, want *sysfs.AcquisitionError", err)
			}
			if acqErr.Kind != sysfs.KindConversion || acqErr.Attribute != attr {
				t.Fatalf("got %v on %s, want conversion on %s", acqErr.Kind, acqErr.Attribute, attr)
			}
			if acqErr.Path != r.Path("BAT0", attr) {
				t.Fatalf("Path = %q, want %q", acqErr.Path, r.Path("BAT0", attr))
			}
		})
	}
}

func TestAcquire_EmptyDevice(t *testing.T) {
	_, err := Acquire(sysfs.NewReader(t.TempDir()), "")
	if !errors.Is(err, ErrNoDevice) {
		t.Fatalf("Acquire() error = %v, want ErrNoDevice", err)
	}
}

func TestNew_RejectsInvalidStatus(t *testing.T) {
	_, err := New("BAT0", Attributes{ChargeFull: 1, ChargeFullDesign: 1, Status: Status(7)})
	if !errors.Is(err, sysfs.ErrConversion) {
		t.Fatalf("New() error = %v, want ErrConversion", err)
	}
}

func TestSnapshot_AttributesIsCopy(t *testing.T) {
	s := mustNew(t, Attributes{ChargeNow: 10, ChargeFull: 100, ChargeFullDesign: 100, Status: Discharging, CurrentAvg: 1})

	a := s.Attributes()
	a.ChargeNow = 99
	if s.Attributes().ChargeNow != 10 {
		t.Fatal("mutating Attributes() copy changed the snapshot")
	}
}

func mustNew(t *testing.T, a Attributes) *Snapshot {
	t.Helper()

	s, err := New("BAT0", a)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}
