package sysfs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
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

// onOff exercises Read with a non-numeric TextUnmarshaler.
type onOff bool

func (o *onOff) UnmarshalText(text []byte) error {
	switch string(text) {
	case "1":
		*o = true
	case "0":
		*o = false
	default:
		return errors.New("not a flag")
	}
	return nil
}

func TestNewReader_DefaultRoot(t *testing.T) {
	if got := NewReader("").Root(); got != DefaultRoot {
		t.Fatalf("Root() = %q, want %q", got, DefaultRoot)
	}
}

func TestPath(t *testing.T) {
	r := NewReader("/sys")
	got := r.Path("BAT0", "charge_now")
	if got != "/sys/class/power_supply/BAT0/charge_now" {
		t.Fatalf("Path() = %q", got)
	}
}

func TestReadUint_TrimsWhitespace(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "class/power_supply/BAT0/charge_now"), "  4211000\n")

	got, err := NewReader(root).ReadUint("BAT0", "charge_now")
	if err != nil {
		t.Fatalf("ReadUint() error = %v", err)
	}
	if got != 4211000 {
		t.Fatalf("ReadUint() = %d, want 4211000", got)
	}
}

func TestRead_CustomUnmarshaler(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "class/power_supply/AC/online"), "1\n")

	got, err := Read[onOff](NewReader(root), "AC", "online")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !got {
		t.Fatal("Read() = false, want true")
	}
}

func TestRead_RereadsEveryCall(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "class/power_supply/BAT0/current_now")
	r := NewReader(root)

	writeTestFile(t, path, "100\n")
	first, err := r.ReadUint("BAT0", "current_now")
	if err != nil {
		t.Fatalf("first ReadUint() error = %v", err)
	}
	writeTestFile(t, path, "250\n")
	second, err := r.ReadUint("BAT0", "current_now")
	if err != nil {
		t.Fatalf("second ReadUint() error = %v", err)
	}
	if first != 100 || second != 250 {
		t.Fatalf("ReadUint() = %d then %d, want 100 then 250", first, second)
	}
}

func TestRead_Errors(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "class/power_supply/BAT0/letters"), "abc\n")
	writeTestFile(t, filepath.Join(root, "class/power_supply/BAT0/negative"), "-5\n")
	writeTestFile(t, filepath.Join(root, "class/power_supply/BAT0/empty"), "\n")
	if err := os.MkdirAll(filepath.Join(root, "class/power_supply/BAT0/subdir"), 0o755); err != nil {
		t.Fatalf("mkdir subdir: %v", err)
	}

	tests := []struct {
		name      string
		device    string
		attribute string
		wantKind  Kind
		want      error
	}{
		{name: "missing device", device: "BAT9", attribute: "charge_now", wantKind: KindIO, want: ErrIO},
		{name: "missing attribute", device: "BAT0", attribute: "charge_now", wantKind: KindIO, want: ErrIO},
		{name: "read of directory", device: "BAT0", attribute: "subdir", wantKind: KindIO, want: ErrIO},
		{name: "non numeric", device: "BAT0", attribute: "letters", wantKind: KindConversion, want: ErrConversion},
		{name: "negative", device: "BAT0", attribute: "negative", wantKind: KindConversion, want: ErrConversion},
		{name: "empty file", device: "BAT0", attribute: "empty", wantKind: KindConversion, want: ErrConversion},
	}

	r := NewReader(root)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ReadUint(tt.device, tt.attribute)
			if err == nil {
				t.Fatal("ReadUint() error = nil, want error")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("ReadUint() error = %v, want errors.Is %v", err, tt.want)
			}
			var acqErr *AcquisitionError
			if !errors.As(err, &acqErr) {
				t.Fatalf("ReadUint() error = %T, want *AcquisitionError", err)
			}
			if acqErr.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", acqErr.Kind, tt.wantKind)
			}
			if acqErr.Attribute != tt.attribute || acqErr.Device != tt.device {
				t.Fatalf("error names %s/%s, want %s/%s", acqErr.Device, acqErr.Attribute, tt.device, tt.attribute)
			}
			if acqErr.Path != r.Path(tt.device, tt.attribute) {
				t.Fatalf("Path = %q, want %q", acqErr.Path, r.Path(tt.device, tt.attribute))
			}
		})
	}
}

func TestAcquisitionError_Message(t *testing.T) {
	err := &AcquisitionError{Kind: KindConversion, Device: "BAT0", Attribute: "status", Err: errors.New("bad")}
	if !strings.Contains(err.Error(), "parse BAT0/status") {
		t.Fatalf("Error() = %q, want contains %q", err.Error(), "parse BAT0/status")
	}
	if errors.Is(err, ErrIO) {
		t.Fatal("conversion error matches ErrIO")
	}
}
