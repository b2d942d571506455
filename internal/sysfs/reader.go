// Package sysfs reads single-value attribute files of power-supply devices.
package sysfs

import (
	"encoding"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultRoot is where the kernel mounts sysfs.
const DefaultRoot = "/sys"

// Reader resolves attribute paths below a sysfs root.
type Reader struct {
	root string
}

// NewReader returns a Reader rooted at root, or at DefaultRoot if root is empty.
func NewReader(root string) *Reader {
	if root == "" {
		root = DefaultRoot
	}
	return &Reader{root: root}
}

// Root returns the sysfs root the reader resolves against.
func (r *Reader) Root() string { return r.root }

// Path returns <root>/class/power_supply/<device>/<attribute>.
//
// device is joined verbatim: a name such as "../../.." escapes the
// power-supply tree. Callers must not pass untrusted names.
func (r *Reader) Path(device, attribute string) string {
	return filepath.Join(r.root, "class", "power_supply", device, attribute)
}

// Text reads an attribute file and returns its content with surrounding
// whitespace removed.
func (r *Reader) Text(device, attribute string) (string, error) {
	path := r.Path(device, attribute)
	f, err := os.Open(path)
	if err != nil {
		return "", &AcquisitionError{Kind: KindIO, Device: device, Attribute: attribute, Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", &AcquisitionError{Kind: KindIO, Device: device, Attribute: attribute, Path: path, Err: err}
	}
	return strings.TrimSpace(string(data)), nil
}

// Read reads an attribute and parses it into T. T is parsed through the
// encoding.TextUnmarshaler implemented by *T, given the trimmed content.
func Read[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](r *Reader, device, attribute string) (T, error) {
	var v T
	text, err := r.Text(device, attribute)
	if err != nil {
		return v, err
	}
	if text == "" {
		return v, &AcquisitionError{Kind: KindConversion, Device: device, Attribute: attribute,
			Path: r.Path(device, attribute), Err: errors.New("empty value")}
	}
	if err := PT(&v).UnmarshalText([]byte(text)); err != nil {
		return v, &AcquisitionError{Kind: KindConversion, Device: device, Attribute: attribute,
			Path: r.Path(device, attribute), Err: err}
	}
	return v, nil
}

// Uint is an unsigned decimal attribute value.
type Uint uint64

func (u *Uint) UnmarshalText(text []byte) error {
	n, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unsigned integer %q", text)
	}
	*u = Uint(n)
	return nil
}

// ReadUint reads an unsigned decimal attribute.
func (r *Reader) ReadUint(device, attribute string) (uint64, error) {
	v, err := Read[Uint](r, device, attribute)
	return uint64(v), err
}
