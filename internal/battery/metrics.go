package battery

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"time"
)

// ErrRateUnknown is returned by TimeRemaining when the battery is charging or
// discharging but reports a zero average current.
var ErrRateUnknown = errors.New("average current is zero")

// UnknownDuration is the HH:MM rendering when the rate is unknown.
const UnknownDuration = "--:--"

// PercentRemaining is the charge relative to the current full capacity,
// capped at 100.
func (s *Snapshot) PercentRemaining() int {
	p := ratio(s.attrs.ChargeNow, s.mustDivisor(s.attrs.ChargeFull, AttrChargeFull))
	if p > 100 {
		return 100
	}
	return p
}

// AbsPercentRemaining is the charge relative to the design capacity. It is
// not capped.
func (s *Snapshot) AbsPercentRemaining() int {
	return ratio(s.attrs.ChargeNow, s.mustDivisor(s.attrs.ChargeFullDesign, AttrChargeFullDesign))
}

// Health is the current full capacity as a percentage of design capacity.
func (s *Snapshot) Health() int {
	return ratio(s.attrs.ChargeFull, s.mustDivisor(s.attrs.ChargeFullDesign, AttrChargeFullDesign))
}

// ratio is n*100/d computed in 128 bits, saturated at math.MaxInt.
func ratio(n, d uint64) int {
	hi, lo := bits.Mul64(n, 100)
	if hi >= d {
		return math.MaxInt
	}
	q, _ := bits.Div64(hi, lo, d)
	if q > math.MaxInt {
		return math.MaxInt
	}
	return int(q)
}

// mustDivisor panics on zero; New rejects those values so only a zero
// Snapshot{} can get here.
func (s *Snapshot) mustDivisor(v uint64, attribute string) uint64 {
	if v == 0 {
		panic(fmt.Sprintf("battery: snapshot of %q has zero %s", s.device, attribute))
	}
	return v
}

// HoursRemaining is the estimated time until full when charging or until
// empty when discharging, in hours. It is zero when the battery is full.
func (s *Snapshot) HoursRemaining() (float64, error) {
	a := s.attrs
	switch a.Status {
	case Charging:
		if a.CurrentAvg == 0 {
			return 0, ErrRateUnknown
		}
		h := (float64(a.ChargeFull) - float64(a.ChargeNow)) / float64(a.CurrentAvg)
		return math.Max(h, 0), nil
	case Discharging:
		if a.CurrentAvg == 0 {
			return 0, ErrRateUnknown
		}
		return float64(a.ChargeNow) / float64(a.CurrentAvg), nil
	default:
		return 0, nil
	}
}

// TimeRemaining is HoursRemaining as a duration, saturated at the largest
// representable duration.
func (s *Snapshot) TimeRemaining() (time.Duration, error) {
	h, err := s.HoursRemaining()
	if err != nil {
		return 0, err
	}
	ns := h * float64(time.Hour)
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(ns), nil
}

// FormatTimeRemaining renders TimeRemaining as HH:MM, or UnknownDuration.
func (s *Snapshot) FormatTimeRemaining() string {
	h, err := s.HoursRemaining()
	if err != nil {
		return UnknownDuration
	}
	return FormatHours(h)
}

// FormatHours renders fractional hours as zero-padded HH:MM. Minutes are
// rounded; a rounded 60 carries into the hour.
func FormatHours(h float64) string {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return UnknownDuration
	}
	whole := math.Floor(h)
	mins := math.Round((h - whole) * 60)
	if mins >= 60 {
		whole++
		mins = 0
	}
	return fmt.Sprintf("%02.0f:%02.0f", whole, mins)
}
