package battery

import "fmt"

// Level is a coarse band of remaining charge used to pick an icon and color.
type Level int

const (
	LevelEmpty         Level = iota // 0-10
	LevelQuarter                    // 11-35
	LevelHalf                       // 36-60
	LevelThreeQuarters              // 61-85
	LevelFull                       // 86-100
	LevelCharged                    // status Full, regardless of percent
)

var levelNames = [...]string{"empty", "quarter", "half", "three-quarters", "full", "charged"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Display is what a status-bar consumer needs to render one battery.
type Display struct {
	Percent  int
	Level    Level
	Charging bool
}

// band upper bounds, inclusive.
var bands = [...]struct {
	max   int
	level Level
}{
	{10, LevelEmpty},
	{35, LevelQuarter},
	{60, LevelHalf},
	{85, LevelThreeQuarters},
	{100, LevelFull},
}

// LevelFor buckets a percentage. Values outside 0..100 are clamped.
func LevelFor(percent int) Level {
	if percent < 0 {
		percent = 0
	}
	for _, b := range bands {
		if percent <= b.max {
			return b.level
		}
	}
	return LevelFull
}

// Classify maps a percentage and status to a display category. A Full status
// reports 100% and LevelCharged even if the charge counter lags behind.
func Classify(percent int, status Status) Display {
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	if status == Full {
		return Display{Percent: 100, Level: LevelCharged}
	}
	return Display{
		Percent:  percent,
		Level:    LevelFor(percent),
		Charging: status == Charging,
	}
}

// Display classifies the snapshot.
func (s *Snapshot) Display() Display {
	return Classify(s.PercentRemaining(), s.attrs.Status)
}
