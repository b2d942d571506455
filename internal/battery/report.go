package battery

// Report is a flat view of a snapshot and its derived metrics for JSON and
// terminal consumers.
type Report struct {
	Device              string `json:"device"`
	ChargeNow           uint64 `json:"charge_now"`
	ChargeFull          uint64 `json:"charge_full"`
	ChargeFullDesign    uint64 `json:"charge_full_design"`
	CycleCount          uint64 `json:"cycle_count"`
	Status              Status `json:"status"`
	CurrentNow          uint64 `json:"current_now"`
	CurrentAvg          uint64 `json:"current_avg"`
	PercentRemaining    int    `json:"percent_remaining"`
	AbsPercentRemaining int    `json:"abs_percent_remaining"`
	Health              int    `json:"health"`
	TimeRemaining       string `json:"time_remaining"`
	Level               string `json:"level"`
}

func (s *Snapshot) Report() Report {
	a := s.attrs
	return Report{
		Device:              s.device,
		ChargeNow:           a.ChargeNow,
		ChargeFull:          a.ChargeFull,
		ChargeFullDesign:    a.ChargeFullDesign,
		CycleCount:          a.CycleCount,
		Status:              a.Status,
		CurrentNow:          a.CurrentNow,
		CurrentAvg:          a.CurrentAvg,
		PercentRemaining:    s.PercentRemaining(),
		AbsPercentRemaining: s.AbsPercentRemaining(),
		Health:              s.Health(),
		TimeRemaining:       s.FormatTimeRemaining(),
		Level:               s.Display().Level.String(),
	}
}
