package audit

// Summary holds the per-target counts shown at the top of the report
type Summary struct {
	TotalTargets int `json:"total_targets"`
	Engaged      int `json:"targets_engaged"`
	Successful   int `json:"successful_mitigations"`
	Unsuccessful int `json:"unsuccessful_mitigations"`
	Reported     int `json:"reports_filed"`
}

// Summarize counts distinct targets across the entries. Unsuccessful is the
// set of engaged targets minus the successful ones.
func Summarize(entries []Entry, totalTargets int) Summary {
	engaged := make(map[string]struct{})
	successful := make(map[string]struct{})
	reported := make(map[string]struct{})

	for _, entry := range entries {
		engaged[entry.TargetID] = struct{}{}
		if entry.CountsAsSuccess {
			successful[entry.TargetID] = struct{}{}
		}
		if entry.Reported {
			reported[entry.TargetID] = struct{}{}
		}
	}

	unsuccessful := 0
	for id := range engaged {
		if _, ok := successful[id]; !ok {
			unsuccessful++
		}
	}

	return Summary{
		TotalTargets: totalTargets,
		Engaged:      len(engaged),
		Successful:   len(successful),
		Unsuccessful: unsuccessful,
		Reported:     len(reported),
	}
}
