package btr

// ScheduleMonth is one month of vertical construction activity. Months are
// numbered from 1.
type ScheduleMonth struct {
	Month             int `json:"month"`
	Started           int `json:"started"`
	CumStarted        int `json:"cum_started"`
	Delivered         int `json:"delivered"`
	CumDelivered      int `json:"cum_delivered"`
	UnderConstruction int `json:"under_construction"`
}

// Schedule is the unit start and delivery plan.
type Schedule struct {
	BuildDuration     int             `json:"build_duration"`
	Months            []ScheduleMonth `json:"months"`
	TotalStarted      int             `json:"total_started"`
	LastDeliveryMonth int             `json:"last_delivery_month"`
}

// Remaining is the number of units not yet assigned a start month. A
// negative value means more starts were scheduled than units exist.
func (s Schedule) Remaining(totalUnits int) int {
	return totalUnits - s.TotalStarted
}

// EvenPaceStarts assigns pace unit starts per month from firstMonth until
// every unit is started or the horizon ends. Index i holds month i+1.
func EvenPaceStarts(totalUnits, months, pace, firstMonth int) []int {
	if months <= 0 {
		return []int{}
	}
	starts := make([]int, months)
	if pace <= 0 {
		return starts
	}
	assigned := 0
	for m := 1; m <= months; m++ {
		if m < firstMonth || assigned >= totalUnits {
			continue
		}
		n := min(pace, totalUnits-assigned)
		starts[m-1] = n
		assigned += n
	}
	return starts
}

// DeliverySchedule delivers each month's starts buildDuration months later.
// Starts too late to deliver inside the horizon stay under construction.
func DeliverySchedule(starts []int, buildDuration int) Schedule {
	s := Schedule{
		BuildDuration: buildDuration,
		Months:        make([]ScheduleMonth, 0, len(starts)),
	}

	cumStarted, cumDelivered := 0, 0
	for i, started := range starts {
		delivered := 0
		if j := i - buildDuration; j >= 0 && j < len(starts) {
			delivered = starts[j]
		}
		cumStarted += started
		cumDelivered += delivered
		if delivered > 0 {
			s.LastDeliveryMonth = i + 1
		}
		s.Months = append(s.Months, ScheduleMonth{
			Month:             i + 1,
			Started:           started,
			CumStarted:        cumStarted,
			Delivered:         delivered,
			CumDelivered:      cumDelivered,
			UnderConstruction: cumStarted - cumDelivered,
		})
	}
	s.TotalStarted = cumStarted
	return s
}
