package workload

import (
	"sort"
	"time"
)

// LoadLevel grades the existing load on a date before adding more work.
type LoadLevel string

const (
	LoadNone     LoadLevel = "none"
	LoadHigh     LoadLevel = "high"
	LoadCritical LoadLevel = "critical"
)

// Daily load thresholds for assignment warnings.
const (
	DailyLoadCritical = 100
	DailyLoadHigh     = 60
)

// LoadWarning reports the heaviest per-student load already due on a date.
type LoadWarning struct {
	Date      time.Time `json:"date"`
	Load      int       `json:"load"`
	Level     LoadLevel `json:"level"`
	StudentID string    `json:"studentId,omitempty"`
}

// LevelForDailyLoad grades a single day's summed stress.
func LevelForDailyLoad(load int) LoadLevel {
	switch {
	case load > DailyLoadCritical:
		return LoadCritical
	case load > DailyLoadHigh:
		return LoadHigh
	default:
		return LoadNone
	}
}

// AssessDailyLoad sums the stress of open tasks due on date for each owner
// and grades the heaviest one. Institutional assignments are stored once
// per student, so summing across owners would count one assignment many
// times.
func AssessDailyLoad(tasks []Task, date time.Time) LoadWarning {
	day := DateOf(date, time.UTC)
	perOwner := make(map[string]int)
	for _, t := range tasks {
		if t.IsCompleted || t.DueDate == nil {
			continue
		}
		if !DateOf(*t.DueDate, time.UTC).Equal(day) {
			continue
		}
		perOwner[t.OwnerID] += t.StressScore
	}

	w := LoadWarning{Date: day, Level: LoadNone}
	owners := make([]string, 0, len(perOwner))
	for id := range perOwner {
		owners = append(owners, id)
	}
	sort.Strings(owners)
	for _, id := range owners {
		if perOwner[id] > w.Load {
			w.Load = perOwner[id]
			w.StudentID = id
		}
	}
	w.Level = LevelForDailyLoad(w.Load)
	return w
}

// Overdue returns open tasks due strictly before today, oldest first. The
// input slice is not modified.
func Overdue(tasks []Task, clock Clock) []Task {
	today := clock.Today()
	out := make([]Task, 0)
	for _, t := range tasks {
		if t.IsCompleted || t.DueDate == nil {
			continue
		}
		if DateOf(*t.DueDate, time.UTC).Before(today) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out
}
