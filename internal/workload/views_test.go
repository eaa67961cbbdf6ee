package workload

import (
	"reflect"
	"testing"
	"time"
)

func TestOverdue(t *testing.T) {
	done := personal("done", 10, inDays(-3))
	done.IsCompleted = true

	tasks := []Task{
		personal("yesterday", 10, inDays(-1)),
		personal("today", 10, inDays(0)),
		personal("last-week", 10, inDays(-7)),
		done,
		personal("undated", 10, nil),
		personal("future", 10, inDays(4)),
	}
	before := append([]Task(nil), tasks...)

	got := Overdue(tasks, testClock())

	var ids []string
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	if !reflect.DeepEqual(ids, []string{"last-week", "yesterday"}) {
		t.Errorf("Overdue() = %v", ids)
	}
	if !reflect.DeepEqual(tasks, before) {
		t.Error("Overdue modified its input")
	}
	if got := Overdue(nil, testClock()); got == nil || len(got) != 0 {
		t.Errorf("Overdue(nil) = %v, want empty", got)
	}
}

func TestAssessDailyLoad(t *testing.T) {
	date := *inDays(5)
	owned := func(owner string, stress int, due *time.Time) Task {
		task := institutional(owner+"-task", stress, due)
		task.OwnerID = owner
		return task
	}

	tests := []struct {
		name      string
		tasks     []Task
		wantLoad  int
		wantLevel LoadLevel
		wantOwner string
	}{
		{"nothing due", nil, 0, LoadNone, ""},
		{"light", []Task{owned("s1", 40, inDays(5)), owned("s1", 20, inDays(5))}, 60, LoadNone, "s1"},
		{"high", []Task{owned("s1", 40, inDays(5)), owned("s1", 21, inDays(5))}, 61, LoadHigh, "s1"},
		{"exactly 100 is high", []Task{owned("s1", 50, inDays(5)), owned("s1", 50, inDays(5))}, 100, LoadHigh, "s1"},
		{"critical", []Task{owned("s1", 60, inDays(5)), owned("s1", 41, inDays(5))}, 101, LoadCritical, "s1"},
		{
			name: "fan-out copies are not summed across students",
			tasks: []Task{
				owned("s1", 50, inDays(5)), owned("s2", 50, inDays(5)), owned("s3", 50, inDays(5)),
				owned("s2", 20, inDays(5)),
			},
			wantLoad: 70, wantLevel: LoadHigh, wantOwner: "s2",
		},
		{"other dates ignored", []Task{owned("s1", 90, inDays(4)), owned("s1", 90, inDays(6))}, 0, LoadNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessDailyLoad(tt.tasks, date)
			if got.Load != tt.wantLoad || got.Level != tt.wantLevel || got.StudentID != tt.wantOwner {
				t.Errorf("AssessDailyLoad() = %+v, want load %d level %s owner %q", got, tt.wantLoad, tt.wantLevel, tt.wantOwner)
			}
		})
	}
}
