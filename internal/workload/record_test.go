package workload

import (
	"errors"
	"math"
	"testing"
	"time"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool      { return &b }

func TestTaskRecord_ToTask(t *testing.T) {
	tests := []struct {
		name    string
		rec     TaskRecord
		check   func(t *testing.T, got Task)
		wantErr bool
	}{
		{
			name: "defaults for a bare personal task",
			rec:  TaskRecord{Title: strPtr("  Read chapter 4 ")},
			check: func(t *testing.T, got Task) {
				if got.Title != "Read chapter 4" || got.Kind != KindPersonal {
					t.Errorf("got %+v", got)
				}
				if got.DueDate != nil || got.IncludeInPulse || got.IsPrivate || got.IsCompleted {
					t.Errorf("unexpected flags: %+v", got)
				}
				if got.StressScore != FallbackScore {
					t.Errorf("StressScore = %d, want %d", got.StressScore, FallbackScore)
				}
			},
		},
		{
			name: "CLASS alias is institutional and always included",
			rec: TaskRecord{
				Title: strPtr("Midterm"), Type: strPtr("CLASS"), ClassID: strPtr("c1"),
				StudentUID: strPtr("s1"), IncludeInPulse: boolPtr(false), DueDate: strPtr("2026-03-20"),
			},
			check: func(t *testing.T, got Task) {
				if got.Kind != KindInstitutional || !got.IncludeInPulse || got.ClassID != "c1" || got.OwnerID != "s1" {
					t.Errorf("got %+v", got)
				}
				if got.DueDate == nil || !got.DueDate.Equal(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)) {
					t.Errorf("DueDate = %v", got.DueDate)
				}
			},
		},
		{
			name: "unparsable due date is absent",
			rec:  TaskRecord{Title: strPtr("x"), DueDate: strPtr("next tuesday")},
			check: func(t *testing.T, got Task) {
				if got.DueDate != nil {
					t.Errorf("DueDate = %v, want nil", got.DueDate)
				}
			},
		},
		{
			name: "RFC 3339 due date keeps the date",
			rec:  TaskRecord{Title: strPtr("x"), DueDate: strPtr("2026-04-01T15:04:05Z")},
			check: func(t *testing.T, got Task) {
				if got.DueDate == nil || got.DueDate.Format(DateLayout) != "2026-04-01" {
					t.Errorf("DueDate = %v", got.DueDate)
				}
			},
		},
		{
			name: "stress clamped and rounded",
			rec:  TaskRecord{Title: strPtr("x"), StressScore: f64Ptr(140)},
			check: func(t *testing.T, got Task) {
				if got.StressScore != 100 {
					t.Errorf("StressScore = %d, want 100", got.StressScore)
				}
			},
		},
		{
			name: "negative stress clamped",
			rec:  TaskRecord{Title: strPtr("x"), StressScore: f64Ptr(-4)},
			check: func(t *testing.T, got Task) {
				if got.StressScore != 0 {
					t.Errorf("StressScore = %d, want 0", got.StressScore)
				}
			},
		},
		{
			name: "fractional stress rounded",
			rec:  TaskRecord{Title: strPtr("x"), StressScore: f64Ptr(42.5)},
			check: func(t *testing.T, got Task) {
				if got.StressScore != 43 {
					t.Errorf("StressScore = %d, want 43", got.StressScore)
				}
			},
		},
		{name: "missing title", rec: TaskRecord{}, wantErr: true},
		{name: "blank title", rec: TaskRecord{Title: strPtr("   ")}, wantErr: true},
		{name: "unknown type", rec: TaskRecord{Title: strPtr("x"), Type: strPtr("HOMEWORK")}, wantErr: true},
		{name: "institutional without class", rec: TaskRecord{Title: strPtr("x"), Type: strPtr("INSTITUTIONAL")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rec.ToTask()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTask) {
					t.Fatalf("ToTask() error = %v, want ErrInvalidTask", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToTask() unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestTaskRecord_ToTask_StressSaturates(t *testing.T) {
	tests := []struct {
		stress float64
		want   int
	}{
		{1e19, 100},
		{-1e19, 0},
		{1e300, 100},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
		{math.NaN(), FallbackScore},
		{99.6, 100},
		{0.4, 0},
	}
	for _, tt := range tests {
		got, err := TaskRecord{Title: strPtr("x"), StressScore: f64Ptr(tt.stress)}.ToTask()
		if err != nil {
			t.Fatalf("ToTask(%v) error = %v", tt.stress, err)
		}
		if got.StressScore != tt.want {
			t.Errorf("ToTask(%v).StressScore = %d, want %d", tt.stress, got.StressScore, tt.want)
		}
	}
}

func TestDecodeTasks(t *testing.T) {
	data := []byte(`[
		{"title": "Essay", "stressScore": 70, "dueDate": "2026-03-12", "includeInPulse": true, "extra": "ignored"},
		{"id": "lab", "title": "Lab", "type": "INSTITUTIONAL", "classId": "chem", "stressScore": 55}
	]`)

	tasks, err := DecodeTasks(data)
	if err != nil {
		t.Fatalf("DecodeTasks() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}
	if tasks[0].ID != "task-1" || tasks[1].ID != "lab" {
		t.Errorf("IDs = %q, %q", tasks[0].ID, tasks[1].ID)
	}

	_, err = DecodeTasks([]byte(`[{"title": "ok"}, {"type": "PERSONAL"}]`))
	if !errors.Is(err, ErrInvalidTask) {
		t.Errorf("DecodeTasks() error = %v, want ErrInvalidTask", err)
	}

	if _, err := DecodeTasks([]byte(`{not json`)); err == nil {
		t.Error("DecodeTasks() accepted malformed JSON")
	}
}
