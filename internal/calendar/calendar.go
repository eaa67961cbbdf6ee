// Package calendar loads academic calendars (exam dates with a fixed stress
// score) and turns them into tasks.
package calendar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/studypulse/pulse/internal/workload"
)

// DefaultDescription is used for entries without a description.
const DefaultDescription = "Official University Examination"

// Entry is one dated calendar item.
type Entry struct {
	Title       string `yaml:"title" json:"title" validate:"required"`
	Date        string `yaml:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Score       int    `yaml:"score" json:"score" validate:"gte=0,lte=100"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

var validate = validator.New()

// Load reads a YAML list of entries from fs.
func Load(fs afero.Fs, path string) ([]Entry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML list of entries.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	if err := Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Validate trims titles in place and checks every entry.
func Validate(entries []Entry) error {
	var errs []error
	for i := range entries {
		entries[i].Title = strings.TrimSpace(entries[i].Title)
		if err := validate.Struct(entries[i]); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%q): %w", i, entries[i].Title, err))
		}
	}
	return errors.Join(errs...)
}

// ToTask converts an entry into a task for ownerID. With a class the task is
// institutional; without one it is a personal task that counts toward pulse.
func (e Entry) ToTask(ownerID, classID string) workload.Task {
	desc := e.Description
	if desc == "" {
		desc = DefaultDescription
	}

	t := workload.Task{
		Title:          e.Title,
		Description:    desc,
		Kind:           workload.KindPersonal,
		OwnerID:        ownerID,
		StressScore:    e.Score,
		IncludeInPulse: true,
	}
	if classID != "" {
		t.Kind = workload.KindInstitutional
		t.ClassID = classID
	}
	if d, err := workload.ParseDate(e.Date); err == nil {
		t.DueDate = &d
	}
	return t
}

// Default returns the built-in university exam calendar.
func Default() []Entry {
	return []Entry{
		{Title: "CIA I - Odd Sem", Date: "2025-08-16", Score: 75},
		{Title: "CIA II - Odd Sem", Date: "2025-09-25", Score: 75},
		{Title: "CIA III - Odd Sem", Date: "2025-11-03", Score: 80},
		{Title: "Odd Semester Exam", Date: "2025-11-17", Score: 95},
		{Title: "CIA I - Even Sem", Date: "2026-02-11", Score: 75},
		{Title: "CIA II - Even Sem", Date: "2026-03-12", Score: 75},
		{Title: "CIA III - Even Sem", Date: "2026-04-22", Score: 80},
		{Title: "Even Semester Exam", Date: "2026-05-11", Score: 95},
	}
}
