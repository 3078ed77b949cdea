package models

import (
	"testing"
	"time"
)

func TestNextDueOneTime(t *testing.T) {
	due := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	task := ScheduledTask{TaskType: ScheduledTaskTypeOneTime, Due: due}
	if got := task.NextDue(); !got.Equal(due) {
		t.Errorf("NextDue() = %v, want stored due %v", got, due)
	}
}

func TestNextDueRecurringAdvances(t *testing.T) {
	rule := "FREQ=MONTHLY;INTERVAL=3"
	task := ScheduledTask{
		TaskType:          ScheduledTaskTypeRecurring,
		Due:               time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		RecurringInterval: &rule,
	}
	next := task.NextDue()
	if !next.After(time.Now()) {
		t.Errorf("NextDue() = %v, want a future occurrence", next)
	}
	if next.Day() != 1 || next.Hour() != 9 {
		t.Errorf("NextDue() = %v, want occurrence aligned with the start time", next)
	}
	if (int(next.Month())-1)%3 != 0 {
		t.Errorf("NextDue() = %v, want a quarterly month", next)
	}
}

func TestNextDueRecurringBadRule(t *testing.T) {
	rule := "not an rrule"
	due := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	task := ScheduledTask{
		TaskType:          ScheduledTaskTypeRecurring,
		Due:               due,
		RecurringInterval: &rule,
	}
	if got := task.NextDue(); !got.Equal(due) {
		t.Errorf("NextDue() = %v, want stored due on bad rule", got)
	}
}
