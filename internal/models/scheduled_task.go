package models

import (
	"time"

	"github.com/teambition/rrule-go"
)

// ScheduledTaskStatus is the lifecycle state of a scheduled task.
type ScheduledTaskStatus string

const (
	ScheduledTaskStatusActive   ScheduledTaskStatus = "active"
	ScheduledTaskStatusDone     ScheduledTaskStatus = "done"
	ScheduledTaskStatusFailure  ScheduledTaskStatus = "failure"
	ScheduledTaskStatusDisabled ScheduledTaskStatus = "disabled"
)

// ScheduledTaskType distinguishes one-shot tasks from recurring ones.
type ScheduledTaskType string

const (
	ScheduledTaskTypeOneTime   ScheduledTaskType = "onetime"
	ScheduledTaskTypeRecurring ScheduledTaskType = "recurring"
)

// ScheduledTask is a persisted request to run a registered task at a given
// time, e.g. the quarterly dues generation. Recurring tasks carry an RRULE
// string and are pushed to their next occurrence after each run.
type ScheduledTask struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TaskName          string                 `gorm:"type:varchar(255)" json:"task_name"`
	Arguments         map[string]interface{} `gorm:"serializer:json" json:"arguments"`
	LastRun           *time.Time             `json:"last_run"`
	Due               time.Time              `gorm:"index:idx_scheduled_tasks_status_due,priority:2" json:"due"`
	RecurringInterval *string                `gorm:"type:text" json:"recurring_interval"`
	Status            ScheduledTaskStatus    `gorm:"type:varchar(20);index:idx_scheduled_tasks_status_due,priority:1" json:"status"`
	TaskType          ScheduledTaskType      `gorm:"type:varchar(20);default:'onetime'" json:"task_type"`
}

// NextDue returns the next occurrence after now for recurring tasks, or the
// stored due time for one-shot tasks and unparseable rules.
func (t ScheduledTask) NextDue() time.Time {
	if t.TaskType != ScheduledTaskTypeRecurring || t.RecurringInterval == nil || *t.RecurringInterval == "" {
		return t.Due
	}
	rule, err := rrule.StrToRRule(*t.RecurringInterval)
	if err != nil {
		return t.Due
	}
	rule.DTStart(t.Due)
	next := rule.After(time.Now(), true)
	if next.IsZero() {
		return t.Due
	}
	return next
}

// ScheduledTaskHistory records one execution of a scheduled task.
type ScheduledTaskHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ScheduledTaskID uint                   `gorm:"index" json:"scheduled_task_id"`
	TaskName        string                 `gorm:"type:varchar(255)" json:"task_name"`
	RunAt           time.Time              `json:"run_at"`
	RuntimeMillis   int64                  `json:"runtime_millis"`
	Status          string                 `gorm:"type:varchar(50)" json:"status"`
	Arguments       map[string]interface{} `gorm:"serializer:json" json:"arguments"`
	Result          map[string]interface{} `gorm:"serializer:json" json:"result"`
}
