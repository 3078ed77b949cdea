// Command schedule_task enqueues a dues-generation task for the worker, either
// one-shot at a given time or recurring via an RRULE.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"hermanar_app/internal/config"
	"hermanar_app/internal/models"
	"hermanar_app/internal/services"
	"hermanar_app/internal/tasks"
	"hermanar_app/pkg/logger"
)

func main() {
	amount := flag.Float64("amount", 0, "due amount per member (mandatory)")
	year := flag.Int("year", 0, "year to generate for (optional, defaults to the run's current year)")
	quarter := flag.Int("quarter", 0, "quarter to generate for (optional, defaults to the run's current quarter)")
	dueStr := flag.String("due", "", "when to run (mandatory, RFC3339 or '2006-01-02 15:04' local)")
	recurring := flag.String("recurring", "", "RRULE recurrence (optional, e.g. FREQ=MONTHLY;INTERVAL=3)")
	flag.Parse()

	if *amount <= 0 || *dueStr == "" {
		fmt.Println("Usage: schedule_task -amount <value> -due <when> [-year N] [-quarter N] [-recurring RRULE]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	due, err := time.Parse(time.RFC3339, *dueStr)
	if err != nil {
		due, err = time.ParseInLocation("2006-01-02 15:04", *dueStr, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid due date, use RFC3339 or '2006-01-02 15:04': %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := services.InitDB(cfg.DatabasePath, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := services.AutoMigrateScheduler(db); err != nil {
		log.Fatal("failed to migrate scheduler tables", zap.Error(err))
	}

	args := map[string]interface{}{"amount": *amount}
	if *year > 0 {
		args["year"] = *year
	}
	if *quarter > 0 {
		args["quarter"] = *quarter
	}

	taskType := models.ScheduledTaskTypeOneTime
	var recurringPtr *string
	if *recurring != "" {
		taskType = models.ScheduledTaskTypeRecurring
		recurringPtr = recurring
	}

	task, err := tasks.BuildScheduledTask(tasks.TaskGenerateQuarterDues, args, due, recurringPtr, taskType)
	if err != nil {
		log.Fatal("failed to build task", zap.Error(err))
	}
	if err := db.Create(task).Error; err != nil {
		log.Fatal("failed to save task", zap.Error(err))
	}

	log.Info("task scheduled",
		zap.Uint("id", task.ID),
		zap.Time("due", task.Due),
		zap.String("type", string(task.TaskType)))
}
