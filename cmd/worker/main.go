package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hermanar_app/internal/config"
	"hermanar_app/internal/models"
	"hermanar_app/internal/repository"
	"hermanar_app/internal/services"
	"hermanar_app/internal/tasks"
	"hermanar_app/pkg/logger"
)

const pollInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := services.InitDB(cfg.DatabasePath, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := services.EnsureSchema(db); err != nil {
		log.Fatal("failed to ensure schema", zap.Error(err))
	}
	if err := services.Migrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := services.AutoMigrateScheduler(db); err != nil {
		log.Fatal("failed to migrate scheduler tables", zap.Error(err))
	}

	store := repository.NewStore(db)
	dues := repository.NewDueRepository(store)

	registry := tasks.NewRegistry()
	tasks.RegisterDueTasks(registry, dues)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("shutting down worker")
		cancel()
	}()

	log.Info("worker started", zap.Duration("poll_interval", pollInterval))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	processDueTasks(ctx, db, registry, log)
	for {
		select {
		case <-ticker.C:
			processDueTasks(ctx, db, registry, log)
		case <-ctx.Done():
			return
		}
	}
}

func processDueTasks(ctx context.Context, db *gorm.DB, registry *tasks.Registry, log *zap.Logger) {
	var pending []models.ScheduledTask
	err := db.Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, time.Now()).Find(&pending).Error
	if err != nil {
		log.Error("failed to fetch pending tasks", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Info("processing pending tasks", zap.Int("count", len(pending)))
	for _, task := range pending {
		if ctx.Err() != nil {
			return
		}
		executeTask(ctx, db, registry, task, log)
	}
}

func executeTask(ctx context.Context, db *gorm.DB, registry *tasks.Registry, task models.ScheduledTask, log *zap.Logger) {
	handler, found := registry.Get(task.TaskName)
	if !found {
		log.Error("no handler for task", zap.String("task", task.TaskName), zap.Uint("id", task.ID))
		finishTask(db, task, models.ScheduledTaskStatusFailure, "handler_not_found", 0,
			map[string]interface{}{"error": "handler not found"})
		return
	}

	start := time.Now()
	result, err := handler(ctx, task.Arguments)
	elapsed := time.Since(start)

	if err != nil {
		log.Error("task failed", zap.String("task", task.TaskName), zap.Uint("id", task.ID), zap.Error(err))
		finishTask(db, task, models.ScheduledTaskStatusFailure, "error", elapsed.Milliseconds(),
			map[string]interface{}{"error": err.Error()})
		return
	}

	log.Info("task completed",
		zap.String("task", task.TaskName),
		zap.Uint("id", task.ID),
		zap.Duration("runtime", elapsed))

	// Recurring tasks stay active and move to their next occurrence.
	status := models.ScheduledTaskStatusDone
	if task.TaskType == models.ScheduledTaskTypeRecurring {
		next := task.NextDue()
		if next.After(task.Due) {
			status = models.ScheduledTaskStatusActive
			task.Due = next
		}
	}
	finishTask(db, task, status, "success", elapsed.Milliseconds(), result)
}

func finishTask(db *gorm.DB, task models.ScheduledTask, status models.ScheduledTaskStatus, historyStatus string, runtimeMillis int64, result map[string]interface{}) {
	now := time.Now()
	db.Model(&task).Updates(map[string]interface{}{
		"status":   status,
		"last_run": &now,
		"due":      task.Due,
	})

	history := models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           now,
		RuntimeMillis:   runtimeMillis,
		Status:          historyStatus,
		Arguments:       task.Arguments,
		Result:          result,
	}
	db.Create(&history)
}
