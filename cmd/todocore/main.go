package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Juhasen/ToDo/internal/alarm"
	"github.com/Juhasen/ToDo/internal/config"
	"github.com/Juhasen/ToDo/internal/notify"
	"github.com/Juhasen/ToDo/internal/repository"
	"github.com/Juhasen/ToDo/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	settings := service.NewSettingsService(settingsRepo)

	var notifier service.Notifier
	if cfg.TelegramToken != "" {
		telegram, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("notifier: %v", err)
		}
		notifier = telegram
	} else {
		notifier = notify.NewLog()
	}

	var dispatcher *service.Dispatcher
	timers := alarm.NewTimer(func(payload service.NotificationPayload) {
		if err := dispatcher.HandleFired(payload); err != nil {
			log.Printf("dispatch: %v", err)
		}
	})
	reminders := service.NewReminderService(timers)
	dispatcher = service.NewDispatcher(reminders, notifier)

	tasks := service.NewTaskService(taskRepo, settings, reminders)

	// Timers do not survive a restart; derive them from the store now and
	// again on a fixed cadence.
	resweep := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := tasks.ResyncReminders(jobCtx); err != nil {
			log.Printf("resweep: %v", err)
		}
	}
	resweep()

	cronSvc := service.NewCronService(time.Local)
	if _, err := cronSvc.ScheduleInterval(cfg.ResweepInterval, resweep); err != nil {
		log.Fatalf("schedule resweep: %v", err)
	}

	digest := service.NewDigestService(tasks, notifier)
	if cfg.DigestTime != "" {
		if _, err := cronSvc.ScheduleDaily(cfg.DigestTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := digest.Send(jobCtx, time.Now()); err != nil {
				log.Printf("digest: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule digest: %v", err)
		}
	}

	cronSvc.Start()
	defer cronSvc.Stop()

	// A changed advance time re-derives every pending wake-up.
	changes, unsubscribe := settings.Subscribe()
	defer unsubscribe()
	go func() {
		for key := range changes {
			if key == service.KeyNotificationAdvanceTime {
				resweep()
			}
		}
	}()

	log.Println("Task core started.")
	<-ctx.Done()
	log.Println("Shutdown complete.")
}
