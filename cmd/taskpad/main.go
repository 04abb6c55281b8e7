package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"taskpad/internal/api"
	"taskpad/internal/auth"
	"taskpad/internal/config"
	"taskpad/internal/repository"
	"taskpad/internal/service"
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

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	sessions := service.NewSessionManager()
	rollover := service.NewRolloverEngine(taskRepo, categoryRepo)
	history := service.NewHistoryService(historyRepo)
	taskSvc := service.NewTaskService(sessions, rollover, history, userRepo, taskRepo, categoryRepo)
	noteSvc := service.NewNoteService(noteRepo)

	notifier := auth.NewNotifier()
	unsubscribe := notifier.Subscribe(func(ev auth.Event) {
		if ev.Type == auth.SignedOut {
			taskSvc.SignOut(ev.UserID)
		}
	})
	defer unsubscribe()

	verifier := auth.NewVerifier(cfg.JWTSecret)
	handler := api.NewHandler(taskSvc, noteSvc, notifier)

	app := fiber.New(fiber.Config{AppName: "taskpad"})
	api.SetupRoutes(app, handler, verifier)

	scheduler := service.NewScheduler(time.Local)
	sweep := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sessions.ForEach(func(sess *service.Session) {
			if err := taskSvc.CheckRollover(jobCtx, sess.UserID); err != nil {
				log.Printf("rollover sweep for %s: %v", sess.UserID, err)
			}
		})
	}
	if _, err := scheduler.ScheduleInterval(cfg.SweepInterval, sweep); err != nil {
		log.Fatalf("schedule sweep: %v", err)
	}
	// A second job shortly past midnight keeps long-lived sessions aligned
	// with the day boundary even when the interval sweep just ran.
	if _, err := scheduler.ScheduleDaily("00:01", sweep); err != nil {
		log.Fatalf("schedule midnight sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()
	log.Printf("taskpad listening on %s", cfg.ListenAddr)

	<-ctx.Done()
	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}
