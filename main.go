package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"

	"schoolku_backend/internals/configs"
	database "schoolku_backend/internals/databases"
	paymentService "schoolku_backend/internals/features/finance/payments/service"
	scheduler "schoolku_backend/internals/features/users/auth/scheduler"
	authService "schoolku_backend/internals/features/users/auth/service"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/reporter"
	"schoolku_backend/internals/helpers/storage"
	middlewares "schoolku_backend/internals/middlewares"
	routes "schoolku_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	if configs.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET requis")
	}

	reporter.Init()
	defer reporter.Default.Close()

	app := fiber.New(middlewares.AppConfig(reporter.Default))
	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	if configs.DBAutoMigrate {
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatalf("❌ AutoMigrate: %v", err)
		}
	}

	configs.InitRedis()
	blacklist := helperAuth.NewBlacklist(database.DB, configs.RDB, configs.JWTSecret)

	// A nil *MidtransGateway stored in the interface would not compare to nil.
	var gateway paymentService.Gateway
	if g := paymentService.NewMidtransGateway(configs.MidtransServerKey, configs.MidtransUseProd); g != nil {
		gateway = g
		log.Println("✅ Midtrans activé")
	} else {
		log.Println("⚠️ MIDTRANS_SERVER_KEY non défini, paiement en ligne désactivé")
	}

	store := storage.FromEnv()

	// ⏱ scheduler after the DB is ready
	jobs := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := scheduler.RegisterBlacklistCleanup(jobs, database.DB, configs.BlacklistTTLDays); err != nil {
		log.Fatalf("❌ cron blacklist: %v", err)
	}
	if _, err := storage.RegisterTrashReaper(jobs, database.DB, store, configs.TrashCronSchedule, configs.TrashRetentionDays); err != nil {
		log.Fatalf("❌ cron trash reaper (%s): %v", configs.TrashCronSchedule, err)
	}
	jobs.Start()

	routes.SetupRoutes(app, routes.Deps{
		DB:        database.DB,
		Blacklist: blacklist,
		Google:    authService.NewGoogleVerifier(configs.GoogleClientID),
		Gateway:   gateway,
		Store:     store,
		Secret:    configs.JWTSecret,
		ServerKey: configs.MidtransServerKey,
	})

	// 🔒 Keep-Alive & connection timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", configs.Port)
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown, then stop cron and close the DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] Arrêt en cours...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	<-jobs.Stop().Done()

	if configs.RDB != nil {
		_ = configs.RDB.Close()
	}
	database.Close()
}
