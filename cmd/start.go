package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"csv-importer/core/loader"
	"csv-importer/core/logger"
	"csv-importer/core/middleware/auth"
	"csv-importer/core/middleware/rayid"
	"csv-importer/core/storage"
	"csv-importer/feature/imports"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "csv-importer/docs/swagger"
)

// @title CSV Importer API
// @version 1.0
// @description API for reconciling CSV files with database tables.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the import server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration & Logger
		rt, err := loadRuntime()
		if err != nil {
			log.Fatalf("%v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !rt.cfg.Server.IsValidEmulator() {
			logg.Warn("Unknown emulator for the furniture profile", zap.String("emulator", rt.cfg.Server.Emulator))
		}

		// 2. Connect to Database (Optional)
		if err := rt.connectDatabase(); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			logg.Info("Connected to database", zap.String("driver", rt.cfg.Database.Driver))
		}

		// 3. Initialize Storage
		if err := rt.connectStorage(); err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := storage.EnsureBucket(ctx, rt.client, rt.cfg.Storage.Bucket, rt.cfg.Storage.Region); err != nil {
			logg.Warn("Storage bucket unavailable, reports will not be archived", zap.Error(err))
		}
		cancel()

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             rt.cfg.Server.BodyLimit(),
		})

		// 5. Initialize Feature Loader
		svc, err := rt.importService()
		if err != nil {
			logg.Fatal("Failed to initialize import service", zap.Error(err))
		}

		mgr := loader.NewManager()
		mgr.Register(imports.NewFeature(svc))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		// 6. Load Features
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded",
			zap.Strings("features", loaded),
			zap.Int("profiles", len(svc.Profiles())),
		)

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
