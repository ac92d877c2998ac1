package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"roxtor-ops/app"
	"roxtor-ops/config"
	"roxtor-ops/database"
	"roxtor-ops/handlers"
	"roxtor-ops/logging"
	"roxtor-ops/middleware"
	"roxtor-ops/radar"
)

func main() {
	cliApp := &cli.App{
		Name:   "roxtor-ops",
		Usage:  "gestión de órdenes, equipo y catálogo de Roxtor",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "inicia la API HTTP",
				Action: serve,
			},
			{
				Name:  "export",
				Usage: "escribe un respaldo completo",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "archivo de destino (- para stdout)", Value: "-"},
					&cli.BoolFlag{Name: "blob", Usage: "codifica el respaldo en base64"},
				},
				Action: exportBackup,
			},
			{
				Name:  "import",
				Usage: "restaura un respaldo, reemplazando todos los datos",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "archivo de respaldo", Required: true},
					&cli.BoolFlag{Name: "blob", Usage: "el archivo está codificado en base64"},
				},
				Action: importBackup,
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.WithError(err).Fatal("roxtor-ops")
	}
}

// openController loads config, connects to Mongo and reads every collection.
// Logs go to logOut.
func openController(ctx context.Context, logOut io.Writer, requireServer bool) (config.Config, *mongo.Client, *app.Controller, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}
	if requireServer {
		err = cfg.RequireServer()
	} else {
		err = cfg.RequireStore()
	}
	if err != nil {
		return cfg, nil, nil, err
	}

	logger := logging.Setup(logOut, cfg.LogLevel, cfg.LogFormat)

	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoName)
	if err != nil {
		return cfg, nil, nil, err
	}
	logger.WithField("database", cfg.MongoName).Info("✅ Conectado a MongoDB")

	ports, err := aiPorts(ctx, cfg, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return cfg, nil, nil, err
	}
	ctrl := app.New(database.NewMongoStore(db), logger, app.WithPorts(ports))
	if err := ctrl.Load(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return cfg, nil, nil, err
	}
	return cfg, client, ctrl, nil
}

func aiPorts(ctx context.Context, cfg config.Config, logger log.FieldLogger) (app.Ports, error) {
	if !cfg.AIEnabled() {
		logger.Warn("⚠️ GEMINI_API_KEY no configurada, funciones de IA deshabilitadas")
		return app.Ports{}, nil
	}
	g, err := radar.NewGemini(ctx, radar.GeminiConfig{
		APIKey:    cfg.GeminiAPIKey,
		LeadModel: cfg.LeadModel,
		TTSModel:  cfg.TTSModel,
		RateModel: cfg.RateModel,
		Voice:     cfg.TTSVoice,
	})
	if err != nil {
		return app.Ports{}, err
	}
	return app.Ports{Extractor: g, Speaker: g, Rates: g, Catalog: g}, nil
}

func serve(c *cli.Context) error {
	cfg, client, ctrl, err := openController(c.Context, os.Stdout, true)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	sessions := middleware.NewSessions(cfg.JWTSecret, cfg.SessionTTL, cfg.Production())
	h := handlers.NewHandler(ctrl, sessions, log.StandardLogger())

	router := gin.New()
	router.Use(logging.RequestLogger(log.StandardLogger()), gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(sessions.Authenticate())
	h.Register(router)

	killSignalChan := getKillSignalChan()
	srv := startServer(":"+cfg.Port, router)
	log.WithFields(log.Fields{"env": cfg.Env, "port": cfg.Port}).Info("🚀 Servidor corriendo")

	waitForKillSignalChan(killSignalChan)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func startServer(addr string, handler http.Handler) *http.Server {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()
	return srv
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func waitForKillSignalChan(killSignalChan <-chan os.Signal) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		log.Info("Got SIGINT...")
	case syscall.SIGTERM:
		log.Info("Got SIGTERM...")
	}
}
