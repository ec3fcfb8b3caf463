package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gorm.io/gorm"

	"github.com/mathacharan30/nutricompare-atme/config"
	"github.com/mathacharan30/nutricompare-atme/controllers"
	"github.com/mathacharan30/nutricompare-atme/middlewares"
	"github.com/mathacharan30/nutricompare-atme/routes"
	"github.com/mathacharan30/nutricompare-atme/services"
	"github.com/mathacharan30/nutricompare-atme/utils"
)

func newServeCmd() *cobra.Command {
	var (
		port        int
		analyzerURL string
		chatbotURL  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if analyzerURL != "" {
				cfg.AnalyzerURL = analyzerURL
			}
			if chatbotURL != "" {
				cfg.ChatbotURL = chatbotURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runApp(cmd.Context(), newApp(cfg))
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "server port (overrides PORT)")
	cmd.Flags().StringVar(&analyzerURL, "analyzer-url", "", "image analysis endpoint (overrides ANALYZER_URL)")
	cmd.Flags().StringVar(&chatbotURL, "chatbot-url", "", "chat service base URL (overrides CHATBOT_URL)")
	return cmd
}

func runApp(ctx context.Context, app *fx.App) error {
	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	sig := <-app.Wait()
	slog.Info("shutting down", "signal", sig.Signal)

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.Stop(stopCtx)
}

func newApp(cfg *config.Config) *fx.App {
	return fx.New(appOptions(cfg))
}

func appOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: slog.Default()}
		}),
		fx.Supply(cfg),
		fx.Provide(
			config.LoadPresentation,
			newDatabase,
			newScanStore,
			newChatStore,
			newAnalyzer,
			newChatClient,
			newLabelDetector,
			newImageStore,
			services.NewRealtimeHub,
			newScanService,
			newChatService,
			newRateLimiter,
			controllers.NewScoreController,
			controllers.NewScanController,
			controllers.NewChatController,
			controllers.NewPresentationController,
			newRealtimeController,
			newRouter,
		),
		fx.Invoke(runHTTPServer),
	)
}

// newDatabase returns nil when no database is configured.
func newDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	if !cfg.DB.Enabled() {
		slog.Warn("DB_HOST not set, keeping scan and chat history in memory")
		return nil, nil
	}
	db, err := config.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}))
	return db, nil
}

func newScanStore(db *gorm.DB) services.ScanStore {
	if db == nil {
		return services.NewMemoryScanStore()
	}
	return &services.GormScanStore{DB: db}
}

func newChatStore(db *gorm.DB) services.ChatStore {
	if db == nil {
		return services.NewMemoryChatStore()
	}
	return &services.GormChatStore{DB: db}
}

func newAnalyzer(cfg *config.Config) services.Analyzer {
	return services.NewAnalyzerService(cfg.AnalyzerURL)
}

func newChatClient(cfg *config.Config) services.ChatClient {
	return services.NewChatbotClient(cfg.ChatbotURL)
}

func newLabelDetector(cfg *config.Config) (services.LabelDetector, error) {
	if !cfg.RekognitionEnabled {
		return nil, nil
	}
	return services.NewRekognitionServiceFromEnv(context.Background(), cfg.AWSRegion)
}

func newImageStore(cfg *config.Config) (services.ImageStore, error) {
	if cfg.S3Bucket == "" {
		return nil, nil
	}
	return utils.NewS3ImageStoreFromEnv(context.Background(), cfg.S3Region, cfg.S3Bucket, cfg.CloudFrontURL)
}

func newScanService(
	cfg *config.Config,
	pres *config.Presentation,
	analyzer services.Analyzer,
	store services.ScanStore,
	labels services.LabelDetector,
	images services.ImageStore,
	hub *services.RealtimeHub,
) *services.ScanService {
	svc := services.NewScanService(analyzer, store, pres, cfg.MaxUploadBytes)
	svc.Labels = labels
	svc.Images = images
	svc.Hub = hub
	return svc
}

func newChatService(cfg *config.Config, pres *config.Presentation, remote services.ChatClient, store services.ChatStore) *services.ChatService {
	return services.NewChatService(remote, store, pres, []byte(cfg.JWTSecret))
}

func newRateLimiter(lc fx.Lifecycle, cfg *config.Config) *middlewares.RateLimiter {
	rl := middlewares.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go rl.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return rl
}

func newRealtimeController(cfg *config.Config, hub *services.RealtimeHub) *controllers.RealtimeController {
	return controllers.NewRealtimeController(hub, cfg.CORSOrigins)
}

type routerParams struct {
	fx.In

	Cfg          *config.Config
	Score        *controllers.ScoreController
	Scan         *controllers.ScanController
	Chat         *controllers.ChatController
	Presentation *controllers.PresentationController
	Realtime     *controllers.RealtimeController
	Limiter      *middlewares.RateLimiter
}

func newRouter(p routerParams) http.Handler {
	return routes.SetupRouter(routes.Deps{
		Score:        p.Score,
		Scan:         p.Scan,
		Chat:         p.Chat,
		Presentation: p.Presentation,
		Realtime:     p.Realtime,
		Limiter:      p.Limiter,
		JWTSecret:    []byte(p.Cfg.JWTSecret),
		CORSOrigins:  p.Cfg.CORSOrigins,
		MaxUpload:    p.Cfg.MaxUploadBytes,
	})
}

func runHTTPServer(lc fx.Lifecycle, cfg *config.Config, handler http.Handler) {
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", server.Addr, err)
			}
			slog.Info("listening", "port", cfg.Port)
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("server closed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
