package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/fotopool/fotopool-sessions/config"
	"github.com/fotopool/fotopool-sessions/handlers"
	"github.com/fotopool/fotopool-sessions/health"
	"github.com/fotopool/fotopool-sessions/logging"
)

type App struct {
	Router *gin.Engine
	HTTP   *http.Server

	S3 *s3.Client

	Config    config.Config
	AwsConfig aws.Config

	Services       *Services
	TracerProvider *sdktrace.TracerProvider
	Logger         logging.Logger

	healthy atomic.Bool
	cancel  context.CancelFunc
}

func SetupApp() (*App, error) {
	cfg := config.LoadConfig()

	if err := cfg.AWSConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	awsCfg, err := initAWS(*cfg.AWSConfig)
	if err != nil {
		return nil, err
	}

	appLogger := logging.NewSlogLogger(logging.CreateAppLogger(cfg.Env))

	app := &App{
		S3:        initS3(awsCfg, cfg.AWSConfig.Endpoint),
		Config:    cfg,
		AwsConfig: awsCfg,
		Logger:    appLogger,
	}

	if cfg.Tracing {
		tp, err := InitTracer(context.Background(), "fotopool-sessions", cfg.TracingAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to start tracing: %w", err)
		}
		app.TracerProvider = tp
	}

	app.Services = BuildServices(app)
	app.Router = app.buildRouter()

	return app, nil
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.startReadinessLoop(ctx)

	var handler http.Handler = a.Router
	if a.TracerProvider != nil {
		handler = otelhttp.NewHandler(handler, "fotopool-sessions")
	}

	a.HTTP = &http.Server{
		Addr:    a.Config.ServiceConfig.HTTPAddr,
		Handler: handler,
	}

	return a.HTTP.ListenAndServe()
}

func (a *App) buildRouter() *gin.Engine {
	if a.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(handlers.RequestID())
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprint(recovered)})
	}))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Requested-With"}
	engine.Use(cors.New(corsConfig))

	a.Services.HTTPHandler.Register(engine)

	engine.GET("/healthz", func(c *gin.Context) {
		if !a.healthy.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return engine
}

// startReadinessLoop polls the wired stores and flips the flag served by
// /healthz. Starts pessimistic.
func (a *App) startReadinessLoop(ctx context.Context) {
	a.healthy.Store(false)

	checks := []health.ReadinessCheck{
		a.Services.Stores.blobs,
	}

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ready := true

				for _, c := range checks {
					cctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
					err := c.IsReady(cctx)
					cancel()

					if err != nil {
						a.Logger.Warn("readiness check failed", "check", c.Name(), "error", err)
						ready = false
						break
					}
				}

				a.healthy.Store(ready)
			}
		}
	}()
}

func initAWS(cfg config.AWSConfig) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

func initS3(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

func (a *App) Shutdown(ctx context.Context) error {
	log.Println("starting graceful shutdown")

	if a.cancel != nil {
		a.cancel()
	}

	if a.HTTP != nil {
		if err := a.HTTP.Shutdown(ctx); err != nil {
			log.Printf("http shutdown error: %v", err)
		}
	}

	if a.TracerProvider != nil {
		if err := a.TracerProvider.Shutdown(ctx); err != nil {
			log.Printf("tracer shutdown error: %v", err)
		}
	}

	log.Println("graceful shutdown complete")
	return nil
}
