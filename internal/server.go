package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/2beens/traincoach/internal/auth"
	"github.com/2beens/traincoach/internal/config"
	"github.com/2beens/traincoach/internal/db"
	"github.com/2beens/traincoach/internal/geoip"
	"github.com/2beens/traincoach/internal/middleware"
	"github.com/2beens/traincoach/internal/misc"
	"github.com/2beens/traincoach/internal/telemetry/metrics"
	metricsmiddleware "github.com/2beens/traincoach/internal/telemetry/metrics/middleware"
	"github.com/2beens/traincoach/internal/telemetry/tracing"
	"github.com/2beens/traincoach/internal/training/backup"
	"github.com/2beens/traincoach/internal/training/coach"
	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/periodization"
	"github.com/2beens/traincoach/internal/training/program"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	workoutAppSecret  string // used with the workout logging app
	versionInfo       string

	config        *config.Config
	dbPool        *pgxpool.Pool
	geoIp         *geoip.Api
	quotesManager *misc.QuotesManager

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// nil when google drive credentials are not configured
	historyBackupService *backup.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                    *config.Config
	IpInfoAPIKey              string
	WorkoutAppSecret          string
	VersionInfo               string
	AdminUsername             string
	AdminPasswordHash         string
	RedisPassword             string
	HoneycombTracingEnabled   bool
	GDriveCredentialsJsonPath string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "traincoach_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // will be set to 1 when all is set and ran

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "coach-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	s := &Server{
		config:           params.Config,
		dbPool:           dbPool,
		workoutAppSecret: params.WorkoutAppSecret,
		geoIp: geoip.NewApi(
			params.IpInfoAPIKey,
			tracedHttpClient,
			rdb,
		),
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if params.GDriveCredentialsJsonPath != "" {
		credentialsJson, err := os.ReadFile(params.GDriveCredentialsJsonPath)
		if err != nil {
			return nil, fmt.Errorf("read google drive credentials file: %w", err)
		}
		s.historyBackupService, err = backup.NewService(
			ctx,
			credentialsJson,
			params.Config.GDriveBackupsFolderName,
			history.NewRepo(dbPool),
			metricsManager,
		)
		if err != nil {
			return nil, fmt.Errorf("new history backup service: %w", err)
		}
	} else {
		log.Warnln("google drive credentials not set, history backups disabled")
	}

	quotesCsvFile, err := os.Open(params.Config.QuotesCsvPath)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer func() {
		if err := quotesCsvFile.Close(); err != nil {
			log.Warnf("close quotes csv file: %s", err)
		}
	}()

	s.quotesManager, err = misc.NewQuoteManager(csv.NewReader(quotesCsvFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create quote manager: %s", err)
	}

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.geoIp, s.quotesManager, s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	programRepo := program.NewRepo(s.dbPool)
	historyRepo := history.NewRepo(s.dbPool)

	programHandler := program.NewHandler(
		programRepo,
		historyRepo,
		periodization.NewEngine(),
		s.metricsManager,
	)
	r.HandleFunc("/program", programHandler.HandleSave).Methods("POST", "OPTIONS").Name("save-program")
	r.HandleFunc("/program", programHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-program")
	r.HandleFunc("/program/blocks", programHandler.HandleGetBlocks).Methods("GET", "OPTIONS").Name("get-program-blocks")
	r.HandleFunc("/program/weeks/next", programHandler.HandleGenerateNextWeek).Methods("POST", "OPTIONS").Name("generate-next-week")

	historyHandler := history.NewHandler(historyRepo, s.metricsManager)
	r.HandleFunc("/history", historyHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-history-entry")
	r.HandleFunc("/history/{id}", historyHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-history-entry")
	r.HandleFunc("/history/list/page/{page}/size/{size}", historyHandler.HandleList).Methods("GET", "OPTIONS").Name("list-history-entries")

	coachHandler := coach.NewHandler(programRepo, historyRepo, s.metricsManager)
	r.HandleFunc("/coach/weeks/{weekNumber}/review", coachHandler.HandleWeekReview).Methods("GET", "OPTIONS").Name("week-review")
	r.HandleFunc("/coach/blocks/active/recommendation", coachHandler.HandleActiveBlockRecommendation).Methods("GET", "OPTIONS").Name("block-recommendation")

	var backupHandler *backup.Handler
	if s.historyBackupService != nil {
		backupHandler = backup.NewHandler(s.historyBackupService)
	} else {
		backupHandler = backup.NewHandler(nil)
	}
	r.HandleFunc("/backup/history", backupHandler.HandleBackupHistory).Methods("POST", "OPTIONS").Name("backup-history")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.workoutAppSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metricsmiddleware.
		New(s.promRegistry, nil).
		WrapHandler("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{}),
		))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
