package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/2beens/traincoach/internal"
	"github.com/2beens/traincoach/internal/config"
	"github.com/2beens/traincoach/internal/logging"
	"github.com/2beens/traincoach/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "coach-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	ipInfoAPIKey := os.Getenv("IP_INFO_API_KEY")
	if ipInfoAPIKey == "" {
		log.Errorf("ip info API key not set, use IP_INFO_API_KEY env var to set it")
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	adminUsername := os.Getenv("TRAINCOACH_ADMIN_USERNAME")
	adminPasswordHash := os.Getenv("TRAINCOACH_ADMIN_PASSWORD_HASH")
	if adminUsername == "" || adminPasswordHash == "" {
		log.Errorf("admin username and password not set. use TRAINCOACH_ADMIN_USERNAME and TRAINCOACH_ADMIN_PASSWORD_HASH")
		adminUsername = "todo"
		adminPasswordHash = "$$2a$$14$$gPDY7P8qGduPi.OKoPKzM.N/MTyZpP.q2tmbprdHH.1jyw7fK3KfW"
	}

	workoutAppSecret := os.Getenv("COACH_LOG_APP_SECRET")
	if workoutAppSecret == "" {
		log.Errorf("workout logger app secret not set. use COACH_LOG_APP_SECRET")
	}

	redisPassword := os.Getenv("TRAINCOACH_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use TRAINCOACH_REDIS_PASS")
	}

	gdriveCredentialsJsonPath := os.Getenv("TRAINCOACH_GDRIVE_CREDS_JSON_PATH")
	if gdriveCredentialsJsonPath == "" {
		log.Warnln("google drive credentials json path not set, history backups will be disabled. use TRAINCOACH_GDRIVE_CREDS_JSON_PATH")
	} else {
		credsFileFound, err := pkg.PathExists(gdriveCredentialsJsonPath, false)
		if err != nil {
			log.Fatalf("check google drive credentials file: %s", err)
		}
		if !credsFileFound {
			log.Fatalf("google drive credentials file not found: %s", gdriveCredentialsJsonPath)
		}
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                    cfg,
			IpInfoAPIKey:              ipInfoAPIKey,
			WorkoutAppSecret:          workoutAppSecret,
			VersionInfo:               versionInfo,
			AdminUsername:             adminUsername,
			AdminPasswordHash:         adminPasswordHash,
			RedisPassword:             redisPassword,
			HoneycombTracingEnabled:   honeycombEnabled,
			GDriveCredentialsJsonPath: gdriveCredentialsJsonPath,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	// go to sleep 🥱
	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
