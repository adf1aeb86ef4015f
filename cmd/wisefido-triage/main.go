package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wisefido-triage/common/database"
	"wisefido-triage/common/logger"
	"wisefido-triage/common/mqtt"
	rediscommon "wisefido-triage/common/redis"
	"wisefido-triage/internal/classifier"
	"wisefido-triage/internal/config"
	httpapi "wisefido-triage/internal/http"
	"wisefido-triage/internal/notify"
	"wisefido-triage/internal/repository"
	"wisefido-triage/internal/service"
	"wisefido-triage/internal/ticket"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Logger
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.ServiceName)
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Storage: Postgres, or memory repositories when DB is disabled/unreachable
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for wisefido-triage")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repositories", zap.Error(err))
		}
	}

	var (
		attendances repository.AttendancesRepository
		patients    repository.PatientsRepository
		symptoms    repository.SymptomsRepository
	)
	if db != nil {
		attendances = repository.NewPostgresAttendancesRepository(db, log)
		patients = repository.NewPostgresPatientsRepository(db, log)
		symptoms = repository.NewPostgresSymptomsRepository(db, log)
	} else {
		attendances = repository.NewMemoryAttendancesRepo()
		patients = repository.NewMemoryPatientsRepo()
		symptoms = repository.NewMemorySymptomsRepo(repository.DefaultSymptomCatalog)
	}

	// 4. Redis: shared ticket counter and event stream
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		client := rediscommon.NewRedisClient(&cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rediscommon.Ping(ctx, client)
		cancel()
		if err == nil {
			redisClient = client
			log.Info("Redis enabled for wisefido-triage", zap.String("addr", cfg.Redis.Addr))
		} else {
			log.Warn("Redis enabled but unreachable, continuing without it", zap.Error(err))
			_ = rediscommon.Close(client)
		}
	}

	// 5. Ticket issuer
	var sequence ticket.Sequence = ticket.NewLocalSequence(attendances)
	if cfg.Ticket.Sequence == config.SequenceRedis {
		if redisClient != nil {
			sequence = ticket.NewRedisSequence(redisClient, cfg.Ticket.RedisKey, attendances)
		} else {
			log.Warn("TICKET_SEQUENCE=redis but Redis is unavailable, using local sequence")
		}
	}
	format := ticket.Format{Prefix: cfg.Ticket.Prefix, Width: cfg.Ticket.Width}
	issuer := ticket.NewIssuer(attendances, sequence, format, log)

	// 6. Event publishers
	var publishers notify.Multi
	if redisClient != nil {
		publishers = append(publishers, notify.NewStreamPublisher(redisClient, cfg.Triage.Stream, cfg.Triage.StreamMaxLen))
	}
	var mqttClient *mqtt.Client
	if cfg.MQTTEnabled {
		if c, err := mqtt.NewClient(&cfg.MQTT); err == nil {
			mqttClient = c
			publishers = append(publishers, notify.NewMQTTPublisher(c, cfg.MQTT.Topic, cfg.MQTT.QoS))
			log.Info("MQTT enabled for wisefido-triage", zap.String("broker", cfg.MQTT.Broker))
		} else {
			log.Warn("MQTT enabled but connection failed, continuing without it", zap.Error(err))
		}
	}

	// 7. Services and routes
	patientSvc := service.NewPatientService(patients, attendances, cfg.Triage.StrictCPF, log)
	symptomSvc := service.NewSymptomService(symptoms, log)
	attendanceSvc := service.NewAttendanceService(
		attendances, patients, symptoms,
		classifier.NewSeverityClassifier(), issuer, publishers,
		service.AttendanceServiceConfig{
			MaxAttempts: cfg.Ticket.MaxAttempts,
			StrictCPF:   cfg.Triage.StrictCPF,
		},
		log,
	)

	router := httpapi.NewRouter(log)
	router.RegisterPatientRoutes(httpapi.NewPatientHandler(patientSvc, log))
	router.RegisterSymptomRoutes(httpapi.NewSymptomHandler(symptomSvc, log))
	router.RegisterAttendanceRoutes(httpapi.NewAttendanceHandler(attendanceSvc, time.Local, log))
	router.RegisterHealthRoutes(httpapi.NewHealthHandler(db, redisClient, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// 8. Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown failed", zap.Error(err))
	}
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	_ = rediscommon.Close(redisClient)
	if db != nil {
		_ = database.Close(db)
	}
	log.Info("wisefido-triage stopped")
}
