package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"fitStreakAPI/handlers"
	"fitStreakAPI/internal/config"
	"fitStreakAPI/internal/db"
	"fitStreakAPI/internal/jobs"
	"fitStreakAPI/internal/lock"
	"fitStreakAPI/internal/notification"
	"fitStreakAPI/internal/repository"
	"fitStreakAPI/middleware"
	"fitStreakAPI/services"
)

type app struct {
	cfg         *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	scheduler   *jobs.Scheduler
	rateLimiter *middleware.RateLimiter

	streakHandler       *handlers.StreakHandler
	workoutHandler      *handlers.WorkoutHandler
	dietHandler         *handlers.DietHandler
	waterHandler        *handlers.WaterHandler
	notificationHandler *handlers.NotificationHandler
}

func setupLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err != nil {
		log.WithError(err).Warn("Invalid APP_LOG_LEVEL, falling back to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	clerk.SetKey(cfg.ClerkSecretKey)
	log.Info("Clerk initialized successfully")

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(dbCtx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	a := &app{cfg: cfg, dbPool: pool}

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.RedisAddr != "" {
		client, err := lock.NewRedisClient(dbCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			pool.Close()
			return nil, err
		}
		a.redisClient = client
		locker = lock.NewRedisLocker(client, cfg.LockTTL)
		log.WithField("addr", cfg.RedisAddr).Info("Using Redis streak lock")
	}

	streakRepo := repository.NewStreakRepository(pool)
	workoutRepo := repository.NewWorkoutRepository(pool)
	mealRepo := repository.NewMealRepository(pool)
	waterRepo := repository.NewWaterRepository(pool)
	deviceRepo := repository.NewDeviceRepository(pool)

	pushService := services.NewPushService(deviceRepo)
	fcmService, err := notification.NewFCMService(ctx, cfg.FCMServiceAccountJSON, cfg.FCMCredentialsFile)
	if err != nil {
		log.WithError(err).Warn("Could not initialize FCM, push notifications disabled")
	} else {
		pushService.SetPushProvider(fcmService)
		log.Info("FCM Push Provider initialized successfully")
	}

	streakService := services.NewStreakService(streakRepo, workoutRepo, mealRepo, waterRepo, locker, loc)
	streakService.SetNotifier(pushService)
	streakService.SetReminderThreshold(cfg.StreakReminderThreshold)

	workoutService := services.NewWorkoutService(workoutRepo, streakService)
	dietService := services.NewDietService(mealRepo, streakService, loc)
	waterService := services.NewWaterService(waterRepo, streakService, locker, loc)

	if cfg.FeatureRemindersEnabled {
		a.scheduler = jobs.NewScheduler(streakService, loc)
		if err := a.scheduler.Start(ctx, cfg.StreakReminderCron); err != nil {
			a.close()
			return nil, err
		}
	}

	handlers.SetRequestTimeout(cfg.RequestTimeout)
	a.streakHandler = handlers.NewStreakHandler(streakService)
	a.workoutHandler = handlers.NewWorkoutHandler(workoutService, loc)
	a.dietHandler = handlers.NewDietHandler(dietService, loc)
	a.waterHandler = handlers.NewWaterHandler(waterService, loc)
	a.notificationHandler = handlers.NewNotificationHandler(pushService)
	a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	return a, nil
}

func (a *app) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(a.rateLimiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(a.cfg.MetricsUser, a.cfg.MetricsPass)(promhttp.Handler()))
	r.HandleFunc("/health", a.health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.ClerkAuthMiddleware)

	api.HandleFunc("/workouts", a.workoutHandler.GetWorkouts).Methods("GET")
	api.HandleFunc("/workouts/range", a.workoutHandler.GetWorkoutsInRange).Methods("GET")
	api.HandleFunc("/workouts", a.workoutHandler.CreateWorkout).Methods("POST")
	api.HandleFunc("/workouts/{id}", a.workoutHandler.UpdateWorkout).Methods("PUT")
	api.HandleFunc("/workouts/{id}", a.workoutHandler.DeleteWorkout).Methods("DELETE")

	api.HandleFunc("/diet", a.dietHandler.GetMeals).Methods("GET")
	api.HandleFunc("/diet/range", a.dietHandler.GetMealsInRange).Methods("GET")
	api.HandleFunc("/diet/date/{date}", a.dietHandler.GetMealsByDate).Methods("GET")
	api.HandleFunc("/diet/summary/{date}", a.dietHandler.GetSummary).Methods("GET")
	api.HandleFunc("/diet", a.dietHandler.CreateMeal).Methods("POST")
	api.HandleFunc("/diet/{id}", a.dietHandler.UpdateMeal).Methods("PUT")
	api.HandleFunc("/diet/{id}", a.dietHandler.DeleteMeal).Methods("DELETE")

	api.HandleFunc("/water", a.waterHandler.GetWaterIntake).Methods("GET")
	api.HandleFunc("/water/range", a.waterHandler.GetWaterInRange).Methods("GET")
	api.HandleFunc("/water/today", a.waterHandler.GetTodayWater).Methods("GET")
	api.HandleFunc("/water/weekly", a.waterHandler.GetWeeklyWater).Methods("GET")
	api.HandleFunc("/water", a.waterHandler.SetWater).Methods("POST")
	api.HandleFunc("/water/add-glass", a.waterHandler.AddGlass).Methods("POST")

	api.HandleFunc("/streaks", a.streakHandler.GetStreaks).Methods("GET")
	api.HandleFunc("/streaks/update", a.streakHandler.UpdateStreaks).Methods("PUT")
	api.HandleFunc("/streaks/badge", a.streakHandler.AddBadge).Methods("POST")
	api.HandleFunc("/streaks/available-badges", a.streakHandler.GetAvailableBadges).Methods("GET")
	api.HandleFunc("/streaks/check-badges", a.streakHandler.CheckBadges).Methods("POST")

	api.HandleFunc("/notifications/register-device", a.notificationHandler.RegisterDevice).Methods("POST")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(a.cfg.CORSAllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)
	return corsHandler(r)
}

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := a.dbPool.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "fitStreak-api"}`))
}

func (a *app) close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Redis client")
		}
	}
	log.Info("Closing database connection pool...")
	a.dbPool.Close()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer a.close()

	middleware.InitPrometheus(prometheus.DefaultRegisterer)
	services.RegisterMetrics(prometheus.DefaultRegisterer)

	go a.rateLimiter.CleanupVisitors(ctx)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      a.routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Error starting server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server exited")
}
