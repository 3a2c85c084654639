package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"cup-admin/internal/attendance"
	"cup-admin/internal/auth"
	"cup-admin/internal/catalog"
	"cup-admin/internal/config"
	"cup-admin/internal/mailer"
	"cup-admin/internal/models"
	"cup-admin/internal/quiz"
	"cup-admin/internal/security"
	"cup-admin/internal/storage"
	"cup-admin/internal/user"
	"cup-admin/internal/web"
	"cup-admin/pkg/cache"
	"cup-admin/pkg/database"
	"cup-admin/pkg/logger"
	"cup-admin/pkg/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cfg config.Config) error {
	logger.Setup(cfg.Log.Level)

	db, err := database.NewPostgresDB(&database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
	})
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		return err
	}

	redisCache := cache.NewRedisCache(cfg.Redis.Addr)

	hub := websocket.NewHub()
	go hub.Run()

	var alerts mailer.Mailer
	if cfg.Alerts.SendgridKey != "" {
		alerts = mailer.NewSendgrid(cfg.Alerts.SendgridKey, cfg.Alerts.From, cfg.Alerts.To)
	} else {
		alerts = mailer.NewConsole()
	}
	honeypot := security.NewHoneypot(redisCache, alerts)

	images, err := storage.NewImageStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		return err
	}

	authService := auth.NewService(auth.NewRepository(db), cfg.Auth.JWTSecret)
	authHandler := auth.NewHandler(authService, honeypot)
	userHandler := user.NewHandler(user.NewService(user.NewRepository(db), images, hub))
	attendanceHandler := attendance.NewHandler(attendance.NewService(attendance.NewRepository(db), hub))
	quizHandler := quiz.NewHandler(quiz.NewService(quiz.NewRepository(db), redisCache, hub), images)
	catalogHandler := catalog.NewHandler(catalog.NewService(catalog.NewRepository(db), images, redisCache, hub))

	router := mux.NewRouter()
	router.Use(web.RequestMetrics)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(images.Dir()))))

	// Login and self-registration are the only open endpoints; the school
	// year list feeds the registration form.
	router.HandleFunc("/admin/login", authHandler.Login).Methods(http.MethodPost)
	router.HandleFunc("/register", userHandler.Register).Methods(http.MethodPost)
	router.HandleFunc("/schoolYears", userHandler.ListSchoolYears).Methods(http.MethodGet)

	ostaz := router.PathPrefix("/ostaz").Subrouter()
	ostaz.Use(auth.JWTMiddleware(cfg.Auth.JWTSecret))
	ostaz.Use(auth.RequireRole(models.RoleOstaz, models.RoleAdmin))

	ostaz.HandleFunc("/ws", hub.ServeWS).Methods(http.MethodGet)

	ostaz.HandleFunc("/users", userHandler.List).Methods(http.MethodGet)
	ostaz.HandleFunc("/users", userHandler.Create).Methods(http.MethodPost)
	ostaz.HandleFunc("/users/bulk", userHandler.CreateBulk).Methods(http.MethodPost)
	ostaz.HandleFunc("/users/coins", userHandler.ListByCoins).Methods(http.MethodGet)
	ostaz.HandleFunc("/users/leaderboard/show/{id}", userHandler.ShowInLeaderboard).Methods(http.MethodPatch)
	ostaz.HandleFunc("/users/leaderboard/hide/{id}", userHandler.HideFromLeaderboard).Methods(http.MethodPatch)
	ostaz.HandleFunc("/users/{username}", userHandler.Get).Methods(http.MethodGet)
	ostaz.HandleFunc("/users/{username}", userHandler.Delete).Methods(http.MethodDelete)
	ostaz.HandleFunc("/users/{username}/coins/add", userHandler.AddCoins).Methods(http.MethodPost)
	ostaz.HandleFunc("/users/{username}/coins/remove", userHandler.RemoveCoins).Methods(http.MethodPost)
	ostaz.HandleFunc("/users/{username}/change-password", userHandler.ChangePassword).Methods(http.MethodPost)
	ostaz.HandleFunc("/users/{username}/confirm", userHandler.Confirm).Methods(http.MethodPost)
	ostaz.HandleFunc("/users/{username}/change-image", userHandler.ChangeImage).Methods(http.MethodPut)
	ostaz.HandleFunc("/school-years", userHandler.ListSchoolYears).Methods(http.MethodGet)

	ostaz.HandleFunc("/attendances", attendanceHandler.List).Methods(http.MethodGet)
	ostaz.HandleFunc("/attendances/bulk", attendanceHandler.CreateBulk).Methods(http.MethodPost)
	ostaz.HandleFunc("/attendances/{id}", attendanceHandler.Approve).Methods(http.MethodPatch)
	ostaz.HandleFunc("/attendances/{id}", attendanceHandler.Delete).Methods(http.MethodDelete)

	ostaz.HandleFunc("/quizzes", quizHandler.List).Methods(http.MethodGet)
	ostaz.HandleFunc("/quizzes", quizHandler.Create).Methods(http.MethodPost)
	ostaz.HandleFunc("/quizzes/upload", quizHandler.UploadURL).Methods(http.MethodGet)
	ostaz.HandleFunc("/quizzes/upload", quizHandler.Upload).Methods(http.MethodPost)
	ostaz.HandleFunc("/quizzes/{slug}", quizHandler.Get).Methods(http.MethodGet)
	ostaz.HandleFunc("/quizzes/{id:[0-9]+}", quizHandler.Update).Methods(http.MethodPatch)
	ostaz.HandleFunc("/quizzes/{id:[0-9]+}", quizHandler.Delete).Methods(http.MethodDelete)
	ostaz.HandleFunc("/responses/{answerId}/correct", quizHandler.CorrectAnswer).Methods(http.MethodPatch)

	ostaz.HandleFunc("/buttons-visibility", catalogHandler.ListControls).Methods(http.MethodGet)
	ostaz.HandleFunc("/buttons-visibility/{name}/{visible:[01]}", catalogHandler.SetControl).Methods(http.MethodPut)

	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(auth.JWTMiddleware(cfg.Auth.JWTSecret))
	admin.Use(auth.RequireRole(models.RoleAdmin))

	admin.HandleFunc("/admins", authHandler.ListAdmins).Methods(http.MethodGet)
	admin.HandleFunc("/admins", authHandler.CreateAdmin).Methods(http.MethodPost)
	admin.HandleFunc("/admins/{id}", authHandler.GetAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/admins/{id}", authHandler.UpdateAdmin).Methods(http.MethodPatch)
	admin.HandleFunc("/admins/{id}", authHandler.DeleteAdmin).Methods(http.MethodDelete)
	admin.HandleFunc("/school-years", authHandler.ListSchoolYears).Methods(http.MethodGet)

	admin.HandleFunc("/icons", catalogHandler.ListIcons).Methods(http.MethodGet)
	admin.HandleFunc("/icons", catalogHandler.CreateIcon).Methods(http.MethodPost)
	admin.HandleFunc("/icons/{id}/update", catalogHandler.UpdateIcon).Methods(http.MethodPost)
	admin.HandleFunc("/icons/{id}", catalogHandler.DeleteIcon).Methods(http.MethodDelete)

	admin.HandleFunc("/players", catalogHandler.ListPlayers).Methods(http.MethodGet)
	admin.HandleFunc("/players", catalogHandler.CreatePlayer).Methods(http.MethodPost)
	admin.HandleFunc("/players/{id}", catalogHandler.UpdatePlayer).Methods(http.MethodPut)
	admin.HandleFunc("/players/{id}", catalogHandler.DeletePlayer).Methods(http.MethodDelete)

	admin.HandleFunc("/prices", catalogHandler.ListPrices).Methods(http.MethodGet)
	admin.HandleFunc("/prices", catalogHandler.CreatePrice).Methods(http.MethodPost)
	admin.HandleFunc("/prices/{id}", catalogHandler.UpdatePrice).Methods(http.MethodPut)
	admin.HandleFunc("/prices/{id}", catalogHandler.DeletePrice).Methods(http.MethodDelete)

	// The honeypot wraps the whole router so probes to unrouted paths
	// still get caught.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(honeypot.Middleware(router))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.SchoolYear{},
		&models.User{},
		&models.Admin{},
		&models.Attendance{},
		&models.Icon{},
		&models.Player{},
		&models.Price{},
		&models.Control{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.Response{},
		&models.Answer{},
	)
}
