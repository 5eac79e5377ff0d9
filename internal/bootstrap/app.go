package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-tracker/internal/auth"
	"resume-tracker/internal/resumes"
	"resume-tracker/internal/services/health"
	"resume-tracker/internal/shared/config"
	"resume-tracker/internal/shared/server"
	"resume-tracker/internal/shared/storage/db"
	"resume-tracker/internal/users"
)

// App holds shared dependencies built once at startup.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	UsersRepo   users.Repo
	ResumesRepo resumes.Repo

	UsersService   *users.Service
	ResumesService *resumes.Service
	HealthService  *health.Service

	UsersHandler   *users.Handler
	ResumesHandler *resumes.Handler
	GoogleAuth     *googleauth.GoogleService
}

// Build prepares the full dependency graph and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		HealthService:  app.HealthService,
		UsersHandler:   app.UsersHandler,
		ResumesHandler: app.ResumesHandler,
		GoogleAuth:     app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildServices(app *App) {
	var userRepo users.Repo
	var resumeRepo resumes.Repo

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		memUsers := users.NewMemoryRepo()
		userRepo = memUsers
		resumeRepo = resumes.NewMemoryRepo(userNameResolver{repo: memUsers})
	}

	userSvc := users.NewService(userRepo)
	resumeSvc := resumes.NewService(resumeRepo)

	app.UsersRepo = userRepo
	app.ResumesRepo = resumeRepo
	app.UsersService = userSvc
	app.ResumesService = resumeSvc
	app.HealthService = health.NewService(app.DB)
	app.UsersHandler = users.NewHandler(userSvc)
	app.ResumesHandler = resumes.NewHandler(resumeSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)
}

// userNameResolver lets the in-memory resume store denormalize owner and
// recruiter display names the way the SQL joins do.
type userNameResolver struct {
	repo users.Repo
}

func (r userNameResolver) DisplayName(ctx context.Context, userID string) (string, error) {
	user, err := r.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
