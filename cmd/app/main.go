package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"wastetrack/cmd"
	httpin "wastetrack/internal/adapters/in/http"
	"wastetrack/internal/adapters/out/postgres/balancerepo"
	"wastetrack/internal/adapters/out/postgres/operationrepo"
	"wastetrack/internal/adapters/out/postgres/routerepo"
	"wastetrack/internal/adapters/out/postgres/wasterepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustOpenDB(configs)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting scheduled jobs: %v", err)
	}
	defer jobManager.StopAll()
	defer app.CloseEventBus()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&wasterepo.WasteRecordDTO{},
		&operationrepo.OperationDTO{},
		&balancerepo.BalanceDTO{},
		&routerepo.RouteProcessDTO{},
		&routerepo.RouteStopDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateExecuteOperationCommandHandler(),
		app.CreateListWasteForSaleCommandHandler(),
		app.CreateCreateRouteProcessCommandHandler(),
		app.CreateStartRouteCommandHandler(),
		app.CreateCompleteStopCommandHandler(),
		app.CreateCancelRouteCommandHandler(),
		app.CreateGetHistoryQueryHandler(),
		app.CreateGetBalanceQueryHandler(),
		app.CreateGetListedWasteQueryHandler(),
		app.RouteEventStream(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
