package main

import (
	"fmt"
	"net/http"

	"github.com/workledger/workledger-backend-go/internal/config"
	appHTTP "github.com/workledger/workledger-backend-go/internal/handler/http"
	"github.com/workledger/workledger-backend-go/internal/pkg/database"
	"github.com/workledger/workledger-backend-go/internal/pkg/jwt"
	"github.com/workledger/workledger-backend-go/internal/repository/postgresql"
	analyticsService "github.com/workledger/workledger-backend-go/internal/service/analytics"
	billingService "github.com/workledger/workledger-backend-go/internal/service/billing"
	calendarService "github.com/workledger/workledger-backend-go/internal/service/calendar"
	timerService "github.com/workledger/workledger-backend-go/internal/service/timer"
	timesheetService "github.com/workledger/workledger-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	clientRepo := postgresql.NewClientRepository(db)
	packageRepo := postgresql.NewPackageRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	timerSvc := timerService.NewTimerService(timeEntryRepo, taskRepo)
	entrySvc := timesheetService.NewEntryService(timeEntryRepo, taskRepo)
	calendarSvc := calendarService.NewCalendarService(taskRepo)
	analyticsSvc := analyticsService.NewAnalyticsService(timeEntryRepo, packageRepo, clientRepo, employeeRepo)
	packageSvc := billingService.NewPackageService(packageRepo, clientRepo)

	timerHandler := appHTTP.NewTimerHandler(timerSvc)
	timeEntryHandler := appHTTP.NewTimeEntryHandler(entrySvc)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)
	analyticsHandler := appHTTP.NewAnalyticsHandler(analyticsSvc)
	billingHandler := appHTTP.NewBillingHandler(packageSvc)

	router := appHTTP.NewRouter(
		JWTService,
		timerHandler,
		timeEntryHandler,
		calendarHandler,
		analyticsHandler,
		billingHandler,
		cfg.App.FrontendURL,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
