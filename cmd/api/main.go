package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "estate-crm/internal/common/api"
	"estate-crm/internal/config"
	"estate-crm/internal/connectors"
	"estate-crm/internal/database"
	"estate-crm/internal/features/auth"
	"estate-crm/internal/features/client"
	"estate-crm/internal/features/county"
	"estate-crm/internal/features/importer"
	"estate-crm/internal/features/notification"
	"estate-crm/internal/features/organization"
	"estate-crm/internal/features/project"
	"estate-crm/internal/features/quotation"
	"estate-crm/internal/features/report"
	"estate-crm/internal/features/sync"
	"estate-crm/internal/features/unit"
	"estate-crm/internal/features/user"
	"estate-crm/internal/logger"
	"estate-crm/internal/middleware"
	"estate-crm/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx collects it into the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every collected route.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer runs Fiber in a goroutine and shuts it down with the app.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures database indexes exist shortly after startup.
func InitializeIndexes(
	lc fx.Lifecycle,
	zlog *zap.Logger,
	projectRepo project.ProjectRepository,
	unitRepo unit.UnitRepository,
	clientRepo client.ClientRepository,
	quotationRepo quotation.QuotationRepository,
	countyRepo county.CountyRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				ensure := func(name string, fn func(context.Context) error) {
					if err := fn(ctx); err != nil {
						zlog.Warn("failed to ensure indexes", zap.String("collection", name), zap.Error(err))
					}
				}
				ensure("projects", projectRepo.EnsureIndexes)
				ensure("units", unitRepo.EnsureIndexes)
				ensure("clients", clientRepo.EnsureIndexes)
				ensure("quotations", quotationRepo.EnsureIndexes)
				ensure("counties", countyRepo.EnsureIndexes)
			}()
			return nil
		},
	})
}

// StartJanitor ties the import-job purge schedule to the app lifecycle.
func StartJanitor(lc fx.Lifecycle, janitor *importer.Janitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return janitor.Start()
		},
		OnStop: func(ctx context.Context) error {
			janitor.Stop()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			organization.NewOrganizationRepository,
			user.NewUserRepository,
			county.NewCountyRepository,
			project.NewProjectRepository,
			unit.NewUnitRepository,
			client.NewClientRepository,
			quotation.NewQuotationRepository,
			report.NewReportRepository,
			importer.NewImportJobRepository,
			sync.NewSyncSettingRepository,

			// Services
			auth.NewAuthService,
			user.NewUserService,
			project.NewProjectService,
			unit.NewUnitService,
			client.NewClientService,
			quotation.NewQuotationService,
			report.NewReportService,
			importer.NewAnalyzer,
			importer.NewApplier,
			importer.NewImportService,
			importer.NewJanitor,
			sync.NewSyncService,
			notification.NewHub,

			// Narrow interface adapters
			func(s user.UserService) middleware.PrincipalSource { return s },
			func(r project.ProjectRepository) importer.ProjectStore { return r },
			func(r county.CountyRepository) importer.CountyStore { return r },
			func(h *notification.Hub) importer.Notifier { return h },
			func() sync.SourceFactory {
				return func() connectors.ListingSource { return connectors.NewSQLListingSource() }
			},

			// Controllers
			auth.NewAuthController,
			user.NewUserController,
			project.NewProjectController,
			unit.NewUnitController,
			client.NewClientController,
			quotation.NewQuotationController,
			organization.NewOrganizationController,
			importer.NewImportController,
			sync.NewSyncController,

			// Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(organization.NewOrganizationApi),
			AsRoute(county.NewCountyApi),
			AsRoute(project.NewProjectApi),
			AsRoute(unit.NewUnitApi),
			AsRoute(client.NewClientApi),
			AsRoute(quotation.NewQuotationApi),
			AsRoute(report.NewReportApi),
			AsRoute(importer.NewImportApi),
			AsRoute(sync.NewSyncApi),
			AsRoute(notification.NewNotificationApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartJanitor,
			InitializeIndexes,
		),
	)

	app.Run()
}
