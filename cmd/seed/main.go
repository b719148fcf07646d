package main

import (
	"context"
	"time"

	"estate-crm/internal/authz"
	"estate-crm/internal/common/models"
	"estate-crm/internal/config"
	"estate-crm/internal/database"
	"estate-crm/internal/features/county"
	"estate-crm/internal/features/organization"
	"estate-crm/internal/features/user"
	"estate-crm/internal/logger"
	"estate-crm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// chileanCounties is a representative slice of the region/county table. The
// import pipeline resolves sheet county names against these rows.
var chileanCounties = []county.County{
	{Name: "Santiago", RegionID: "13", RegionName: "Metropolitana"},
	{Name: "Providencia", RegionID: "13", RegionName: "Metropolitana"},
	{Name: "Las Condes", RegionID: "13", RegionName: "Metropolitana"},
	{Name: "Ñuñoa", RegionID: "13", RegionName: "Metropolitana"},
	{Name: "La Florida", RegionID: "13", RegionName: "Metropolitana"},
	{Name: "Maipú", RegionID: "13", RegionName: "Metropolitana"},
	{Name: "Puente Alto", RegionID: "13", RegionName: "Metropolitana"},
	{Name: "Valparaíso", RegionID: "5", RegionName: "Valparaíso"},
	{Name: "Viña del Mar", RegionID: "5", RegionName: "Valparaíso"},
	{Name: "Concón", RegionID: "5", RegionName: "Valparaíso"},
	{Name: "Concepción", RegionID: "8", RegionName: "Biobío"},
	{Name: "Talcahuano", RegionID: "8", RegionName: "Biobío"},
	{Name: "San Pedro de la Paz", RegionID: "8", RegionName: "Biobío"},
	{Name: "Temuco", RegionID: "9", RegionName: "La Araucanía"},
	{Name: "Puerto Montt", RegionID: "10", RegionName: "Los Lagos"},
	{Name: "Antofagasta", RegionID: "2", RegionName: "Antofagasta"},
	{Name: "La Serena", RegionID: "4", RegionName: "Coquimbo"},
	{Name: "Coquimbo", RegionID: "4", RegionName: "Coquimbo"},
	{Name: "Rancagua", RegionID: "6", RegionName: "O'Higgins"},
	{Name: "Talca", RegionID: "7", RegionName: "Maule"},
}

// Seed creates the geography table plus a demo organization and admin user.
func Seed(
	lc fx.Lifecycle,
	countyRepo county.CountyRepository,
	orgRepo organization.OrganizationRepository,
	userRepo user.UserRepository,
	zlog *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						zlog.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
				defer cancel()

				zlog.Info("Seeding counties")
				if err := countyRepo.EnsureIndexes(ctx); err != nil {
					zlog.Warn("ensuring county indexes", zap.Error(err))
				}
				if existing, err := countyRepo.List(ctx); err == nil && len(existing) > 0 {
					zlog.Info("Counties already seeded", zap.Int("count", len(existing)))
				} else if err := countyRepo.InsertMany(ctx, chileanCounties); err != nil {
					zlog.Error("Seeding counties failed", zap.Error(err))
					return
				}

				if _, err := userRepo.FindByUsernameGlobal(ctx, "admin"); err == nil {
					zlog.Info("Admin user already exists, nothing to do")
					return
				}

				zlog.Info("Creating demo organization and admin user")
				org := &organization.Organization{
					ID:        primitive.NewObjectID(),
					Name:      "Inmobiliaria Demo",
					Slug:      utils.Slugify("Inmobiliaria Demo"),
					LegalID:   "76.543.210-K",
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}

				hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
				if err != nil {
					zlog.Error("Hashing admin password failed", zap.Error(err))
					return
				}
				admin := &user.User{
					ID:        primitive.NewObjectID(),
					Username:  "admin",
					Password:  string(hash),
					Email:     "admin@demo.cl",
					FirstName: "Admin",
					Status:    "active",
					Role:      authz.RoleAdmin,
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				org.OwnerID = admin.ID

				if err := orgRepo.Create(ctx, org); err != nil {
					zlog.Error("Creating organization failed", zap.Error(err))
					return
				}

				tenantCtx := context.WithValue(ctx, models.TenantIDKey, org.ID.Hex())
				if err := userRepo.Create(tenantCtx, admin); err != nil {
					zlog.Error("Creating admin user failed", zap.Error(err))
					return
				}

				zlog.Info("Seed complete",
					zap.String("organization_id", org.ID.Hex()),
					zap.String("admin", "admin / admin123"))
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,

			county.NewCountyRepository,
			organization.NewOrganizationRepository,
			user.NewUserRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
