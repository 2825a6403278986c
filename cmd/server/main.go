package main

import (
	"log"
	"strings"

	"miraapp-backend/internal/audit"
	"miraapp-backend/internal/auth"
	"miraapp-backend/internal/config"
	"miraapp-backend/internal/database"
	"miraapp-backend/internal/erp"
	"miraapp-backend/internal/fason"
	"miraapp-backend/internal/inventory"
	"miraapp-backend/internal/master"
	"miraapp-backend/internal/models"
	"miraapp-backend/internal/scale"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	erpClient := erp.NewClient(cfg)
	log.Println(erpClient)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Kullanıcı yönetimi
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Get("/users", auth.ListUsersHandler())
	adminRoutes.Delete("/users/:id", auth.DeleteUserHandler())

	// Master data silme
	adminRoutes.Delete("/customers/:id", master.DeleteCustomerHandler())
	adminRoutes.Delete("/suppliers/:id", master.DeleteSupplierHandler())
	adminRoutes.Delete("/products/:id", master.DeleteProductHandler())

	// Audit logs
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Planlama yetkisi gerektiren yazma uçları (admin + planlama).
	// Grup middleware'i /api altındaki okuma uçlarını da kapsardı,
	// o yüzden rol kontrolü route bazında takılıyor.
	planningOnly := auth.RequireRole(models.RoleAdmin, models.RolePlanlama)

	// Master data yazma
	protected.Post("/customers", planningOnly, master.CreateCustomerHandler())
	protected.Put("/customers/:id", planningOnly, master.UpdateCustomerHandler())
	protected.Post("/suppliers", planningOnly, master.CreateSupplierHandler())
	protected.Put("/suppliers/:id", planningOnly, master.UpdateSupplierHandler())
	protected.Post("/products", planningOnly, master.CreateProductHandler())
	protected.Put("/products/:id", planningOnly, master.UpdateProductHandler())

	// Fason atölyeleri
	protected.Post("/fason/workshops", planningOnly, fason.CreateWorkshopHandler())
	protected.Put("/fason/workshops/:id", planningOnly, fason.UpdateWorkshopHandler())
	protected.Delete("/fason/workshops/:id", planningOnly, fason.DeleteWorkshopHandler())

	// İş emirleri
	protected.Post("/fason/work-orders", planningOnly, fason.CreateWorkOrderHandler())
	protected.Put("/fason/work-orders/:id", planningOnly, fason.UpdateWorkOrderHandler(erpClient))
	protected.Delete("/fason/work-orders/:id", planningOnly, fason.DeleteWorkOrderHandler())

	// ERP'den iş emri push
	protected.Post("/erp/work-orders", planningOnly, erp.UpsertWorkOrderHandler())

	// Stok hareketi silme
	protected.Delete("/stock-movements/:id", planningOnly, inventory.DeleteMovementHandler())

	// Ortak (auth gerektiren) route'lar

	// Master data okuma
	protected.Get("/customers", master.ListCustomersHandler())
	protected.Get("/customers/:id", master.GetCustomerHandler())
	protected.Get("/suppliers", master.ListSuppliersHandler())
	protected.Get("/suppliers/:id", master.GetSupplierHandler())
	protected.Get("/products", master.ListProductsHandler())

	// Kumaş giriş/çıkış
	protected.Post("/stock-movements", inventory.CreateMovementHandler(erpClient))
	protected.Get("/stock-movements", inventory.ListMovementsHandler())
	protected.Get("/stock-movements/current", inventory.GetCurrentStockHandler())

	// Tartı okuma
	protected.Get("/scale/read", scale.ReadWeightHandler(cfg))

	// Fason takip (mobil uygulama da bu endpointleri kullanır)
	protected.Get("/fason/workshops", fason.ListWorkshopsHandler())
	protected.Get("/fason/work-orders", fason.ListWorkOrdersHandler())
	protected.Get("/fason/work-orders/:id", fason.GetWorkOrderHandler())
	protected.Get("/fason/trackings", fason.ListTrackingsHandler())
	protected.Post("/fason/trackings", fason.CreateTrackingHandler(erpClient))
	protected.Put("/fason/trackings/:id", fason.UpdateTrackingHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
