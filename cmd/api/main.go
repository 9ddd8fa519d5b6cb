package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpereira88/pipecrm/internal/config"
	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/auth"
	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/handlers"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
	"github.com/jpereira88/pipecrm/internal/infra/mail"
	"github.com/jpereira88/pipecrm/internal/infra/queue"
	"github.com/jpereira88/pipecrm/internal/usecase"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("create upload dir: %v", err)
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer db.Close()

	// The API stays up without the broker; events are skipped and /health
	// reports it.
	broker, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Printf("RabbitMQ unavailable, event publishing disabled: %v", err)
	} else {
		defer broker.Close()
	}

	// 1. Repositories
	store := database.NewStore(db)
	leadRepo := database.NewLeadRepository(db)
	customerRepo := database.NewCustomerRepository(db)
	dealRepo := database.NewDealRepository(db)
	stageRepo := database.NewStageRepository(db)
	productRepo := database.NewProductRepository(db)
	quoteRepo := database.NewQuoteRepository(db)
	taskRepo := database.NewTaskRepository(db)
	userRepo := database.NewUserRepository(db)
	roleRepo := database.NewRoleRepository(db)
	requestRepo := database.NewProductRequestRepository(db)
	analyticsRepo := database.NewAnalyticsRepository(db)

	// 2. Adapters
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)

	var producer usecase.EventPublisher
	if broker != nil {
		producer = queue.NewProducer(broker.Ch)

		// 3. Worker (consumes CRM events and mails the owners)
		worker := queue.NewWorker(broker.Ch, userRepo, mailSender)
		go worker.Start(queue.QueueName)
	}

	// 4. UseCases
	convertLeadUC := usecase.NewConvertLeadUseCase(store, producer)
	setStageUC := usecase.NewSetDealStageUseCase(dealRepo, stageRepo, producer)
	createQuoteUC := usecase.NewCreateQuoteUseCase(store)

	// 5. Handlers
	loginURL := "http://localhost:3000/login"
	if len(cfg.AllowedOrigins) > 0 {
		loginURL = cfg.AllowedOrigins[0] + "/login"
	}

	authHandler := handlers.NewAuthHandler(userRepo, roleRepo, tokens)
	leadHandler := handlers.NewLeadHandler(leadRepo, convertLeadUC)
	dealHandler := handlers.NewDealHandler(dealRepo, setStageUC)
	stageHandler := handlers.NewStageHandler(stageRepo)
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	productHandler := handlers.NewProductHandler(productRepo)
	quoteHandler := handlers.NewQuoteHandler(quoteRepo, createQuoteUC)
	taskHandler := handlers.NewTaskHandler(taskRepo, dealRepo, customerRepo)
	userHandler := handlers.NewUserHandler(userRepo, roleRepo, mailSender, loginURL)
	profileHandler := handlers.NewProfileHandler(userRepo)
	requestHandler := handlers.NewProductRequestHandler(requestRepo, productRepo, cfg.UploadDir)
	dashboardHandler := handlers.NewDashboardHandler(analyticsRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo, leadRepo)
	healthHandler := handlers.NewHealthHandler(db, broker)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "x-auth-token"},
	}))

	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", promhttp.Handler())

	uploadServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", uploadServer.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/complete-setup", authHandler.CompleteSetup)
		r.Get("/auth/permissions/{roleId}", authHandler.Permissions)
		r.Get("/deal-stages", stageHandler.List)
		r.Get("/roles", userHandler.ListRoles)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", leadHandler.List)
				r.Post("/", leadHandler.Create)
				r.Get("/{id}", leadHandler.Get)
				r.Put("/{id}", leadHandler.Update)
				r.Delete("/{id}", leadHandler.Delete)
				r.Post("/{id}/convert", leadHandler.Convert)
			})

			r.Route("/deals", func(r chi.Router) {
				r.Get("/", dealHandler.ListBoard)
				r.Get("/{id}", dealHandler.Get)
				r.Put("/{id}/stage", dealHandler.SetStage)
				r.Post("/{dealId}/products", dealHandler.LinkProduct)
				r.Put("/{dealId}/products/{productId}", dealHandler.UpdateProductQuantity)
				r.Delete("/{dealId}/products/{productId}", dealHandler.UnlinkProduct)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerHandler.List)
				r.Post("/", customerHandler.Create)
				r.Get("/{id}", customerHandler.Get)
				r.Put("/{id}", customerHandler.Update)
				r.Delete("/{id}", customerHandler.Delete)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.List)
				r.Get("/{id}", productHandler.Get)
				r.Delete("/attachments/{attachmentId}", productHandler.DeleteAttachment)
				r.Post("/{productId}/attachments", productHandler.AddAttachment)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(entity.RoleSupervisor, entity.RoleProductManager))
					r.Post("/", productHandler.Create)
					r.Put("/{id}", productHandler.Update)
					r.Delete("/{id}", productHandler.Delete)
				})
			})

			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", quoteHandler.List)
				r.Post("/", quoteHandler.Create)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Get("/form-data", taskHandler.FormData)
				r.Post("/", taskHandler.Create)
				r.Put("/{id}/status", taskHandler.UpdateStatus)
				r.Delete("/{id}", taskHandler.Delete)
			})

			r.Route("/requests", func(r chi.Router) {
				r.Get("/", requestHandler.List)
				r.Get("/{id}", requestHandler.Get)
				r.Post("/", requestHandler.Create)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(entity.RoleSupervisor, entity.RoleProductManager))
					r.Put("/{id}/convert", requestHandler.Convert)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(entity.RoleSupervisor))
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Put("/{id}", userHandler.Update)
				r.Put("/{id}/reset-password", userHandler.ResetPassword)
				r.Delete("/{id}", userHandler.Delete)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Put("/me", profileHandler.Update)
				r.Put("/me/password", profileHandler.ChangePassword)
			})

			r.Get("/dashboard/stats", dashboardHandler.Stats)
			r.Get("/dashboard/sales-chart", dashboardHandler.SalesChart)

			r.Route("/analytics", func(r chi.Router) {
				r.Use(middleware.RequireRole(entity.RoleSupervisor, entity.RoleSalesManager))
				r.Get("/sales-summary", analyticsHandler.SalesSummary)
				r.Get("/lead-funnel", analyticsHandler.LeadFunnel)
				r.Get("/top-reps", analyticsHandler.TopReps)
				r.Get("/top-products", analyticsHandler.TopProducts)
			})
		})
	})

	addr := ":" + cfg.Port
	log.Printf("PipeCRM API listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
