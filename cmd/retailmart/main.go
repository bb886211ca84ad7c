package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/retailmart/retailmart/config"
	"github.com/retailmart/retailmart/internal/auth"
	handler "github.com/retailmart/retailmart/internal/handler/http"
	"github.com/retailmart/retailmart/internal/middleware"
	"github.com/retailmart/retailmart/internal/repository"
	"github.com/retailmart/retailmart/internal/repository/postgres"
	"github.com/retailmart/retailmart/internal/service"
	"github.com/retailmart/retailmart/internal/worker"
	"go.uber.org/zap"
)

// development fallback, override with AUTH_TOKEN_KEY
const defaultAuthTokenKey = "8d7f2c41aa90be35cd4417f306e8a2dc"

const reconcileInterval = time.Minute

// newLogger creates logger with log level
func newLogger(level string) (*zap.Logger, error) {

	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	err = db.Migrate()
	if err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKeyHex := cfg.AuthTokenKey
	if tokenKeyHex == "" {
		tokenKeyHex = defaultAuthTokenKey
	}
	tokenKey, err := hex.DecodeString(tokenKeyHex)
	if err != nil {
		logger.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// dependency injection
	// user
	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, service.NewStrengthChecker())
	userHandler := handler.NewUserHandler(userService)

	// auth
	authService := service.NewAuthService(userRepo, token)
	authHandler := handler.NewAuthHandler(authService)

	// contact
	contactRepo := repository.NewContactRepository(db)
	contactService := service.NewContactService(contactRepo)
	contactHandler := handler.NewContactHandler(contactService)

	// catalog
	catalogRepo := repository.NewCatalogRepository(db)
	catalogService := service.NewCatalogService(catalogRepo)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	// order
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, catalogRepo)
	orderHandler := handler.NewOrderHandler(orderService)

	// run order total reconciler
	reconciler := worker.NewTotalReconciler(orderService, logger, reconcileInterval)
	go reconciler.Run(ctx)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger))

	router.Post("/api/user/register", userHandler.RegisterUser())
	router.Post("/api/user/login", authHandler.LoginUser())
	router.Get("/api/categories", catalogHandler.ListCategories())
	router.Get("/api/companies", catalogHandler.ListCompanies())
	router.Get("/api/products", catalogHandler.ListProducts())
	router.Get("/api/products/{productID}", catalogHandler.GetProduct())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(token))
		group.Get("/api/user/profile", userHandler.GetProfile())
		group.Put("/api/user/profile", userHandler.UpdateProfile())
		group.Put("/api/user/password", userHandler.ChangeUserPassword())

		group.Post("/api/user/contacts", contactHandler.CreateContact())
		group.Get("/api/user/contacts", contactHandler.ListContacts())
		group.Get("/api/user/contacts/{contactID}", contactHandler.GetContact())
		group.Put("/api/user/contacts/{contactID}", contactHandler.UpdateContact())
		group.Delete("/api/user/contacts/{contactID}", contactHandler.DeleteContact())

		group.Post("/api/companies", catalogHandler.CreateCompany())
		group.Post("/api/categories", catalogHandler.CreateCategory())
		group.Post("/api/products", catalogHandler.CreateProduct())
		group.Put("/api/products/{productID}", catalogHandler.UpdateProduct())

		group.Post("/api/orders", orderHandler.CreateOrder())
		group.Get("/api/orders", orderHandler.ListUserOrders())
		group.Get("/api/orders/{orderID}", orderHandler.GetOrder())
		group.Post("/api/orders/{orderID}/items", orderHandler.AddOrderItem())
		group.Put("/api/orders/{orderID}/items/{itemID}", orderHandler.UpdateOrderItem())
		group.Delete("/api/orders/{orderID}/items/{itemID}", orderHandler.DeleteOrderItem())
		group.Post("/api/orders/{orderID}/status", orderHandler.UpdateOrderStatus())
		group.Post("/api/orders/{orderID}/cancel", orderHandler.CancelOrder())
	})

	logger.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Fatal("Error starting server", zap.Error(err))
	}
}
