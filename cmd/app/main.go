package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/storefront-backend/internal/address"
	"github.com/wichananm65/storefront-backend/internal/cart"
	"github.com/wichananm65/storefront-backend/internal/catalog"
	"github.com/wichananm65/storefront-backend/internal/chat"
	"github.com/wichananm65/storefront-backend/internal/checkout"
	"github.com/wichananm65/storefront-backend/internal/config"
	"github.com/wichananm65/storefront-backend/internal/database"
	"github.com/wichananm65/storefront-backend/internal/deliverytype"
	"github.com/wichananm65/storefront-backend/internal/favorite"
	"github.com/wichananm65/storefront-backend/internal/logger"
	"github.com/wichananm65/storefront-backend/internal/order"
	"github.com/wichananm65/storefront-backend/internal/payment"
	"github.com/wichananm65/storefront-backend/internal/paymenttype"
	"github.com/wichananm65/storefront-backend/internal/product"
	"github.com/wichananm65/storefront-backend/internal/producttype"
	"github.com/wichananm65/storefront-backend/internal/user"
)

const cartTTL = 30 * 24 * time.Hour

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "storefront-backend", Env: cfg.AppEnv, Level: cfg.LogLevel})

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	app := fiber.New(fiber.Config{AppName: "storefront-backend"})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{Output: log.WriterLevel(logrus.InfoLevel)}))
	setupCORS(app, cfg.CORSOrigins)

	// catalog and options
	likes := favorite.NewPostgresRepository(db)
	productService := product.NewService(product.NewPostgresRepository(db)).WithLikes(likes)
	productHandler := product.NewHandler(productService)
	productTypeHandler := producttype.NewHandler(producttype.NewService(producttype.NewPostgresRepository(db)))
	deliveryService := deliverytype.NewService(deliverytype.NewPostgresRepository(db))
	paymentTypeService := paymenttype.NewService(paymenttype.NewPostgresRepository(db))

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, cfg.JWTSecret)
	addressService := address.NewService(address.NewPostgresRepository(db))

	cartStore, closeStore := mustCartStore(cfg, db, log)
	defer closeStore()
	cartService := cart.NewService(cartStore, productService)

	orderService := order.NewService(order.NewPostgresRepository(db))
	vnpay := payment.NewVNPay(payment.Config{
		TmnCode:    cfg.VNPayTmnCode,
		HashSecret: cfg.VNPayHashSecret,
		PayURL:     cfg.VNPayURL,
		ReturnURL:  cfg.VNPayReturnURL,
	})
	paymentHandler := payment.NewHandler(vnpay, orderService, log)

	checkoutHandler := checkout.NewHandler(checkout.NewService(checkout.Deps{
		Addresses:  addressService,
		Deliveries: deliveryService,
		Payments:   paymentTypeService,
		Catalog:    productService,
		Orders:     orderService,
		Links:      vnpay,
		Cart:       cartService,
		Users:      userService,
		Log:        log,
	}))

	chatService := chat.NewService(
		catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout),
		chat.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL),
		cfg.GroqModel,
		log,
	)

	// public routes
	userHandler.RegisterPublicRoutes(app)
	productTypeHandler.RegisterPublicRoutes(app)
	deliverytype.NewHandler(deliveryService).RegisterPublicRoutes(app)
	paymenttype.NewHandler(paymentTypeService).RegisterPublicRoutes(app)
	checkoutHandler.RegisterPublicRoutes(app)
	paymentHandler.RegisterPublicRoutes(app)
	chat.NewHandler(chatService).RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	}))

	userHandler.RegisterProtectedRoutes(app)
	address.NewHandler(addressService).RegisterProtectedRoutes(app)
	cart.NewHandler(cartService).RegisterProtectedRoutes(app)
	favorite.NewHandler(favorite.NewService(likes, productService)).RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	order.NewHandler(orderService).RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.WithError(err).Fatal("listen")
		}
	}()
	log.WithField("addr", cfg.Addr).Info("server started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// mustCartStore picks the cart backend named by CART_STORE.
func mustCartStore(cfg config.Config, db *sql.DB, log *logrus.Entry) (cart.Store, func()) {
	switch cfg.CartStore {
	case "memory":
		log.Warn("cart store is in-memory; carts are lost on restart")
		return cart.NewInMemoryStore(nil), func() {}
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("connect redis")
		}
		return cart.NewRedisStore(client, cartTTL), func() { client.Close() }
	default:
		return cart.NewPostgresStore(db), func() {}
	}
}
