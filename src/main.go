package main

import (
	"context"
	"errors"
	"io"
	"livevibe/src/boot"
	"livevibe/src/config"
	"livevibe/src/events"
	"livevibe/src/lib"
	"livevibe/src/lib/mailer"
	"livevibe/src/middlewares"
	"livevibe/src/orders"
	"livevibe/src/store"
	"livevibe/src/tickets"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiPrefix string = "/api"
)

type services struct {
	orders  *orders.Service
	events  *events.Service
	tickets *tickets.Service
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if config.GetEnvAsBool("MAINTENANCE_MODE", false) {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
	})
	return g
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("notblank", validators.NotBlank)
	}
}

func apiGroup(g *gin.Engine) *gin.RouterGroup {
	return g.Group(apiPrefix)
}

func registerRoutes(router *gin.Engine, svc services) {
	publicTicketHandlers(apiGroup(router), svc.tickets)

	authorized := apiGroup(router)
	authorized.Use(middlewares.AuthMiddleware)
	{
		orderHandlers(authorized, svc.orders)
		ticketPurchaseHandlers(authorized, svc.orders)
		ticketHandlers(authorized, svc.tickets)
	}

	admin := apiGroup(router)
	admin.Use(middlewares.AuthMiddleware, middlewares.RequireRole(config.ROLE_ADMIN))
	{
		adminEventHandlers(admin, svc.events)
	}
}

func newServices(repo *store.Store, notifier mailer.Notifier, cache lib.Cache) services {
	qr := lib.NewQRCodeGenerator()
	ticketOpts := []tickets.Option{}
	if cache != nil {
		ticketOpts = append(ticketOpts, tickets.WithCache(cache, config.GetEnvAsDuration("QRCODE_CACHE_TTL", 24*time.Hour)))
	}
	return services{
		orders: orders.NewService(repo, notifier, qr,
			orders.WithNotifyTimeout(config.GetEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second)),
		),
		events:  events.NewService(repo),
		tickets: tickets.NewService(repo, qr, ticketOpts...),
	}
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := config.GetEnv("LOG_FILE", path.Join(cwd, "logs", "server.log"))
	gin.ForceConsoleColor()

	sink := &lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}
	gin.DefaultWriter = io.MultiWriter(sink, os.Stdout)
	log.SetOutput(io.MultiWriter(sink, os.Stdout))
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	database := boot.InitDb()
	repo := store.New(database)

	notifier, err := mailer.NewFromEnv(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize mailer: %s", err)
	}
	var cache lib.Cache
	if rdb := lib.GetRedisClient(); rdb != nil {
		cache = lib.NewRedisCache(rdb)
	} else {
		log.Println("Redis is not configured, QR codes will not be cached")
	}
	svc := newServices(repo, notifier, cache)

	boot.InitScheduler(svc.orders.SweepOrphanOrders)
	defer boot.StopScheduler()

	router := setupRouter()
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = config.GetAllowedOrigins()
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}

	registerValidators()
	router = maintenanceModeMiddleware(router)
	registerRoutes(router, svc)

	port := config.GetEnv("PORT", "9090")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
