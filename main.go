package main

import (
	"fmt"
	"net/http"
	"taxifleet/auth"
	"taxifleet/config"
	"taxifleet/controllers"
	"taxifleet/database"
	"taxifleet/repositories"
	"taxifleet/services"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"go.uber.org/zap"
)

// requestLogFilter logs one line per request after processing completes.
func requestLogFilter(logger *zap.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		startTime := time.Now()

		chain.ProcessFilter(req, resp)

		logger.Info("Request",
			zap.String("client_ip", req.Request.RemoteAddr),
			zap.String("method", req.Request.Method),
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("user_agent", req.Request.UserAgent()),
			zap.String("path", req.Request.URL.Path),
		)
	}
}

func main() {
	// Initialize configs
	config.InitConfig()

	var logger *zap.Logger
	switch config.AppConfig.LogLevel {
	case "debug":
		logger, _ = zap.NewDevelopment()
	case "info":
		logger, _ = zap.NewProduction()
	default:
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync() // Make sure the buffer is flushed before the program exits

	auth.SetSigningKey([]byte(config.AppConfig.JwtSecret))

	db := database.InitDB()

	manufacturerRepo := repositories.NewManufacturerRepository(db)
	carRepo := repositories.NewCarRepository(db)
	driverRepo := repositories.NewDriverRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)

	manufacturerService := services.NewManufacturerService(manufacturerRepo)
	carService := services.NewCarService(carRepo, manufacturerRepo, driverRepo)
	driverService := services.NewDriverService(driverRepo)
	fleetService := services.NewFleetService(driverRepo, carRepo, manufacturerRepo, sessionRepo)

	container := restful.NewContainer()
	container.Filter(requestLogFilter(logger))

	registerRoutes := []func(ws *restful.WebService){
		controllers.NewFleetController(fleetService, auth.NewLoginHandler(driverRepo)).RegisterRoutes,
		controllers.NewManufacturerController(manufacturerService).RegisterRoutes,
		controllers.NewCarController(carService).RegisterRoutes,
		controllers.NewDriverController(driverService).RegisterRoutes,
	}
	for _, register := range registerRoutes {
		ws := new(restful.WebService)
		register(ws)
		container.Add(ws)
	}

	// OpenAPI description of the whole surface at /apidocs.json
	openAPIConfig := restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
		PostBuildSwaggerObjectHandler: func(swo *spec.Swagger) {
			swo.Info = &spec.Info{
				InfoProps: spec.InfoProps{
					Title:       "Taxi Fleet API",
					Description: "CRUD service for manufacturers, cars, and drivers",
					Version:     "1.0",
				},
			}
		},
	}
	container.Add(restfulspec.NewOpenAPIService(openAPIConfig))

	addr := fmt.Sprintf(":%d", config.AppConfig.HTTPPort)
	logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, container); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
