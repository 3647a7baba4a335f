package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"task-manager/microservices/api-service/config"
	"task-manager/microservices/api-service/db"
	"task-manager/microservices/api-service/handlers"
	"task-manager/microservices/api-service/logging"
	"task-manager/microservices/api-service/middleware"
	"task-manager/microservices/api-service/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("logs/api.log", "info")
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}
	logging.InitLogger(cfg.LogFile, cfg.LogLevel)

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting API Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	mongoBreaker := gobreaker.NewCircuitBreaker(db.BreakerSettings(func(name string, from, to gobreaker.State) {
		logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
	}))

	store := db.NewStore(client.Database(cfg.MongoDBName), mongoBreaker, cfg.StoreTimeout)
	if err := store.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to ensure unique email index: %v", err)
	}

	taskStore := db.NewTaskStore(store)
	userStore := db.NewUserStore(store)

	taskService := services.NewTaskService(taskStore, userStore)
	userService := services.NewUserService(userStore, taskStore)

	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	r.HandleFunc("/tasks", taskHandler.GetTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)

	r.HandleFunc("/users", userHandler.GetUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", userHandler.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", userHandler.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", userHandler.UpdateUser).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}", userHandler.DeleteUser).Methods(http.MethodDelete)

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	corsRouter := middleware.EnableCORS(r)

	serverAddress := fmt.Sprintf(":%s", cfg.ServerPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
