/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wso2/user-profile-service/internal/events/broker"
	healthService "github.com/wso2/user-profile-service/internal/health_check/service"
	profileService "github.com/wso2/user-profile-service/internal/profile/service"
	"github.com/wso2/user-profile-service/internal/profile/store"
	"github.com/wso2/user-profile-service/internal/system/authn"
	"github.com/wso2/user-profile-service/internal/system/cache"
	"github.com/wso2/user-profile-service/internal/system/config"
	"github.com/wso2/user-profile-service/internal/system/constants"
	"github.com/wso2/user-profile-service/internal/system/log"
	"github.com/wso2/user-profile-service/internal/system/managers"
	"github.com/wso2/user-profile-service/internal/system/metrics"
	"github.com/wso2/user-profile-service/internal/system/workers"
)

func main() {

	home := getServiceHome()

	envFiles, err := filepath.Glob(filepath.Join(home, constants.DefaultEnvGlob))
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	cfg, err := config.LoadConfig(home, constants.DefaultConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(cfg.Log.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()
	defer logger.Sync()

	// Initialize runtime configurations.
	if err := config.InitializeRuntime(home, cfg); err != nil {
		logger.Fatal("Failed to initialize runtime", log.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, repo := connectStore(ctx, cfg.Mongo, logger)
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Warn("Failed to disconnect from MongoDB", log.Error(err))
		}
	}()

	brokerClient, err := broker.Connect(cfg.Broker, logger)
	if err != nil {
		logger.Fatal("Failed to connect to the message broker", log.Error(err))
	}
	defer brokerClient.Close()
	if err := brokerClient.EnsureStream(ctx); err != nil {
		logger.Warn("Event stream is not available yet, continuing without it", log.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	var profileCache profileService.ProfileCache
	if cfg.Cache.Enabled {
		redisClient := cache.NewRedisClient(cfg.Cache)
		defer closeRedis(redisClient, logger)
		redisCache := cache.NewProfileCache(redisClient, cfg.Cache.TTL)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("Profile cache is unreachable, lookups will fall back to MongoDB", log.Error(err))
		}
		profileCache = redisCache
	}

	profiles := profileService.NewProfilesService(profileService.Options{
		Store:     repo,
		Publisher: brokerClient,
		Cache:     profileCache,
		Policy:    cfg.Broker.PublishPolicy,
		Logger:    logger,
		Metrics:   collector,
	})

	worker := workers.NewIdentityEventWorker(brokerClient, profiles, logger, collector)
	if err := worker.Start(ctx); err != nil {
		logger.Fatal("Failed to start the identity event worker", log.Error(err))
	}
	defer worker.Stop()

	serviceManager := managers.NewServiceManager(managers.Dependencies{
		Profiles:      profiles,
		Health:        healthService.NewHealthCheckService(repo, brokerClient),
		Authenticator: authn.NewAuthenticator(cfg.Auth),
		Service:       config.GetRuntime().Config.Service,
		Auth:          cfg.Auth,
		Logger:        logger,
		Metrics:       collector,
		Gatherer:      registry,
	})
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		logger.Fatal("Failed to register the services", log.Error(err))
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Addr.Host, cfg.Addr.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: serviceManager.Handler(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("User profile service starting",
			log.String("address", serverAddr),
			log.String("version", cfg.Service.Version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("Failed to serve requests", log.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server did not shut down cleanly", log.Error(err))
	}
	logger.Info("User profile service stopped")
}

// connectStore opens the MongoDB client and prepares the profile collection.
func connectStore(ctx context.Context, cfg config.MongoConfig, logger *log.Logger) (*mongo.Client,
	*store.ProfileRepository) {

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout))
	if err != nil {
		logger.Fatal("Failed to create the MongoDB client", log.Error(err))
	}

	repo := store.NewProfileRepository(client.Database(cfg.Database), cfg.Collection, cfg.Timeout)
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure profile indexes", log.Error(err))
	}
	logger.Info("MongoDB client initialized",
		log.String("database", cfg.Database),
		log.String("collection", cfg.Collection))
	return client, repo
}

func closeRedis(client *redis.Client, logger *log.Logger) {
	if err := client.Close(); err != nil {
		logger.Warn("Failed to close the cache client", log.Error(err))
	}
}

func getServiceHome() string {

	// Parse project directory from command line arguments.
	homeFlag := flag.String("home", "", "Path to the user profile service home directory")
	flag.Parse()

	if *homeFlag != "" {
		return *homeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	return dir
}
