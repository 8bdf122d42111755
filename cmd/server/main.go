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
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/asgardeo/cacheengine/internal/cache/constants"
	"github.com/asgardeo/cacheengine/internal/cache/events"
	"github.com/asgardeo/cacheengine/internal/cache/metrics"
	"github.com/asgardeo/cacheengine/internal/cache/registry"
	"github.com/asgardeo/cacheengine/internal/cache/store"
	"github.com/asgardeo/cacheengine/internal/cert"
	"github.com/asgardeo/cacheengine/internal/managers"
	"github.com/asgardeo/cacheengine/internal/system/config"
	serverconst "github.com/asgardeo/cacheengine/internal/system/constants"
	dbprovider "github.com/asgardeo/cacheengine/internal/system/database/provider"
	"github.com/asgardeo/cacheengine/internal/system/log"
)

const shutdownTimeout = 15 * time.Second

func main() {

	// Initialize the logger.
	if err := log.InitLogger(); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()
	logger := log.GetLogger()

	// Get the cache engine home directory.
	cacheHome := getCacheHome(logger)

	cfg := initConfigurations(logger, cacheHome)

	// Initialize the database provider used by database backed caches.
	dbProvider := dbprovider.NewDBProvider(cfg.Database, cacheHome)

	// Initialize the cache registry and the configured caches.
	cacheRegistry := initCacheRegistry(logger, cfg, cacheHome, dbProvider)

	// Initialize the multiplexer and register services.
	mux := initMultiPlexer(logger, cacheRegistry)

	startServer(logger, cfg, mux, cacheHome, func() {
		if err := cacheRegistry.Shutdown(); err != nil {
			logger.Error("Failed to shut down the cache registry", log.Error(err))
		}
		if err := dbProvider.Close(); err != nil {
			logger.Error("Failed to close the database provider", log.Error(err))
		}
	})
}

// getCacheHome retrieves and returns the cache engine home directory.
func getCacheHome(logger *zap.Logger) string {

	// Parse project directory from command line arguments.
	projectHome := ""
	projectHomeFlag := flag.String("cacheHome", "", "Path to the cache engine home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		logger.Info("Using cacheHome from command line argument", log.String("cacheHome", *projectHomeFlag))
		projectHome = *projectHomeFlag
	} else {
		// If no command line argument is provided, use the current working directory.
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			logger.Fatal("Failed to get current working directory", log.Error(dirErr))
		}
		projectHome = dir
	}

	return projectHome
}

// initConfigurations loads the deployment configurations.
func initConfigurations(logger *zap.Logger, cacheHome string) *config.Config {

	configFilePath := path.Join(cacheHome, serverconst.DeploymentConfigPath)
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		logger.Fatal("Failed to load configurations", log.Error(err))
	}

	return cfg
}

// initCacheRegistry creates the cache registry with every store type and starts the configured caches.
func initCacheRegistry(logger *zap.Logger, cfg *config.Config, cacheHome string,
	dbProvider dbprovider.DBProviderInterface) *registry.CacheRegistry {

	bus := events.NewBus()
	bus.Subscribe(events.AfterCacheRegistration, func(event events.Event) {
		logger.Info("Cache registered", log.String(log.LoggerKeyCacheName, event.CacheName))
	})
	bus.Subscribe(events.BeforeCacheRemoval, func(event events.Event) {
		logger.Info("Cache removed", log.String(log.LoggerKeyCacheName, event.CacheName))
	})

	storeFactories := map[constants.ObjectStoreType]store.Factory{
		constants.ObjectStoreTypeConcurrent: store.NewConcurrentStoreFactory(),
		constants.ObjectStoreTypeFileSystem: store.NewFileSystemStoreFactory(path.Join(cacheHome, "repository/cache")),
		constants.ObjectStoreTypeDatabase:   store.NewDatabaseStoreFactory(dbProvider),
	}

	cacheRegistry := registry.NewCacheRegistry(cacheHome, storeFactories, bus)
	if err := cacheRegistry.Startup(cfg.Cache); err != nil {
		logger.Fatal("Failed to start the configured caches", log.Error(err))
	}
	logger.Info("Cache registry started", log.Strings("caches", cacheRegistry.GetRegisteredCaches()))

	return cacheRegistry
}

// initMultiPlexer initializes the HTTP multiplexer and registers the services.
func initMultiPlexer(logger *zap.Logger, cacheRegistry *registry.CacheRegistry) *http.ServeMux {

	mux := http.NewServeMux()
	gatherer := metrics.NewRegistry(metrics.NewCollector("", cacheRegistry))
	serviceManager := managers.NewServiceManager(mux, cacheRegistry, gatherer)

	// Register the services.
	err := serviceManager.RegisterServices()
	if err != nil {
		logger.Fatal("Failed to register the services", log.Error(err))
	}

	return mux
}

// startServer serves the multiplexer until SIGINT or SIGTERM, then runs the cleanup.
func startServer(logger *zap.Logger, cfg *config.Config, mux *http.ServeMux, cacheHome string, cleanup func()) {

	tlsConfig, err := cert.GetTLSConfig(cfg, cacheHome)
	if err != nil {
		logger.Fatal("Failed to load TLS configuration", log.Error(err))
	}

	// Build the server address using hostname and port from the configurations.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port)

	server := &http.Server{
		Addr:              serverAddr,
		Handler:           mux,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting cache engine server...", log.String("address", serverAddr),
			log.Bool("tls", tlsConfig != nil))
		if tlsConfig != nil {
			serverErr <- server.ListenAndServeTLS("", "")
		} else {
			serverErr <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", log.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutting down cache engine server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down the server gracefully", log.Error(err))
		}
	}

	cleanup()
}
