/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/carverauto/devicesync/pkg/config"
	"github.com/carverauto/devicesync/pkg/consumers/snapshots"
	"github.com/carverauto/devicesync/pkg/db"
	"github.com/carverauto/devicesync/pkg/lifecycle"
	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/natsutil"
	"github.com/carverauto/devicesync/pkg/registry"
	"github.com/carverauto/devicesync/pkg/version"
)

const serviceName = "device-sync"

func main() {
	configPath := flag.String("config", "/etc/devicesync/device-sync.json", "Path to config file")
	flag.Parse()

	if err := run(context.Background(), *configPath); err != nil {
		log.Fatalf("device-sync: %v", err)
	}
}

func run(ctx context.Context, configPath string) error {
	var cfg snapshots.Config

	if err := config.NewConfig(nil).LoadAndValidate(ctx, configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Logging == nil {
		cfg.Logging = logger.DefaultConfig()
	}

	mainLogger, err := lifecycle.CreateComponentLogger(ctx, serviceName, cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			log.Printf("Failed to shut down telemetry: %v", err)
		}
	}()

	mainLogger.Info().Str("version", version.GetFullVersion()).Msg("Starting device-sync")

	initTelemetry(ctx, &cfg, mainLogger)

	pool, err := db.NewCNPGPool(ctx, cfg.CNPG, mainLogger)
	if err != nil {
		return err
	}

	if err := db.RunCNPGMigrations(ctx, pool, mainLogger); err != nil {
		pool.Close()

		return err
	}

	database, err := db.New(pool, mainLogger)
	if err != nil {
		pool.Close()

		return err
	}

	nc, err := natsutil.ConnectWithSecurity(ctx, cfg.NATSURL, cfg.Security, mainLogger)
	if err != nil {
		_ = database.Close()

		return err
	}

	var opts []registry.Option

	if cfg.Events.Enabled {
		publisher, err := natsutil.CreateEventPublisherWithDomain(
			ctx, nc, cfg.Domain, cfg.Events.StreamName, cfg.Events.Subject, mainLogger)
		if err != nil {
			nc.Close()
			_ = database.Close()

			return fmt.Errorf("failed to create event publisher: %w", err)
		}

		opts = append(opts, registry.WithChangePublisher(publisher))
	}

	deviceRegistry := registry.NewDeviceRegistry(database, mainLogger, opts...)

	svc, err := snapshots.NewService(&cfg, deviceRegistry, nc, database, mainLogger)
	if err != nil {
		nc.Close()
		_ = database.Close()

		return err
	}

	return lifecycle.RunService(ctx, &lifecycle.ServiceOptions{
		ServiceName:     serviceName,
		Service:         svc,
		Logger:          mainLogger,
		ShutdownTimeout: time.Duration(cfg.ShutdownTimeout),
	})
}

// initTelemetry wires OTLP metrics and traces when OTel is enabled. Failures
// are logged and the service runs without export.
func initTelemetry(ctx context.Context, cfg *snapshots.Config, log logger.Logger) {
	otelCfg := &cfg.Logging.OTel

	_, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    serviceName,
		OTel:           otelCfg,
		ExportInterval: time.Duration(cfg.Metrics.ExportInterval),
	})
	if err != nil && !errors.Is(err, logger.ErrOTelMetricsDisabled) {
		log.Warn().Err(err).Msg("OTel metrics export disabled")
	}

	if _, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName: serviceName,
		Logger:      log,
		OTel:        otelCfg,
	}); err != nil {
		log.Warn().Err(err).Msg("OTel tracing disabled")
	}
}
