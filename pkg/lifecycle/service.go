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

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/devicesync/pkg/logger"
)

const defaultShutdownTimeout = 10 * time.Second

var ErrServiceRequired = errors.New("service is required")

// Service is a long-running component driven by RunService. Start must not
// block; background work is tied to the context it receives.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type ServiceOptions struct {
	ServiceName     string
	Service         Service
	Logger          logger.Logger
	ShutdownTimeout time.Duration
}

// RunService starts the service and blocks until ctx is cancelled or SIGINT
// or SIGTERM arrives. Stop runs with its own timeout, also after a failed
// Start.
func RunService(ctx context.Context, opts *ServiceOptions) error {
	if opts == nil || opts.Service == nil {
		return ErrServiceRequired
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error

	if err := opts.Service.Start(runCtx); err != nil {
		runErr = fmt.Errorf("%s start: %w", opts.ServiceName, err)
	} else {
		log.Info().Str("service", opts.ServiceName).Msg("Service started")

		<-runCtx.Done()

		log.Info().Str("service", opts.ServiceName).Msg("Shutdown requested")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := opts.Service.Stop(stopCtx); err != nil {
		log.Error().Err(err).Str("service", opts.ServiceName).Msg("Service stop failed")

		return errors.Join(runErr, fmt.Errorf("%s stop: %w", opts.ServiceName, err))
	}

	log.Info().Str("service", opts.ServiceName).Msg("Service stopped")

	return runErr
}
