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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicesync/pkg/logger"
)

func TestCreateComponentLogger(t *testing.T) {
	t.Parallel()

	log, err := CreateComponentLogger(context.Background(), "device-sync", &logger.Config{Level: "warn"})
	require.NoError(t, err)

	assert.False(t, log.Info().Enabled())
	assert.True(t, log.Warn().Enabled())

	log.SetDebug(true)
	assert.True(t, log.Debug().Enabled())
}

func TestNewLoggerImplInvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := NewLoggerImpl(context.Background(), &logger.Config{Level: "loud"})

	require.Error(t, err)
}

func TestLoggerImplSetLevel(t *testing.T) {
	t.Parallel()

	impl, err := NewLoggerImpl(context.Background(), &logger.Config{})
	require.NoError(t, err)

	impl.SetLevel(zerolog.ErrorLevel)

	assert.False(t, impl.Warn().Enabled())
	assert.True(t, impl.Error().Enabled())
}
