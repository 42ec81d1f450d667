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

package registry

import (
	"context"

	"github.com/carverauto/devicesync/pkg/models"
)

//go:generate mockgen -destination=mock_registry.go -package=registry github.com/carverauto/devicesync/pkg/registry Manager,ChangePublisher

// Manager is the entry point used by transports that deliver snapshots.
type Manager interface {
	// ProcessSnapshot reconciles one inventory snapshot against the catalog
	// and returns the committed outcome.
	ProcessSnapshot(ctx context.Context, snapshot *models.Snapshot) (*models.SyncOutcome, error)
}

// ChangePublisher fans committed outcomes out to downstream consumers.
type ChangePublisher interface {
	PublishSyncOutcome(ctx context.Context, outcome *models.SyncOutcome) error
}
