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

// Package db implements the PostgreSQL device catalog.
package db

import (
	"context"

	"github.com/carverauto/devicesync/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/devicesync/pkg/db Service,Tx

// Service is the catalog entry point. All reads and writes happen inside a
// transaction obtained from WithTx.
type Service interface {
	// WithTx runs fn inside one transaction and commits when fn returns nil.
	// fn may be invoked more than once when the transaction hits a transient
	// error, so it must not keep state between invocations.
	WithTx(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Tx is the set of catalog operations available inside a transaction.
//
// Lookups return (nil, nil) when nothing matches.
type Tx interface {
	// Savepoint runs fn inside a nested transaction. When fn fails the work
	// done by fn is rolled back and the enclosing transaction stays usable.
	Savepoint(ctx context.Context, fn func(Tx) error) error

	// Device lookups.

	GetDeviceByID(ctx context.Context, id int64) (*models.Device, error)
	GetDeviceByHID(ctx context.Context, ownerID string, kind models.DeviceKind, hid string) (*models.Device, error)
	FindSimilarComponent(ctx context.Context, query *SimilarComponentQuery) (*models.Device, error)
	ListComponentIDs(ctx context.Context, parentID int64) ([]int64, error)

	// Device writes.

	InsertDevice(ctx context.Context, device *models.Device) error
	// UpdateDeviceProperties writes the physical properties and the hid.
	// A hid held by another device fails with a *UniqueViolation.
	UpdateDeviceProperties(ctx context.Context, device *models.Device) error
	SetParent(ctx context.Context, parentID *int64, componentIDs []int64) error

	// Tags.

	GetTags(ctx context.Context, ownerID string, ids []string) ([]*models.Tag, error)
	LinkTags(ctx context.Context, ownerID string, ids []string, deviceID int64) error

	// Audit trail.

	InsertChangeRecords(ctx context.Context, records []*models.ChangeRecord) error
}

// SimilarComponentQuery selects an anonymous component that is physically
// identical to Properties and sits in the same parent.
type SimilarComponentQuery struct {
	OwnerID    string
	Kind       models.DeviceKind
	ParentID   *int64
	Properties models.PhysicalProperties
	Exclude    []int64
}
