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

package db

import "errors"

var (

	// Operation errors.

	ErrFailedToScan   = errors.New("failed to scan")
	ErrFailedToQuery  = errors.New("failed to query")
	ErrFailedToInsert = errors.New("failed to insert")
	ErrFailedToUpdate = errors.New("failed to update")
	ErrFailedToBegin  = errors.New("failed to begin transaction")
	ErrFailedToCommit = errors.New("failed to commit transaction")

	// Catalog validation errors.

	ErrDeviceNil                 = errors.New("device is nil")
	ErrDeviceAlreadyPersisted    = errors.New("device already has an id")
	ErrDeviceNotPersisted        = errors.New("device has no id")
	ErrUnsupportedConflictColumn = errors.New("unsupported conflict column")

	// Pool helpers.

	ErrNilPool         = errors.New("cnpg pool is nil")
	ErrCNPGConfigNil   = errors.New("cnpg configuration is required")
	ErrCNPGTLSDisabled = errors.New("cnpg tls cannot be combined with sslmode=disable")

	// TLS helpers.

	ErrCNPGLackingTLSFiles = errors.New("cnpg tls requires cert_file, key_file, and ca_file")
)
