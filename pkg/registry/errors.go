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

import "errors"

var (

	// Identity errors.

	ErrNeedsIdentity          = errors.New("could not derive an identity for this device")
	ErrConflictRetryExhausted = errors.New("device conflicted on insert and could not be re-resolved")
	ErrMismatchBetweenTags    = errors.New("tags are linked to different devices")
	ErrTagKindMismatch        = errors.New("tag is linked to a device of another kind family")
	ErrInsufficientPermission = errors.New("device belongs to another owner")

	// Snapshot validation errors.

	ErrSnapshotRequired      = errors.New("snapshot is required")
	ErrSnapshotOwnerRequired = errors.New("snapshot owner_id is required")
	ErrInvalidSnapshotUUID   = errors.New("snapshot uuid is not a valid UUID")
	ErrDeviceNotComputer     = errors.New("snapshot device must be a computer")
	ErrComponentNotComponent = errors.New("snapshot component must be a component kind")
	ErrInvalidTagID          = errors.New("tag id must not contain '/'")
	ErrSyncRequestInvalid    = errors.New("sync request requires a device")
)
