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
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/devicesync/pkg/models"
)

const (
	registryMeterName = "devicesync.registry"

	metricRegistrationsName    = "devicesync_registrations_total"
	metricConflictsName        = "devicesync_conflicts_total"
	metricChangeRecordsName    = "devicesync_change_records_total"
	metricIdentityMismatchName = "devicesync_identity_mismatch_total"
)

// Registration outcomes.
const (
	outcomeMatchedTag     = "matched_tag"
	outcomeMatchedHID     = "matched_hid"
	outcomeMatchedSimilar = "matched_similar"
	outcomeCreated        = "created"
	outcomeNeedsIdentity  = "needs_identity"
)

// Conflict results.
const (
	conflictDetected  = "detected"
	conflictResolved  = "resolved"
	conflictExhausted = "exhausted"
	conflictKeptHID   = "kept_hid"
)

//nolint:gochecknoglobals // metric instruments are shared singletons
var (
	registryMetricsOnce sync.Once
	registryMetrics     struct {
		registrations    metric.Int64Counter
		conflicts        metric.Int64Counter
		changeRecords    metric.Int64Counter
		identityMismatch metric.Int64Counter
	}
)

func initRegistryMetrics() {
	registryMetricsOnce.Do(func() {
		meter := otel.Meter(registryMeterName)

		var err error

		registryMetrics.registrations, err = meter.Int64Counter(
			metricRegistrationsName,
			metric.WithDescription("Devices resolved by the registrar, by outcome"),
		)
		if err != nil {
			otel.Handle(err)
		}

		registryMetrics.conflicts, err = meter.Int64Counter(
			metricConflictsName,
			metric.WithDescription("Unique violations hit while registering devices"),
		)
		if err != nil {
			otel.Handle(err)
		}

		registryMetrics.changeRecords, err = meter.Int64Counter(
			metricChangeRecordsName,
			metric.WithDescription("Change records produced by synchronization runs"),
		)
		if err != nil {
			otel.Handle(err)
		}

		registryMetrics.identityMismatch, err = meter.Int64Counter(
			metricIdentityMismatchName,
			metric.WithDescription("Tag matches whose device hid differs from the reported hid"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
}

// runStats tallies the observations of one synchronization attempt. They are
// recorded only once the attempt's transaction has committed.
type runStats struct {
	registrations []string
	conflicts     []string
	mismatches    int
}

func (s *runStats) registration(outcome string) {
	s.registrations = append(s.registrations, outcome)
}

func (s *runStats) conflict(result string) {
	s.conflicts = append(s.conflicts, result)
}

func (s *runStats) identityMismatch() {
	s.mismatches++
}

// recordCommittedRun records the metrics of a run whose transaction committed.
func recordCommittedRun(ctx context.Context, result *SyncResult) {
	initRegistryMetrics()

	for _, outcome := range result.stats.registrations {
		addCount(ctx, registryMetrics.registrations, 1, attribute.String("outcome", outcome))
	}

	for _, conflict := range result.stats.conflicts {
		addCount(ctx, registryMetrics.conflicts, 1, attribute.String("result", conflict))
	}

	if result.stats.mismatches > 0 {
		addCount(ctx, registryMetrics.identityMismatch, int64(result.stats.mismatches))
	}

	for _, records := range [][]*models.ChangeRecord{result.Registered, result.Changes} {
		for _, record := range records {
			addCount(ctx, registryMetrics.changeRecords, 1, attribute.String("kind", string(record.Kind)))
		}
	}
}

// recordFailedRun counts runs that gave up for identity reasons.
func recordFailedRun(ctx context.Context, err error) {
	initRegistryMetrics()

	switch {
	case errors.Is(err, ErrNeedsIdentity):
		addCount(ctx, registryMetrics.registrations, 1, attribute.String("outcome", outcomeNeedsIdentity))
	case errors.Is(err, ErrConflictRetryExhausted):
		addCount(ctx, registryMetrics.conflicts, 1, attribute.String("result", conflictExhausted))
	}
}

func addCount(ctx context.Context, counter metric.Int64Counter, n int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}

	counter.Add(ctx, n, metric.WithAttributes(attrs...))
}
