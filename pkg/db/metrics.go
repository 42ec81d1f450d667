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

import (
	"context"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	cnpgMeterName            = "devicesync.cnpg"
	metricCNPGRetriesName    = "devicesync_cnpg_retries_total"
	metricCNPGTxFailuresName = "devicesync_cnpg_tx_failures_total"
)

// Atomic mirrors of the OTel counters, readable without an exporter.
//
//nolint:gochecknoglobals // metrics require package-level state
var (
	cnpgDeadlockTotal             int64
	cnpgSerializationFailureTotal int64
	cnpgRetryTotal                int64
	cnpgRetrySuccessTotal         int64
)

//nolint:gochecknoglobals // metric instruments are shared singletons
var (
	cnpgMetricsOnce sync.Once
	cnpgRetries     metric.Int64Counter
	cnpgTxFailures  metric.Int64Counter
)

func initCNPGMetrics() {
	cnpgMetricsOnce.Do(func() {
		meter := otel.Meter(cnpgMeterName)

		var err error

		cnpgRetries, err = meter.Int64Counter(
			metricCNPGRetriesName,
			metric.WithDescription("Catalog transactions retried after a transient SQLSTATE"),
		)
		if err != nil {
			otel.Handle(err)
		}

		cnpgTxFailures, err = meter.Int64Counter(
			metricCNPGTxFailuresName,
			metric.WithDescription("Catalog transactions that failed, by SQLSTATE"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
}

func recordCNPGFailure(ctx context.Context, operation, sqlstate string) {
	switch sqlstate {
	case sqlstateDeadlockDetected:
		atomic.AddInt64(&cnpgDeadlockTotal, 1)
	case sqlstateSerializationFailed:
		atomic.AddInt64(&cnpgSerializationFailureTotal, 1)
	}

	initCNPGMetrics()

	if cnpgTxFailures != nil {
		cnpgTxFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("sqlstate", sqlstate),
		))
	}
}

func recordCNPGRetry(ctx context.Context, operation, sqlstate string) {
	atomic.AddInt64(&cnpgRetryTotal, 1)

	initCNPGMetrics()

	if cnpgRetries != nil {
		cnpgRetries.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("sqlstate", sqlstate),
		))
	}
}

func recordCNPGRetrySuccess() {
	atomic.AddInt64(&cnpgRetrySuccessTotal, 1)
}

// GetCNPGDeadlockTotal returns the current deadlock count.
func GetCNPGDeadlockTotal() int64 {
	return atomic.LoadInt64(&cnpgDeadlockTotal)
}

// GetCNPGSerializationFailureTotal returns the current serialization failure count.
func GetCNPGSerializationFailureTotal() int64 {
	return atomic.LoadInt64(&cnpgSerializationFailureTotal)
}

// GetCNPGRetryTotal returns the current retry count.
func GetCNPGRetryTotal() int64 {
	return atomic.LoadInt64(&cnpgRetryTotal)
}

// GetCNPGRetrySuccessTotal returns the current successful retry count.
func GetCNPGRetrySuccessTotal() int64 {
	return atomic.LoadInt64(&cnpgRetrySuccessTotal)
}
