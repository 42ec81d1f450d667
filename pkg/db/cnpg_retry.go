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
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes for transient errors that should be retried.
const (
	sqlstateDeadlockDetected    = "40P01" // Deadlock detected
	sqlstateSerializationFailed = "40001" // Serialization failure
	sqlstateInternalError       = "XX000" // Internal error
	sqlstateStatementTimeout    = "57014" // Statement timeout
)

const (
	defaultCNPGMaxRetryAttempts  = 3
	defaultCNPGDeadlockBackoffMs = 500
	defaultCNPGBaseBackoffMs     = 150
	cnpgMaxRetryAttemptsEnv      = "CNPG_MAX_RETRY_ATTEMPTS"
	cnpgDeadlockBackoffMsEnv     = "CNPG_DEADLOCK_BACKOFF_MS"
)

// classifyCNPGError checks if an error is a transient PostgreSQL error that can be retried.
// Returns the SQLSTATE code and a boolean indicating if it's transient.
func classifyCNPGError(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateDeadlockDetected, sqlstateSerializationFailed,
			sqlstateInternalError, sqlstateStatementTimeout:
			return pgErr.Code, true
		}

		return pgErr.Code, false
	}

	// Fallback to string matching for wrapped errors
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "40p01"), strings.Contains(msg, "deadlock detected"):
		return sqlstateDeadlockDetected, true
	case strings.Contains(msg, "40001"), strings.Contains(msg, "could not serialize access"):
		return sqlstateSerializationFailed, true
	case strings.Contains(msg, "xx000"), strings.Contains(msg, "internal error"):
		return sqlstateInternalError, true
	case strings.Contains(msg, "57014"), strings.Contains(msg, "statement timeout"):
		return sqlstateStatementTimeout, true
	default:
		return "", false
	}
}

// cnpgBackoffDelay uses exponential backoff with jitter so that competing
// workers do not retry in lockstep.
func cnpgBackoffDelay(attempt int, sqlstate string) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	var baseBackoff time.Duration

	switch sqlstate {
	case sqlstateDeadlockDetected, sqlstateSerializationFailed:
		baseBackoff = time.Duration(getCNPGDeadlockBackoffMs()) * time.Millisecond
	default:
		baseBackoff = time.Duration(defaultCNPGBaseBackoffMs) * time.Millisecond
	}

	backoff := baseBackoff * time.Duration(1<<(attempt-1))

	jitterMax := int64(baseBackoff)
	jitterNanos := time.Now().UnixNano() % jitterMax

	return backoff + time.Duration(jitterNanos)
}

// runWithCNPGRetry invokes fn until it succeeds, fails with a non-transient
// error, or the attempt budget is spent.
func (db *DB) runWithCNPGRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	maxAttempts := getCNPGMaxRetryAttempts()

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				recordCNPGRetrySuccess()
			}

			return nil
		}

		lastErr = err
		code, transient := classifyCNPGError(err)

		recordCNPGFailure(ctx, operation, code)

		if !transient || attempt == maxAttempts {
			return err
		}

		recordCNPGRetry(ctx, operation, code)

		delay := cnpgBackoffDelay(attempt, code)

		db.logger.Warn().
			Err(err).
			Str("sqlstate", code).
			Str("operation", operation).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Dur("backoff", delay).
			Msg("cnpg transient error, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// getCNPGMaxRetryAttempts returns the configured max retry attempts.
func getCNPGMaxRetryAttempts() int {
	return positiveEnvInt(cnpgMaxRetryAttemptsEnv, defaultCNPGMaxRetryAttempts)
}

// getCNPGDeadlockBackoffMs returns the configured deadlock backoff in milliseconds.
func getCNPGDeadlockBackoffMs() int {
	return positiveEnvInt(cnpgDeadlockBackoffMsEnv, defaultCNPGDeadlockBackoffMs)
}

func positiveEnvInt(name string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
