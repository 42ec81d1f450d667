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
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/devicesync/pkg/logger"
)

const syncTxOperation = "sync_tx"

// DB is the pgx-backed catalog.
type DB struct {
	pgPool *pgxpool.Pool
	logger logger.Logger
}

var _ Service = (*DB)(nil)

// New wraps an open pool. Migrations are applied separately with
// RunCNPGMigrations.
func New(pool *pgxpool.Pool, log logger.Logger) (*DB, error) {
	if pool == nil {
		return nil, ErrNilPool
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DB{pgPool: pool, logger: log}, nil
}

// WithTx runs fn in a READ COMMITTED transaction. Transient failures
// (deadlocks, serialization failures, statement timeouts) roll back the whole
// attempt and run fn again.
func (db *DB) WithTx(ctx context.Context, fn func(Tx) error) error {
	return db.runWithCNPGRetry(ctx, syncTxOperation, func(ctx context.Context) error {
		tx, err := db.pgPool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToBegin, err)
		}

		// no-op once committed
		defer func() { _ = tx.Rollback(ctx) }()

		if err := fn(&cnpgTx{tx: tx}); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToCommit, err)
		}

		return nil
	})
}

func (db *DB) Close() error {
	db.pgPool.Close()

	return nil
}
