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
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const sqlstateUniqueViolation = "23505"

// Columns that identify a device and can therefore be the subject of a
// registration race.
const (
	ConflictColumnHID = "hid"
)

// uniqueConstraintColumns maps catalog unique constraints onto the column a
// conflicting registration should be re-resolved by.
//
//nolint:gochecknoglobals // static lookup table
var uniqueConstraintColumns = map[string]string{
	"devices_owner_hid_key": ConflictColumnHID,
}

// Key (owner_id, hid)=(owner-1, desktop-acme-x1-s1) already exists.
var uniqueDetailRe = regexp.MustCompile(`Key \((.+)\)=\((.*)\) already exists`)

// UniqueViolation is the structured form of a unique constraint violation.
type UniqueViolation struct {
	Constraint string
	Column     string
	Value      string
	// FromDetail is set when the column was recovered by parsing the
	// server's detail message instead of the constraint name.
	FromDetail bool
	Err        error
}

func (v *UniqueViolation) Error() string {
	return fmt.Sprintf("unique violation on %s (%s=%q): %v", v.Constraint, v.Column, v.Value, v.Err)
}

func (v *UniqueViolation) Unwrap() error {
	return v.Err
}

// AsUniqueViolation extracts a UniqueViolation from err. The constraint name
// reported by the server is the primary signal; the free-text detail is only
// consulted when the constraint is unknown.
func AsUniqueViolation(err error) (*UniqueViolation, bool) {
	if err == nil {
		return nil, false
	}

	var existing *UniqueViolation
	if errors.As(err, &existing) {
		return existing, true
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != sqlstateUniqueViolation {
		return nil, false
	}

	violation := &UniqueViolation{
		Constraint: pgErr.ConstraintName,
		Err:        err,
	}

	columns, values := parseUniqueDetail(pgErr.Detail)

	if column, ok := uniqueConstraintColumns[pgErr.ConstraintName]; ok {
		violation.Column = column
	} else if pgErr.ColumnName != "" {
		violation.Column = pgErr.ColumnName
	} else if len(columns) > 0 {
		violation.Column = pickIdentityColumn(columns)
		violation.FromDetail = true
	}

	for i, column := range columns {
		if column == violation.Column && i < len(values) {
			violation.Value = values[i]
		}
	}

	return violation, true
}

// parseUniqueDetail splits the "Key (a, b)=(x, y) already exists." detail
// into parallel column and value slices. When the values cannot be split
// unambiguously only the columns are returned.
func parseUniqueDetail(detail string) (columns, values []string) {
	m := uniqueDetailRe.FindStringSubmatch(detail)
	if m == nil {
		return nil, nil
	}

	columns = splitTrim(m[1])

	values = splitTrim(m[2])
	if len(values) != len(columns) {
		values = nil
	}

	return columns, values
}

// pickIdentityColumn prefers a known identity column over scoping columns
// such as owner_id.
func pickIdentityColumn(columns []string) string {
	for _, column := range columns {
		if column == ConflictColumnHID {
			return column
		}
	}

	return columns[len(columns)-1]
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}
