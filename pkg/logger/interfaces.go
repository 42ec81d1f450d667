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

package logger

import (
	"io"

	"github.com/rs/zerolog"
)

type Logger interface {
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	Fatal() *zerolog.Event
	Panic() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) zerolog.Logger
	WithFields(fields map[string]interface{}) zerolog.Logger
	SetLevel(level zerolog.Level)
	SetDebug(debug bool)
}

// NewNopLogger returns a Logger that discards everything. It is the default
// when a component is built without a logger.
func NewNopLogger() Logger {
	return &nopLogger{nop: zerolog.New(io.Discard).Level(zerolog.Disabled)}
}

// NewTestLogger creates a no-op logger for testing that discards all output
func NewTestLogger() Logger {
	return NewNopLogger()
}

type nopLogger struct {
	nop zerolog.Logger
}

func (n *nopLogger) Trace() *zerolog.Event { return n.nop.Trace() }
func (n *nopLogger) Debug() *zerolog.Event { return n.nop.Debug() }
func (n *nopLogger) Info() *zerolog.Event  { return n.nop.Info() }
func (n *nopLogger) Warn() *zerolog.Event  { return n.nop.Warn() }
func (n *nopLogger) Error() *zerolog.Event { return n.nop.Error() }
func (n *nopLogger) Fatal() *zerolog.Event { return n.nop.Fatal() }
func (n *nopLogger) Panic() *zerolog.Event { return n.nop.Panic() }
func (n *nopLogger) With() zerolog.Context { return n.nop.With() }
func (n *nopLogger) WithComponent(component string) zerolog.Logger {
	return n.nop.With().Str("component", component).Logger()
}
func (n *nopLogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	return n.nop.With().Fields(fields).Logger()
}
func (n *nopLogger) SetLevel(level zerolog.Level) { n.nop = n.nop.Level(level) }
func (*nopLogger) SetDebug(_ bool)                { /* no-op */ }
