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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/models"
)

var errMissingSubject = errors.New("subject is required")

type testServiceConfig struct {
	NATSURL  string                 `json:"nats_url" yaml:"nats_url"`
	Subject  string                 `json:"subject" yaml:"subject"`
	Replicas int                    `json:"replicas" yaml:"replicas"`
	Verbose  bool                   `json:"verbose" yaml:"verbose"`
	AckWait  models.Duration        `json:"ack_wait" yaml:"ack_wait"`
	Owners   []string               `json:"owners" yaml:"owners"`
	Security *models.SecurityConfig `json:"security" yaml:"security"`
	CNPG     *models.CNPGDatabase   `json:"cnpg" yaml:"cnpg"`
}

func (c *testServiceConfig) Validate() error {
	if c.Subject == "" {
		return errMissingSubject
	}

	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidateJSONFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeFile(t, "device-sync.json", `{
		"nats_url": "nats://localhost:4222",
		"subject": "inventory.snapshots",
		"ack_wait": "45s",
		"security": {
			"mode": "mtls",
			"cert_dir": "/etc/devicesync/certs",
			"tls": {"cert_file": "client.pem", "key_file": "client-key.pem", "ca_file": "/opt/ca/root.pem"}
		}
	}`)

	var cfg testServiceConfig
	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	assert.Equal(t, 45*time.Second, time.Duration(cfg.AckWait))
	require.NotNil(t, cfg.Security)
	assert.Equal(t, "/etc/devicesync/certs/client.pem", cfg.Security.TLS.CertFile)
	assert.Equal(t, "/etc/devicesync/certs/client-key.pem", cfg.Security.TLS.KeyFile)
	assert.Equal(t, "/opt/ca/root.pem", cfg.Security.TLS.CAFile)
	assert.Equal(t, "/opt/ca/root.pem", cfg.Security.TLS.ClientCAFile)
	assert.Nil(t, cfg.CNPG)
}

func TestLoadAndValidateYAMLFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "file")

	path := writeFile(t, "device-sync.yaml", `
subject: inventory.snapshots
replicas: 3
ack_wait: 30000000000
owners: [owner-1, owner-2]
cnpg:
  host: cnpg-rw
  database: devicesync
  statement_timeout: 5s
`)

	var cfg testServiceConfig
	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, 3, cfg.Replicas)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.AckWait))
	assert.Equal(t, []string{"owner-1", "owner-2"}, cfg.Owners)
	require.NotNil(t, cfg.CNPG)
	assert.Equal(t, "cnpg-rw", cfg.CNPG.Host)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.CNPG.StatementTimeout))
}

func TestLoadAndValidateRunsValidator(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeFile(t, "device-sync.json", `{"nats_url": "nats://localhost:4222"}`)

	var cfg testServiceConfig
	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)

	require.ErrorIs(t, err, errMissingSubject)
}

func TestLoadAndValidateMissingFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	var cfg testServiceConfig
	err := NewConfig(nil).LoadAndValidate(context.Background(), filepath.Join(t.TempDir(), "absent.json"), &cfg)

	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAndValidateInvalidSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "kv")

	var cfg testServiceConfig
	err := NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg)

	require.ErrorIs(t, err, errInvalidConfigSource)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "")
	t.Setenv("DEVICESYNC_NATS_URL", "nats://nats:4222")
	t.Setenv("DEVICESYNC_SUBJECT", "inventory.snapshots")
	t.Setenv("DEVICESYNC_REPLICAS", "2")
	t.Setenv("DEVICESYNC_VERBOSE", "true")
	t.Setenv("DEVICESYNC_ACK_WAIT", "1m")
	t.Setenv("DEVICESYNC_OWNERS", "owner-1, owner-2")
	t.Setenv("DEVICESYNC_CNPG_HOST", "cnpg-rw")
	t.Setenv("DEVICESYNC_CNPG_PORT", "6432")
	t.Setenv("DEVICESYNC_CNPG_RUNTIME_PARAMS", `{"search_path":"inventory"}`)

	var cfg testServiceConfig
	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "nats://nats:4222", cfg.NATSURL)
	assert.Equal(t, 2, cfg.Replicas)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, time.Minute, time.Duration(cfg.AckWait))
	assert.Equal(t, []string{"owner-1", "owner-2"}, cfg.Owners)
	require.NotNil(t, cfg.CNPG)
	assert.Equal(t, "cnpg-rw", cfg.CNPG.Host)
	assert.Equal(t, 6432, cfg.CNPG.Port)
	assert.Equal(t, map[string]string{"search_path": "inventory"}, cfg.CNPG.ExtraRuntimeParams)
	assert.Nil(t, cfg.CNPG.TLS, "unset optional sections stay nil")
	assert.Nil(t, cfg.Security)
}

func TestLoadFromEnvironmentSkipsInvalidValues(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "SYNCTEST_")
	t.Setenv("SYNCTEST_SUBJECT", "inventory.snapshots")
	t.Setenv("SYNCTEST_REPLICAS", "many")

	cfg := testServiceConfig{Replicas: 1}
	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, 1, cfg.Replicas)
}

func TestLoadFromConfigJSON(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "")
	t.Setenv("DEVICESYNC_CONFIG_JSON", `{"subject":"inventory.snapshots","replicas":4}`)

	var cfg testServiceConfig
	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "inventory.snapshots", cfg.Subject)
	assert.Equal(t, 4, cfg.Replicas)
}

func TestEnvLoaderRejectsNonStruct(t *testing.T) {
	t.Parallel()

	loader := NewEnvConfigLoader(nil, "UNUSED_PREFIX_")

	var s string
	require.ErrorIs(t, loader.Load(context.Background(), "", &s), ErrDstMustBePointerToStruct)
	require.ErrorIs(t, loader.Load(context.Background(), "", nil), ErrDstMustBeNonNilPointer)
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		certDir, path, want string
	}{
		{certDir: "/certs", path: "", want: ""},
		{certDir: "/certs", path: "/abs/ca.pem", want: "/abs/ca.pem"},
		{certDir: "/certs", path: "ca.pem", want: "/certs/ca.pem"},
		{certDir: "", path: "ca.pem", want: "ca.pem"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, resolvePath(tt.certDir, tt.path))
	}
}
