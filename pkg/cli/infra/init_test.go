/* Copyright 2025 Dnote Authors
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

package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnote/jsync/pkg/assert"
	"github.com/dnote/jsync/pkg/cli/config"
	"github.com/dnote/jsync/pkg/cli/consts"
	"github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/dirs"
	"github.com/pkg/errors"
)

func setupEnv(t *testing.T) string {
	tmpDir := t.TempDir()

	t.Cleanup(dirs.Reload)
	t.Setenv("XDG_CONFIG_HOME", fmt.Sprintf("%s/config", tmpDir))
	t.Setenv("XDG_DATA_HOME", fmt.Sprintf("%s/data", tmpDir))
	t.Setenv(consts.EnvBaseURL, "")
	t.Setenv(consts.EnvToken, "")

	return tmpDir
}

func TestInit(t *testing.T) {
	tmpDir := setupEnv(t)

	ctx, err := Init("test-version", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	defer ctx.DB.Close()

	assert.Equal(t, ctx.Version, "test-version", "version mismatch")
	assert.Equal(t, ctx.BaseURL, consts.DefaultBaseURL, "base url mismatch")
	assert.Equal(t, ctx.Token, "", "token mismatch")
	assert.Equal(t, ctx.SyncDirection, consts.SyncDirectionTwoWay, "sync direction mismatch")

	_, err = os.Stat(filepath.Join(tmpDir, "config", "jsync", "jsyncrc"))
	assert.Equal(t, err, nil, "config file should exist")
	_, err = os.Stat(filepath.Join(tmpDir, "data", "jsync", "jsync.db"))
	assert.Equal(t, err, nil, "database file should exist")

	var count int
	database.MustScan(t, "counting links", ctx.DB.QueryRow("SELECT count(*) FROM links"), &count)
	assert.Equal(t, count, 0, "links table should exist")
}

func TestInit_ExistingConfig(t *testing.T) {
	setupEnv(t)

	ctx, err := Init("test-version", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	ctx.DB.Close()

	cf := config.Config{
		BaseURL:       "http://127.0.0.1:41185",
		Token:         "fileToken",
		SyncDirection: consts.SyncDirectionLocalToRemote,
	}
	if err := config.Write(*ctx, cf); err != nil {
		t.Fatal(errors.Wrap(err, "writing config"))
	}

	ctx2, err := Init("test-version", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing again"))
	}
	defer ctx2.DB.Close()

	assert.Equal(t, ctx2.BaseURL, cf.BaseURL, "base url mismatch")
	assert.Equal(t, ctx2.Token, cf.Token, "token mismatch")
	assert.Equal(t, ctx2.SyncDirection, cf.SyncDirection, "sync direction mismatch")

	got, err := config.Read(*ctx2)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading config"))
	}
	assert.Equal(t, got, cf, "config file should not be overwritten")
}

func TestInit_EnvOverride(t *testing.T) {
	setupEnv(t)
	t.Setenv(consts.EnvBaseURL, "http://127.0.0.1:9999")
	t.Setenv(consts.EnvToken, "envToken")

	ctx, err := Init("test-version", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	defer ctx.DB.Close()

	assert.Equal(t, ctx.BaseURL, "http://127.0.0.1:9999", "base url mismatch")
	assert.Equal(t, ctx.Token, "envToken", "token mismatch")

	cf, err := config.Read(*ctx)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading config"))
	}
	assert.Equal(t, cf.Token, "", "environment should not be written to the config file")
}

func TestInit_InvalidConfig(t *testing.T) {
	tmpDir := setupEnv(t)

	configDir := filepath.Join(tmpDir, "config", "jsync")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(errors.Wrap(err, "creating config dir"))
	}
	if err := os.WriteFile(filepath.Join(configDir, "jsyncrc"), []byte("syncDirection: sideways\n"), 0600); err != nil {
		t.Fatal(errors.Wrap(err, "writing config"))
	}

	_, err := Init("test-version", filepath.Join(tmpDir, "custom.db"))
	assert.NotEqual(t, err, nil, "an invalid sync direction should be rejected")
}

func TestGetDBPath(t *testing.T) {
	paths := setupPaths()

	assert.Equal(t, getDBPath(paths, ""), "/home/user/.local/share/jsync/jsync.db", "default path mismatch")
	assert.Equal(t, getDBPath(paths, "/tmp/custom.db"), "/tmp/custom.db", "custom path mismatch")
}

func setupPaths() context.Paths {
	return context.Paths{
		Home:   "/home/user",
		Config: "/home/user/.config",
		Data:   "/home/user/.local/share",
	}
}
