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

// Package infra provides operations and definitions for the
// local infrastructure for jsync
package infra

import (
	"fmt"

	"github.com/dnote/jsync/pkg/cli/client"
	"github.com/dnote/jsync/pkg/cli/config"
	"github.com/dnote/jsync/pkg/cli/consts"
	"github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/utils"
	"github.com/dnote/jsync/pkg/clock"
	"github.com/dnote/jsync/pkg/dirs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunEFunc is a function type of jsync commands
type RunEFunc func(*cobra.Command, []string) error

func getDBPath(paths context.Paths, customPath string) string {
	if customPath != "" {
		return customPath
	}

	return fmt.Sprintf("%s/%s/%s", paths.Data, consts.JsyncDirName, consts.JsyncDBFileName)
}

// newBaseCtx creates a minimal context with paths and database connection.
// This base context is used for file and database initialization before
// being enriched with config values by setupCtx.
func newBaseCtx(versionTag, customDBPath string) (context.JsyncCtx, error) {
	dirs.Reload()

	paths := context.Paths{
		Home:   dirs.Home,
		Config: dirs.ConfigHome,
		Data:   dirs.DataHome,
	}

	if err := initFiles(paths); err != nil {
		return context.JsyncCtx{}, errors.Wrap(err, "initializing files")
	}

	dbPath := getDBPath(paths, customDBPath)

	db, err := database.Open(dbPath)
	if err != nil {
		return context.JsyncCtx{}, errors.Wrap(err, "connecting to db")
	}

	ctx := context.JsyncCtx{
		Paths:   paths,
		Version: versionTag,
		DB:      db,
	}

	return ctx, nil
}

// Init initializes the jsync environment and returns a new jsync context.
// dbPath overrides the default location of the link registry when not empty.
func Init(versionTag, dbPath string) (*context.JsyncCtx, error) {
	ctx, err := newBaseCtx(versionTag, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "initializing a context")
	}

	if err := initConfigFile(ctx); err != nil {
		ctx.DB.Close()
		return nil, errors.Wrap(err, "generating the config file")
	}

	if err := InitDB(ctx); err != nil {
		ctx.DB.Close()
		return nil, errors.Wrap(err, "initializing database")
	}

	ret, err := setupCtx(ctx)
	if err != nil {
		ctx.DB.Close()
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(ret))

	return &ret, nil
}

// setupCtx enriches the base context with values from the config file and
// the environment. This is called after files and database have been
// initialized.
func setupCtx(ctx context.JsyncCtx) (context.JsyncCtx, error) {
	if err := config.LoadDotEnv(consts.DotEnvFilename); err != nil {
		return ctx, errors.Wrap(err, "loading environment overrides")
	}

	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}

	cf = config.ApplyEnv(cf)
	if err := cf.Validate(); err != nil {
		return ctx, errors.Wrapf(err, "validating %s", config.GetPath(ctx))
	}

	ret := context.JsyncCtx{
		Paths:         ctx.Paths,
		Version:       ctx.Version,
		DB:            ctx.DB,
		BaseURL:       cf.BaseURL,
		Token:         cf.Token,
		SyncDirection: cf.SyncDirection,
		Clock:         clock.New(),
		HTTPClient:    client.NewRateLimitedHTTPClient(),
	}

	return ret, nil
}

// InitDB brings the link registry schema up to date
func InitDB(ctx context.JsyncCtx) error {
	log.Debug("initializing the database\n")

	n, err := database.Migrate(ctx.DB)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	log.Debug("applied %d migrations\n", n)

	return nil
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.JsyncCtx) error {
	path := config.GetPath(ctx)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	if err := config.Write(ctx, config.Default()); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initFiles creates, if necessary, the jsync directories
func initFiles(paths context.Paths) error {
	if err := context.InitJsyncDirs(paths); err != nil {
		return errors.Wrap(err, "creating the jsync dir")
	}

	return nil
}
