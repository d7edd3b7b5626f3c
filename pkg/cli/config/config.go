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

// Package config reads and writes the jsync configuration
package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/dnote/jsync/pkg/cli/consts"
	"github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/reconcile"
	"github.com/dnote/jsync/pkg/cli/utils"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds jsync configuration
type Config struct {
	BaseURL       string `yaml:"baseUrl"`
	Token         string `yaml:"token"`
	SyncDirection string `yaml:"syncDirection"`
}

// Default returns the configuration of a fresh installation
func Default() Config {
	return Config{
		BaseURL:       consts.DefaultBaseURL,
		SyncDirection: consts.SyncDirectionTwoWay,
	}
}

func validateURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	if u.Host == "" {
		return errors.New("must have a host")
	}

	return nil
}

// Validate validates the configuration
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(validateURL)),
		validation.Field(&c.SyncDirection, validation.Required, validation.In(consts.SyncDirectionTwoWay, consts.SyncDirectionLocalToRemote)),
	)
}

// Mode returns the reconciliation mode for the configured sync direction
func (c Config) Mode() (reconcile.Mode, error) {
	return reconcile.ParseMode(c.SyncDirection)
}

// GetPath returns the path to the jsync config file
func GetPath(ctx context.JsyncCtx) string {
	return fmt.Sprintf("%s/%s/%s", ctx.Paths.Config, consts.JsyncDirName, consts.ConfigFilename)
}

// Read reads the config file. Missing fields are filled with defaults.
func Read(ctx context.JsyncCtx) (Config, error) {
	ret := Default()

	configPath := GetPath(ctx)
	b, err := os.ReadFile(configPath)
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	var cf Config
	err = yaml.Unmarshal(b, &cf)
	if err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	if cf.BaseURL != "" {
		ret.BaseURL = cf.BaseURL
	}
	if cf.SyncDirection != "" {
		ret.SyncDirection = cf.SyncDirection
	}
	ret.Token = cf.Token

	return ret, nil
}

// Write writes the config to the config file. The file is readable only by
// its owner because it holds the access token.
func Write(ctx context.JsyncCtx, cf Config) error {
	path := GetPath(ctx)

	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	err = os.WriteFile(path, b, 0600)
	if err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}

// LoadDotEnv loads environment variables from the .env file at the given
// path, if it exists. Variables already set are not overridden.
func LoadDotEnv(path string) error {
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrapf(err, "checking %s", path)
	}
	if !ok {
		return nil
	}

	log.Debug("loading environment from %s\n", path)

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}

	return nil
}

// ApplyEnv returns the config with the values set in the environment taking
// precedence over the file
func ApplyEnv(cf Config) Config {
	if v := os.Getenv(consts.EnvBaseURL); v != "" {
		cf.BaseURL = v
	}
	if v := os.Getenv(consts.EnvToken); v != "" {
		cf.Token = v
	}

	return cf
}
