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

package login

import (
	"context"
	"net/http"

	"github.com/dnote/jsync/pkg/cli/client"
	"github.com/dnote/jsync/pkg/cli/config"
	jsyncctx "github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/infra"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  jsync login

  * Use a Joplin instance on another port
  jsync login --baseUrl http://localhost:41185`

var baseURLFlag string
var tokenFlag string

// NewCmd returns a new login command
func NewCmd(ctx jsyncctx.JsyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Save the Joplin access token",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&baseURLFlag, "baseUrl", "", "address of the Joplin data API (defaults to value in config)")
	f.StringVar(&tokenFlag, "token", "", "access token, prompted for when omitted")

	return cmd
}

// Do verifies the access token against Joplin and saves it along with the
// base url in the config file
func Do(ctx context.Context, jctx jsyncctx.JsyncCtx, baseURL, token string, hc *http.Client) error {
	if token == "" {
		return errors.New("empty access token")
	}

	c := client.New(baseURL, token, jctx.Version, hc)

	if err := c.Ping(ctx); err != nil {
		return errors.Wrapf(err, "connecting to Joplin at %s", baseURL)
	}
	if err := c.CheckToken(ctx); err != nil {
		return errors.Wrap(err, "verifying the access token")
	}

	cf, err := config.Read(jctx)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	cf.BaseURL = baseURL
	cf.Token = token
	if err := cf.Validate(); err != nil {
		return errors.Wrap(err, "validating config")
	}

	if err := config.Write(jctx, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

func newRun(ctx jsyncctx.JsyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		baseURL := baseURLFlag
		if baseURL == "" {
			baseURL = ctx.BaseURL
		}

		token := tokenFlag
		if token == "" {
			log.Plainf("Find the token in Joplin under Tools > Options > Web Clipper.\n")
			if err := ui.PromptPassword("token", &token); err != nil {
				return errors.Wrap(err, "getting token input")
			}
		}

		if err := Do(cmd.Context(), ctx, baseURL, token, ctx.HTTPClient); err != nil {
			return errors.Wrap(err, "logging in")
		}

		log.Successf("saved the access token for %s\n", baseURL)

		return nil
	}
}
