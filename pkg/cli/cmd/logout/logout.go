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

package logout

import (
	"github.com/dnote/jsync/pkg/cli/config"
	"github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/infra"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is an error for logging out when no access token is saved
var ErrNotLoggedIn = errors.New("not logged in")

var example = `
  jsync logout`

// NewCmd returns a new logout command
func NewCmd(ctx context.JsyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logout",
		Short:   "Remove the saved Joplin access token",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Do removes the access token from the config file
func Do(ctx context.JsyncCtx) error {
	cf, err := config.Read(ctx)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	if cf.Token == "" {
		return ErrNotLoggedIn
	}

	cf.Token = ""
	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

func newRun(ctx context.JsyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		err := Do(ctx)
		if err == ErrNotLoggedIn {
			log.Error("not logged in\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging out")
		}

		log.Success("logged out\n")

		return nil
	}
}
