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

package status

import (
	"context"
	"database/sql"
	"time"

	"github.com/dnote/jsync/pkg/cli/client"
	jsyncctx "github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/cli/infra"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/output"
	"github.com/dnote/jsync/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  jsync status

  * Show a single document
  jsync status ~/notes/groceries.md

  * Skip the connection check
  jsync status --offline`

var offlineFlag bool

const checkTimeout = 5 * time.Second

// NewCmd returns a new status command
func NewCmd(ctx jsyncctx.JsyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status [file]",
		Short:   "Show the connection to Joplin and the synced documents",
		Example: example,
		Args:    cobra.MaximumNArgs(1),
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVar(&offlineFlag, "offline", false, "do not contact Joplin")

	return cmd
}

// Connection is the state of the connection to Joplin
type Connection struct {
	Reachable  bool
	Authorized bool
	Err        error
}

// CheckConnection checks whether Joplin is listening and accepts the token
func CheckConnection(ctx context.Context, jctx jsyncctx.JsyncCtx) Connection {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	c := client.New(jctx.BaseURL, jctx.Token, jctx.Version, jctx.HTTPClient)

	if err := c.Ping(ctx); err != nil {
		return Connection{Err: err}
	}
	if jctx.Token == "" {
		return Connection{Reachable: true}
	}
	if err := c.CheckToken(ctx); err != nil {
		return Connection{Reachable: true, Err: err}
	}

	return Connection{Reachable: true, Authorized: true}
}

func printConnection(jctx jsyncctx.JsyncCtx, conn Connection) {
	switch {
	case !conn.Reachable:
		log.Errorf("Joplin is not reachable at %s: %s\n", jctx.BaseURL, conn.Err.Error())
	case jctx.Token == "":
		log.Warnf("Joplin is reachable at %s but no access token is saved, run jsync login\n", jctx.BaseURL)
	case !conn.Authorized:
		log.Errorf("Joplin at %s rejected the access token: %s\n", jctx.BaseURL, conn.Err.Error())
	default:
		log.Successf("connected to Joplin at %s\n", jctx.BaseURL)
	}
}

// Links returns the recorded link of the document at path, or every
// recorded link if path is empty
func Links(jctx jsyncctx.JsyncCtx, path string) ([]database.Link, error) {
	r := database.NewRegistry(jctx.DB)

	if path == "" {
		links, err := r.ListLinks()
		if err != nil {
			return nil, errors.Wrap(err, "listing synced documents")
		}

		return links, nil
	}

	l, err := r.GetLink(path)
	if err == sql.ErrNoRows {
		return []database.Link{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting the link of %s", path)
	}

	return []database.Link{l}, nil
}

func newRun(ctx jsyncctx.JsyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		var arg string
		if len(args) > 0 {
			arg = args[0]
		}

		path, err := utils.DocumentPath(arg)
		if err != nil {
			return err
		}

		if !offlineFlag {
			printConnection(ctx, CheckConnection(cmd.Context(), ctx))
		}

		links, err := Links(ctx, path)
		if err != nil {
			return err
		}

		if path != "" && len(links) == 0 {
			log.Infof("%s has not been synced yet\n", path)
			return nil
		}

		output.Links(links, ctx.Clock.Now())

		return nil
	}
}
