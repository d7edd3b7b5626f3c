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

package sync

import (
	"context"
	"os"

	jsyncctx "github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/infra"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/notesync"
	"github.com/dnote/jsync/pkg/cli/output"
	"github.com/dnote/jsync/pkg/cli/reconcile"
	"github.com/dnote/jsync/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  * Sync a note in the configured direction
  jsync sync ~/notes/groceries.md

  * Always push the local document
  jsync sync --mode local-to-remote ~/notes/groceries.md

  * Show what would change without writing anything
  jsync sync --dry-run ~/notes/groceries.md`

var modeFlag string
var dryRunFlag bool

// NewCmd returns a new sync command
func NewCmd(ctx jsyncctx.JsyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync <file>",
		Aliases: []string{"s"},
		Short:   "Sync a note with Joplin",
		Example: example,
		Args:    cobra.MaximumNArgs(1),
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&modeFlag, "mode", "", "sync direction: two-way or local-to-remote (defaults to value in config)")
	f.BoolVarP(&dryRunFlag, "dry-run", "n", false, "show what would change without writing to either side")

	return cmd
}

// Mode returns the reconciliation mode given by the flag value, falling back
// to the configured sync direction
func Mode(ctx jsyncctx.JsyncCtx, flag string) (reconcile.Mode, error) {
	s := flag
	if s == "" {
		s = ctx.SyncDirection
	}

	m, err := reconcile.ParseMode(s)
	if err != nil {
		return m, errors.Wrap(err, "parsing sync direction")
	}

	return m, nil
}

// Options are the options of a single sync
type Options struct {
	Mode   reconcile.Mode
	DryRun bool
}

// Do syncs the document at the given path and prints the result
func Do(ctx context.Context, jctx jsyncctx.JsyncCtx, s *notesync.Syncer, path string, opts Options) (notesync.Result, error) {
	var result notesync.Result
	var err error

	if opts.DryRun {
		result, err = s.Plan(ctx, jctx.SyncConfig(), path, opts.Mode)
	} else {
		result, err = s.Sync(ctx, jctx.SyncConfig(), path, opts.Mode)
	}
	if err != nil {
		return result, UserError(err)
	}

	if opts.DryRun {
		output.Plan(os.Stdout, result)
	} else {
		output.SyncResult(result)
	}

	return result, nil
}

// UserError turns a sync failure into the error reported to the user. The
// full chain is logged in debug mode.
func UserError(err error) error {
	log.Debug("%+v\n", err)

	return errors.New(notesync.Describe(err))
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

		mode, err := Mode(ctx, modeFlag)
		if err != nil {
			return err
		}

		_, err = Do(cmd.Context(), ctx, infra.NewSyncer(ctx), path, Options{Mode: mode, DryRun: dryRunFlag})

		return err
	}
}
