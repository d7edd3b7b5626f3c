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

package push

import (
	"context"
	"fmt"

	"github.com/dnote/jsync/pkg/cli/cmd/sync"
	jsyncctx "github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/infra"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/notesync"
	"github.com/dnote/jsync/pkg/cli/reconcile"
	"github.com/dnote/jsync/pkg/cli/ui"
	"github.com/dnote/jsync/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  * Overwrite the remote note with the local document
  jsync push ~/notes/groceries.md

  * Skip the confirmation
  jsync push --yes ~/notes/groceries.md`

var yesFlag bool

// NewCmd returns a new push command
func NewCmd(ctx jsyncctx.JsyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "push <file>",
		Short:   "Overwrite the remote note with the local document",
		Example: example,
		Args:    cobra.MaximumNArgs(1),
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "push without asking for confirmation")

	return cmd
}

// ConfirmFunc asks the user whether to overwrite the remote note of path
type ConfirmFunc func(path string) (bool, error)

func confirmOverwrite(path string) (bool, error) {
	question := fmt.Sprintf("overwrite the remote note of %s?", path)
	return ui.Confirm(question, false)
}

// Do pushes the document to the remote note. The arguments are checked
// before confirm is called, and a nil confirm pushes without asking.
func Do(ctx context.Context, jctx jsyncctx.JsyncCtx, s *notesync.Syncer, path string, confirm ConfirmFunc) error {
	if err := notesync.CheckArgs(jctx.SyncConfig(), path); err != nil {
		return sync.UserError(err)
	}

	if confirm != nil {
		ok, err := confirm(path)
		if err != nil {
			return errors.Wrap(err, "getting confirmation")
		}
		if !ok {
			log.Warnf("aborted by user\n")
			return nil
		}
	}

	opts := sync.Options{Mode: reconcile.ModeLocalToRemote}
	_, err := sync.Do(ctx, jctx, s, path, opts)

	return err
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

		var confirm ConfirmFunc
		if !yesFlag {
			confirm = confirmOverwrite
		}

		return Do(cmd.Context(), ctx, infra.NewSyncer(ctx), path, confirm)
	}
}
