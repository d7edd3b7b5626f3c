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

package watch

import (
	"context"
	"time"

	"github.com/dnote/jsync/pkg/cli/cmd/sync"
	jsyncctx "github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/infra"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/notesync"
	"github.com/dnote/jsync/pkg/cli/reconcile"
	"github.com/dnote/jsync/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var example = `
  * Sync whenever the document changes
  jsync watch ~/notes/groceries.md

  * Also pull remote changes every five minutes
  jsync watch --schedule "@every 5m" ~/notes/groceries.md`

var modeFlag string
var scheduleFlag string
var intervalFlag time.Duration

// DefaultInterval is how often the document is polled for changes
const DefaultInterval = 500 * time.Millisecond

// NewCmd returns a new watch command
func NewCmd(ctx jsyncctx.JsyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch <file>",
		Short:   "Sync a note whenever it changes",
		Example: example,
		Args:    cobra.MaximumNArgs(1),
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&modeFlag, "mode", "", "sync direction: two-way or local-to-remote (defaults to value in config)")
	f.StringVar(&scheduleFlag, "schedule", "", "cron spec for periodic syncs, with a seconds field, e.g. \"0 */5 * * * *\" or \"@every 5m\"")
	f.DurationVar(&intervalFlag, "interval", DefaultInterval, "how often to check the document for changes")

	return cmd
}

// Watcher syncs a document whenever it changes on disk, and optionally on a
// schedule to pick up remote changes
type Watcher struct {
	Ctx      jsyncctx.JsyncCtx
	Syncer   *notesync.Syncer
	Path     string
	Mode     reconcile.Mode
	Interval time.Duration
	Schedule string

	// OnResult is called after every sync
	OnResult func(notesync.Result, error)
}

func (w *Watcher) syncOnce(ctx context.Context, reason string) error {
	log.Debug("syncing %s: %s\n", w.Path, reason)

	result, err := sync.Do(ctx, w.Ctx, w.Syncer, w.Path, sync.Options{Mode: w.Mode})
	if w.OnResult != nil {
		w.OnResult(result, err)
	}

	return err
}

func (w *Watcher) newScheduler(ctx context.Context) (*cron.Cron, error) {
	if w.Schedule == "" {
		return nil, nil
	}

	c := cron.New()
	err := c.AddFunc(w.Schedule, func() {
		if err := w.syncOnce(ctx, "schedule"); err != nil {
			log.Errorf("%s\n", err.Error())
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "parsing schedule %q", w.Schedule)
	}

	return c, nil
}

// Run syncs the document once, then keeps it in sync until the context is
// done. A failure of the first sync is returned; later failures are logged.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	scheduler, err := w.newScheduler(ctx)
	if err != nil {
		return err
	}

	if err := w.syncOnce(ctx, "start"); err != nil {
		return err
	}

	fw := watcher.New()
	fw.SetMaxEvents(1)
	fw.FilterOps(watcher.Write, watcher.Create, watcher.Rename, watcher.Move)
	if err := fw.Add(w.Path); err != nil {
		return errors.Wrapf(err, "watching %s", w.Path)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- fw.Start(interval)
	}()
	defer fw.Close()

	if scheduler != nil {
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Infof("watching %s\n", w.Path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-fw.Event:
			if err := w.syncOnce(ctx, event.Op.String()); err != nil {
				log.Errorf("%s\n", err.Error())
			}
		case err := <-fw.Error:
			return errors.Wrap(err, "watching for changes")
		case err := <-errCh:
			if err != nil {
				return errors.Wrap(err, "starting the watcher")
			}
		case <-fw.Closed:
			return nil
		}
	}
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

		mode, err := sync.Mode(ctx, modeFlag)
		if err != nil {
			return err
		}

		w := &Watcher{
			Ctx:      ctx,
			Syncer:   infra.NewSyncer(ctx),
			Path:     path,
			Mode:     mode,
			Interval: intervalFlag,
			Schedule: scheduleFlag,
		}

		return w.Run(cmd.Context())
	}
}
