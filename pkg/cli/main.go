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

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dnote/jsync/pkg/cli/infra"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/pkg/errors"

	// commands
	"github.com/dnote/jsync/pkg/cli/cmd/login"
	"github.com/dnote/jsync/pkg/cli/cmd/logout"
	"github.com/dnote/jsync/pkg/cli/cmd/push"
	"github.com/dnote/jsync/pkg/cli/cmd/root"
	"github.com/dnote/jsync/pkg/cli/cmd/status"
	"github.com/dnote/jsync/pkg/cli/cmd/sync"
	"github.com/dnote/jsync/pkg/cli/cmd/version"
	"github.com/dnote/jsync/pkg/cli/cmd/watch"
)

// versionTag is populated during link time
var versionTag = "master"

// parseDBPath extracts --dbPath flag value from command line arguments
// regardless of where it appears (before or after subcommand).
// Returns empty string if not found.
func parseDBPath(args []string) string {
	for i, arg := range args {
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func main() {
	// --dbPath can appear after the subcommand, which root.ParseFlags does not see
	dbPath := parseDBPath(os.Args[1:])

	ctx, err := infra.Init(versionTag, dbPath)
	if err != nil {
		log.Errorf("%s\n", errors.Wrap(err, "initializing context").Error())
		os.Exit(1)
	}
	defer ctx.DB.Close()

	root.Register(sync.NewCmd(*ctx))
	root.Register(push.NewCmd(*ctx))
	root.Register(watch.NewCmd(*ctx))
	root.Register(status.NewCmd(*ctx))
	root.Register(login.NewCmd(*ctx))
	root.Register(logout.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = root.Execute(sigCtx)
	stop()

	if err != nil {
		log.Errorf("%s\n", err.Error())
		ctx.DB.Close()
		os.Exit(1)
	}
}
