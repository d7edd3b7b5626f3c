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

// Package consts provides definitions of constants
package consts

var (
	// JsyncDirName is the name of the directory containing jsync files
	JsyncDirName = "jsync"
	// JsyncDBFileName is a filename for the jsync SQLite database
	JsyncDBFileName = "jsync.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "jsyncrc"
	// DotEnvFilename is the name of the optional file holding environment overrides
	DotEnvFilename = ".env"

	// DefaultBaseURL is the address of the Joplin data API on a default installation
	DefaultBaseURL = "http://localhost:41184"

	// EnvBaseURL is the environment variable overriding the configured base URL
	EnvBaseURL = "JOPLIN_BASE_URL"
	// EnvToken is the environment variable overriding the configured access token
	EnvToken = "JOPLIN_TOKEN"

	// SyncDirectionTwoWay lets the newer side win
	SyncDirectionTwoWay = "two-way"
	// SyncDirectionLocalToRemote always pushes the local document
	SyncDirectionLocalToRemote = "local-to-remote"
)
