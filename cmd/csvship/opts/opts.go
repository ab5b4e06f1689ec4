// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package opts

import (
	"context"
	"os"

	"github.com/walteh/csvship/pkg/config"
	"github.com/walteh/csvship/pkg/transfer"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	DotEnv     string
	Debug      bool

	// LookupEnv overrides os.LookupEnv, used by tests
	LookupEnv func(string) (string, bool)
}

// LoadConfig resolves the full configuration from every source
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	return config.Load(ctx, config.LoadOptions{
		File:      o.ConfigFile,
		DotEnv:    o.DotEnv,
		LookupEnv: o.LookupEnv,
	})
}

// RsyncBinary is the rsync executable named by RSYNC_BINARY, without loading
// the rest of the config
func (o *RootOpts) RsyncBinary() string {
	lookup := o.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(config.EnvRsyncBinary); ok && v != "" {
		return v
	}
	return transfer.DefaultRsyncBinary
}
