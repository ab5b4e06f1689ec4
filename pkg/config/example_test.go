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

package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/csvship/pkg/config"
)

func ExampleLoad() {
	ctx := context.Background()

	configYAML := `
source_dir: /srv/drop
dest_user: loader
dest_host: warehouse.internal
dest_dir: /data/incoming
template_dir: /etc/csvship/templates
file_suffix: "%Y%m%d%H%M%S"
wait_seconds: 5
`

	tmpDir, err := os.MkdirTemp("", "csvship-example")
	if err != nil {
		fmt.Printf("Error creating temp dir: %v\n", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "csvship.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, config.LoadOptions{
		File:      configPath,
		LookupEnv: func(string) (string, bool) { return "", false },
	})
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Println(cfg.String())
	fmt.Printf("poll every %s, include %s\n", cfg.PollInterval(), cfg.IncludeGlob)

	// Output:
	// /srv/drop -> loader@warehouse.internal:/data/incoming (templates /etc/csvship/templates, wait 5s)
	// poll every 2s, include **/*.csv
}
