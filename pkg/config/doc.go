/*
Package config loads and validates csvship settings.

	+-----------+    +--------+    +-------------+
	| yaml/json |    |  .env  |    | environment |
	|    hcl    | -> | (file) | -> |  (process)  |
	+-----------+    +--------+    +-------------+
	                                     |
	                               +-----+-----+
	                               |  Config   |
	                               | Validate  |
	                               +-----------+

🎯 Purpose:
  - Reads an optional config file through the registered Parser for its extension
  - Overlays variables from a .env file, then from the process environment
  - Validates required settings and fills in defaults

⚡ Failures:
Every error wraps ErrConfig. The watcher refuses to start on any of them.

🔍 Example:

	cfg, err := config.Load(ctx, config.LoadOptions{
		File:   "csvship.yaml",
		DotEnv: config.DefaultDotEnv,
	})
	if err != nil {
		return err
	}
	fmt.Println(cfg.Wait())
*/
package config
