// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/buddy-tui/internal/config"
	"github.com/jeranaias/buddy-tui/internal/ui/styles"
)

// HandleConfigCommand inspects or creates the configuration file.
//
//	buddy config show   Print the effective configuration
//	buddy config path   Print the config file location
//	buddy config init   Write a default config file if none exists
func HandleConfigCommand(args Args) error {
	sub := ""
	if args.Rest != nil {
		sub = args.Rest.Positional(1)
	}

	switch sub {
	case "", "show":
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Printf("server.url          = %s\n", cfg.Server.URL)
		fmt.Printf("server.timeout_secs = %d\n", cfg.Server.TimeoutSecs)
		fmt.Printf("ui.theme            = %s\n", cfg.UI.Theme)
		fmt.Printf("ui.code_style       = %s\n", cfg.UI.CodeStyle)
		if cfg.Server.APIKey != "" {
			fmt.Println("server.api_key      = (set)")
		}
		return nil

	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	case "init":
		path, err := config.Path()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s", path)
		}
		if err := config.Save(config.Default()); err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess("Wrote default config to " + path))
		return nil

	default:
		return fmt.Errorf("unknown config subcommand: %s (want show, path, or init)", sub)
	}
}
