// buddy - chat with a codebase from your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/buddy-tui/internal/api"
	"github.com/jeranaias/buddy-tui/internal/cli"
	"github.com/jeranaias/buddy-tui/internal/config"
	"github.com/jeranaias/buddy-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if args.ServerURL != "" {
		cfg.Server.URL = args.ServerURL
	}

	setupLogging()

	client := api.New(cfg.Server.URL, api.WithTimeout(cfg.Timeout()))

	var runErr error
	switch cmd {
	case cli.CmdTUI:
		runErr = runTUI(cfg)
	case cli.CmdIngest:
		runErr = cli.HandleIngestCommand(client, args)
	case cli.CmdSessions:
		runErr = cli.HandleSessionsCommand(client, args)
	case cli.CmdChat:
		runErr = cli.HandleChatCommand(client, args)
	case cli.CmdExport:
		runErr = cli.HandleExportCommand(client, args)
	case cli.CmdHealth:
		runErr = cli.HandleHealthCommand(client, args)
	case cli.CmdConfig:
		runErr = cli.HandleConfigCommand(args)
	case cli.CmdVersion:
		runErr = cli.HandleVersionCommand()
	default:
		runErr = cli.HandleHelpCommand()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to a file so log lines never
// corrupt the TUI or piped output.
func setupLogging() {
	dir, err := config.Dir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "buddy.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(f)
}

// runTUI starts the Bubble Tea application with config hot reload.
func runTUI(cfg *config.Config) error {
	app := ui.NewApp(cfg)
	program := tea.NewProgram(app, tea.WithAltScreen())

	watcher, err := config.NewWatcher(func(next *config.Config) {
		program.Send(ui.ConfigReloaded(next))
	})
	if err != nil {
		log.Printf("config watcher unavailable: %v", err)
	} else {
		if werr := watcher.Watch(); werr != nil {
			log.Printf("config watcher: %v", werr)
		}
		defer watcher.Close()
	}

	_, err = program.Run()
	return err
}
