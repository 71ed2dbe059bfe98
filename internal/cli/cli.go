// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for buddy.
package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdIngest
	CmdSessions
	CmdChat
	CmdExport
	CmdHealth
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ServerURL string
	JSON      bool

	// Command-specific
	SessionID string
	RepoURL   string
	APIKey    string
	Format    string
	OutputDir string
	Rest      *ArgParser
}

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

func parseArgs(raw []string) (Command, Args) {
	if len(raw) == 0 {
		return CmdTUI, Args{}
	}

	parser := NewArgParser(raw)
	args := Args{
		ServerURL: parser.Flag("server"),
		JSON:      parser.BoolFlag("json"),
		Rest:      parser,
	}

	switch parser.Subcommand() {
	case "ingest":
		args.RepoURL = parser.Positional(1)
		args.APIKey = parser.Flag("api-key")
		return CmdIngest, args
	case "sessions", "ls":
		return CmdSessions, args
	case "chat":
		args.SessionID = parser.Positional(1)
		return CmdChat, args
	case "export":
		args.SessionID = parser.Positional(1)
		args.Format = parser.FlagOrDefault("format", "markdown")
		args.OutputDir = parser.FlagOrDefault("output", ".")
		return CmdExport, args
	case "health", "status":
		return CmdHealth, args
	case "config":
		return CmdConfig, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", parser.Subcommand())
		return CmdHelp, args
	}
}

// HandleVersionCommand prints version information.
func HandleVersionCommand() error {
	fmt.Printf("buddy %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	return nil
}

// HandleHelpCommand prints usage information.
func HandleHelpCommand() error {
	fmt.Print(`buddy - chat with a codebase from your terminal

Usage:
  buddy                          Launch the interactive TUI (default)
  buddy ingest <repo-url> --api-key <key>
                                 Analyze a repository and create a session
  buddy sessions                 List sessions on the server
  buddy sessions delete <id>     Delete a session
  buddy chat <session-id>        Chat with a session from the command line
  buddy export <session-id>      Export a session transcript
  buddy health                   Check server availability
  buddy config <show|path|init>  Inspect or create the configuration file
  buddy version                  Show version information
  buddy help                     Show this help

Flags:
  --server <url>   Override the server URL from config
  --json           Machine-readable output where supported
  --format <fmt>   Export format: markdown or json (default markdown)
  --output <dir>   Export output directory (default .)

Configuration is read from ~/.buddy/config.toml; environment variables
BUDDY_SERVER_URL, BUDDY_API_KEY, BUDDY_TIMEOUT_SECS, and BUDDY_THEME
override it.
`)
	return nil
}
