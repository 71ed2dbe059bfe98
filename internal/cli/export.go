// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/buddy-tui/internal/api"
	"github.com/jeranaias/buddy-tui/internal/export"
	"github.com/jeranaias/buddy-tui/internal/model"
	"github.com/jeranaias/buddy-tui/internal/ui/styles"
)

// HandleExportCommand fetches a session transcript from the server and
// writes it to a file.
func HandleExportCommand(client *api.Client, args Args) error {
	if args.SessionID == "" {
		return fmt.Errorf("usage: buddy export <session-id> [--format markdown|json] [--output <dir>]")
	}

	ctx := context.Background()

	messages, err := client.GetHistory(ctx, args.SessionID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	// The list endpoint is the only source of repo metadata for a session.
	sess := model.Session{ID: args.SessionID}
	if sessions, err := client.ListSessions(ctx); err == nil {
		for _, s := range sessions {
			if s.ID == args.SessionID {
				sess = s
				break
			}
		}
	}

	opts := export.DefaultOptions()
	opts.OutputDir = args.OutputDir

	exporter, err := export.ExporterFor(args.Format, opts)
	if err != nil {
		return err
	}

	path, err := export.ExportToFile(&export.Transcript{
		Session:  sess,
		Messages: messages,
	}, exporter, opts)
	if err != nil {
		return err
	}

	fmt.Println(styles.RenderSuccess("Exported to " + path))
	return nil
}
