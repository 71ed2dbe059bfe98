// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/buddy-tui/internal/api"
	"github.com/jeranaias/buddy-tui/internal/ui/styles"
	"github.com/jeranaias/buddy-tui/internal/util"
)

var (
	sessionHeaderStyle = lipgloss.NewStyle().
				Foreground(styles.Cyan).
				Bold(true)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(styles.TextMuted)
)

// HandleSessionsCommand lists sessions, or deletes one with
// "sessions delete <id>".
func HandleSessionsCommand(client *api.Client, args Args) error {
	if args.Rest != nil && args.Rest.Positional(1) == "delete" {
		id := args.Rest.Positional(2)
		if id == "" {
			return fmt.Errorf("usage: buddy sessions delete <session-id>")
		}
		if err := client.DeleteSession(context.Background(), id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		fmt.Println(styles.RenderSuccess("Deleted session " + id))
		return nil
	}

	sessions, err := client.ListSessions(context.Background())
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions yet. Run: buddy ingest <repo-url> --api-key <key>")
		return nil
	}

	fmt.Println(sessionHeaderStyle.Render(
		util.PadRight("ID", 38) + util.PadRight("REPO", 34) + util.PadRight("DATE", 12) + "MSGS"))
	for _, sess := range sessions {
		date := ""
		if !sess.Date.IsZero() {
			date = sess.Date.Format("2006-01-02")
		}
		fmt.Printf("%s%s%s%s\n",
			util.PadRight(sess.ID, 38),
			util.PadRight(util.TruncateWidth(sess.Label(), 32), 34),
			sessionMetaStyle.Render(util.PadRight(date, 12)),
			sessionMetaStyle.Render(fmt.Sprintf("%d", sess.MessageCount)),
		)
	}
	return nil
}

// HandleIngestCommand creates a new session for a repository.
func HandleIngestCommand(client *api.Client, args Args) error {
	if args.RepoURL == "" {
		return fmt.Errorf("usage: buddy ingest <repo-url> --api-key <key>")
	}
	apiKey := args.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("BUDDY_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("an API key is required: pass --api-key or set BUDDY_API_KEY")
	}

	fmt.Println("Analyzing repository, this can take a while...")
	id, err := client.Ingest(context.Background(), args.RepoURL, apiKey)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Println(styles.RenderSuccess("Session created: " + id))
	fmt.Println("Start chatting with: buddy chat " + id)
	return nil
}

// HandleHealthCommand probes the server health endpoint.
func HandleHealthCommand(client *api.Client, args Args) error {
	if err := client.Health(context.Background()); err != nil {
		fmt.Println(styles.RenderError("Server unreachable at " + client.BaseURL()))
		return err
	}
	fmt.Println(styles.RenderSuccess("Server healthy at " + client.BaseURL()))
	return nil
}
