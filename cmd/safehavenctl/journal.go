package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	journalCmd := &cobra.Command{Use: "journal", Short: "Journal operations"}

	var session, summary string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Save a journal entry; without --summary the chat session is summarized",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournalCreate(apiFlag, tokenFlag, session, summary, os.Stdout)
		},
	}
	createCmd.Flags().StringVarP(&session, "session", "s", "", "Session ID to summarize")
	createCmd.Flags().StringVar(&summary, "summary", "", "Summary text")
	journalCmd.AddCommand(createCmd)

	journalCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournalList(apiFlag, tokenFlag, os.Stdout)
		},
	})

	rootCmd.AddCommand(journalCmd)
}

func runJournalCreate(api, token, session, summary string, out io.Writer) error {
	if err := requireToken(token); err != nil {
		return err
	}
	body := map[string]string{}
	if session != "" {
		body["sessionId"] = session
	}
	if summary != "" {
		body["summary"] = summary
	}
	resp, err := newClient(api, token).R().SetBody(body).Post("/api/journal")
	return writeResult(resp, err, out)
}

func runJournalList(api, token string, out io.Writer) error {
	if err := requireToken(token); err != nil {
		return err
	}
	resp, err := newClient(api, token).R().Get("/api/journal")
	return writeResult(resp, err, out)
}
