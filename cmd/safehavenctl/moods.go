package main

import (
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	moodsCmd := &cobra.Command{Use: "moods", Short: "Mood log operations"}

	var mood, note, date string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a mood",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoodAdd(apiFlag, tokenFlag, mood, note, date, os.Stdout)
		},
	}
	addCmd.Flags().StringVarP(&mood, "mood", "m", "", "Mood, e.g. happy (required)")
	addCmd.Flags().StringVarP(&note, "note", "n", "", "Optional note")
	addCmd.Flags().StringVarP(&date, "date", "d", "", "Date YYYY-MM-DD (defaults to now)")
	_ = addCmd.MarkFlagRequired("mood")
	moodsCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list USER_ID",
		Short: "List a user's moods, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoodList(apiFlag, tokenFlag, args[0], os.Stdout)
		},
	}
	moodsCmd.AddCommand(listCmd)

	rootCmd.AddCommand(moodsCmd)
}

func runMoodAdd(api, token, mood, note, date string, out io.Writer) error {
	if err := requireToken(token); err != nil {
		return err
	}
	body := map[string]string{"mood": mood}
	if note != "" {
		body["note"] = note
	}
	if date != "" {
		body["date"] = date
	}
	resp, err := newClient(api, token).R().SetBody(body).Post("/api/moods/add")
	return writeResult(resp, err, out)
}

func runMoodList(api, token, userID string, out io.Writer) error {
	resp, err := newClient(api, token).R().Get("/api/moods/" + url.PathEscape(userID))
	return writeResult(resp, err, out)
}
