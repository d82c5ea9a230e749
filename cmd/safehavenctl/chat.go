package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	var session string
	chatCmd := &cobra.Command{
		Use:   "chat MESSAGE...",
		Short: "Send a chat message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(apiFlag, tokenFlag, session, strings.Join(args, " "), os.Stdout)
		},
	}
	chatCmd.Flags().StringVarP(&session, "session", "s", "", "Session ID (defaults to default_session)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(api, token, session, message string, out io.Writer) error {
	if err := requireToken(token); err != nil {
		return err
	}
	body := map[string]string{"message": message}
	if session != "" {
		body["sessionId"] = session
	}
	var res struct {
		Response string `json:"response"`
	}
	resp, err := newClient(api, token).R().SetBody(body).SetResult(&res).Post("/chat")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	_, _ = fmt.Fprintln(out, res.Response)
	return nil
}
