package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	counselorsCmd := &cobra.Command{
		Use:   "counselors",
		Short: "List the counselor directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCounselors(apiFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(counselorsCmd)

	var name, email, reason string
	referCmd := &cobra.Command{
		Use:   "refer",
		Short: "Ask for a counselor recommendation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefer(apiFlag, tokenFlag, name, email, reason, os.Stdout)
		},
	}
	referCmd.Flags().StringVarP(&name, "name", "n", "", "Your name (required)")
	referCmd.Flags().StringVarP(&email, "email", "e", "", "Your email (required)")
	referCmd.Flags().StringVarP(&reason, "reason", "r", "", "What you need help with (required)")
	_ = referCmd.MarkFlagRequired("name")
	_ = referCmd.MarkFlagRequired("email")
	_ = referCmd.MarkFlagRequired("reason")
	rootCmd.AddCommand(referCmd)
}

func runCounselors(api string, out io.Writer) error {
	resp, err := newClient(api, "").R().Get("/api/counselors")
	return writeResult(resp, err, out)
}

func runRefer(api, token, name, email, reason string, out io.Writer) error {
	if err := requireToken(token); err != nil {
		return err
	}
	resp, err := newClient(api, token).R().
		SetBody(map[string]string{"name": name, "email": email, "reason": reason}).
		Post("/api/referrals")
	return writeResult(resp, err, out)
}
