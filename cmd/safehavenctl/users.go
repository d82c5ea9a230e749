package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var email, password string

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a user and print the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(apiFlag, "/user/register", email, password, os.Stdout)
		},
	}
	registerCmd.Flags().StringVarP(&email, "email", "e", "", "Email (required)")
	registerCmd.Flags().StringVarP(&password, "password", "p", "", "Password, at least 6 characters (required)")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(registerCmd)

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(apiFlag, "/user/login", email, password, os.Stdout)
		},
	}
	loginCmd.Flags().StringVarP(&email, "email", "e", "", "Email (required)")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}

func runAuth(api, path, email, password string, out io.Writer) error {
	var res struct {
		Token string `json:"token"`
	}
	resp, err := newClient(api, "").R().
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&res).
		Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	_, _ = fmt.Fprintln(out, res.Token)
	return nil
}
