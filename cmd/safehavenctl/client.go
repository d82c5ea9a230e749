package main

import (
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient(api, token string) *resty.Client {
	c := resty.New().
		SetBaseURL(api).
		SetHeader("Content-Type", "application/json").
		SetTimeout(90 * time.Second)
	if token != "" {
		c.SetAuthToken(token)
	}
	return c
}

// writeResult copies a successful body to out, or turns a non-2xx response into an error.
func writeResult(resp *resty.Response, err error, out io.Writer) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	_, _ = fmt.Fprintln(out, resp.String())
	return nil
}

func requireToken(token string) error {
	if token == "" {
		return fmt.Errorf("--token (or SAFEHAVEN_TOKEN) required")
	}
	return nil
}
