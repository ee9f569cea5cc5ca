package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"unihub/internal/apiclient"
)

type tokenData struct {
	Token string `json:"token"`
}

type rootOptions struct {
	api       string
	tokenPath string
	json      bool
}

func (o *rootOptions) client() *apiclient.Client {
	token, _ := readToken(o.tokenPath)
	return apiclient.New(o.api, token)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "unihub",
		Short:         "Browse the European university catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	api := os.Getenv("UNIHUB_API")
	if api == "" {
		api = apiclient.DefaultBaseURL
	}
	cmd.PersistentFlags().StringVar(&opts.api, "api", api, "API base URL")
	cmd.PersistentFlags().StringVar(&opts.tokenPath, "token-file", defaultTokenPath(), "token file path")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print raw JSON")

	cmd.AddCommand(
		newProgramsCmd(opts),
		newIscedCmd(opts),
		newCountriesCmd(opts),
		newCitiesCmd(opts),
		newUniversitiesCmd(opts),
		newLogsCmd(opts),
		newTokenCmd(opts),
		newWhoamiCmd(opts),
	)
	return cmd
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.unihub-token.json"
	}
	return filepath.Join(home, ".unihub", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
