package main

import (
	"github.com/spf13/cobra"

	"github.com/wsc-dev/wsc/internal/buildinfo"
)

var (
	flagVerbose    bool
	flagConfigRoot string
	flagSelector   string
)

var rootCmd = &cobra.Command{
	Use:   "wsc",
	Short: "One CLI for the workspace vendor APIs",
	Long: `wsc wraps the REST APIs of the services a content workspace runs on
(Notion, Publer, Supabase, WordPress, ClickUp, Airtable, HeyGen) behind
one command with shared credential handling.

Credentials live in plain .env files under the config root
(default ~/.wsc/connectors/<connector>/.env). A connector with several
accounts keeps each one in its own subdirectory; pass --selector to
pick one.

Examples:
  wsc notion search --query "roadmap"
  wsc supabase query users --limit 10 --selector my-app
  wsc wordpress posts --status draft
  wsc accounts supabase`,
	Version:       buildinfo.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"print raw vendor payloads and debug logs")
	rootCmd.PersistentFlags().StringVar(&flagConfigRoot, "config-root", "",
		"override the connector config root directory")
	rootCmd.PersistentFlags().StringVarP(&flagSelector, "selector", "s", "",
		"named config to use (account, project, site)")

	rootCmd.AddCommand(notionCmd)
	rootCmd.AddCommand(publerCmd)
	rootCmd.AddCommand(supabaseCmd)
	rootCmd.AddCommand(wordpressCmd)
	rootCmd.AddCommand(clickupCmd)
	rootCmd.AddCommand(airtableCmd)
	rootCmd.AddCommand(heygenCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err, "")
		exitWithCode(ExitError)
	}
}
