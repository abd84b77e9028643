package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wsc-dev/wsc/internal/connector"
	"github.com/wsc-dev/wsc/internal/envfile"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts <connector>",
	Short: "List configured accounts for a connector",
	Long: `List the configured accounts for a connector by inspecting its config
directory. This reads directory names only, so it works before any
credentials are filled in.

Examples:
  wsc accounts supabase
  wsc accounts wordpress`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogger(flagVerbose)
		if err := runAccounts(args[0]); err != nil {
			printError(err, args[0])
			exitWithCode(ExitError)
		}
	},
}

func runAccounts(name string) error {
	def, ok := connector.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown connector %q, expected one of: %s",
			name, strings.Join(connector.Names(), ", "))
	}

	root, err := effectiveConfigRoot()
	if err != nil {
		return err
	}
	dir := filepath.Join(root, def.Name)

	selectors, err := envfile.ListSelectors(dir, def.ProjectsDir)
	if err != nil {
		return err
	}
	if len(selectors) == 0 {
		fmt.Printf("No configs for %s yet.\n", def.Title)
		fmt.Printf("Create %s to get started.\n", filepath.Join(dir, ".env"))
		return nil
	}

	for _, s := range selectors {
		fmt.Println(s)
	}
	return nil
}
