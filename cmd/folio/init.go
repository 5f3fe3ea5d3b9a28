package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create a new site with a config file and sample content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		name := filepath.Base(dir)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Creating new folio site: %s\n\n", dir)
		err := scaffold.Site(dir, scaffold.SiteData{Name: name, Title: scaffold.Title(name)}, func(path string) {
			fmt.Fprintf(out, "  created %s\n", path)
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Done! Next steps:")
		fmt.Fprintf(out, "  cd %s\n", dir)
		fmt.Fprintln(out, "  cp .env.example .env and set the passwords")
		fmt.Fprintln(out, "  folio serve")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
