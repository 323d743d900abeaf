package gen

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:    "gen",
	Short:  "Generate documentation for memwatch",
	Long:   `Generate documentation for memwatch`,
	Hidden: true,
}

func init() {
	RootCmd.AddCommand(ManPagesCmd)
}
