package tlbuild

import "github.com/spf13/cobra"

const (
	prUsage        = "overlay an open pull request: REPO:USER:BRANCH[:TARGET_BRANCH]"
	noHeadersUsage = "when using table format, do not print headers"
)

func addFormatFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP("format", "o", "table", usage)
}

func addNoHeadersFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("no-headers", false, noHeadersUsage)
}
