// SPDX-License-Identifier: MIT
package tlbuild

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skaphos/tlbuild/internal/cliio"
	"github.com/skaphos/tlbuild/internal/config"
	"github.com/skaphos/tlbuild/internal/registry"
	"github.com/skaphos/tlbuild/internal/sortutil"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "List the configured source repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		noHeaders, _ := cmd.Flags().GetBool("no-headers")
		if format != "json" && !isTabularFormat(format) {
			return fmt.Errorf("unsupported format %q", format)
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		cfgPath := config.ResolveConfigPath(flagConfig, cwd)
		fileCfg, err := config.LoadFile(cfgPath)
		if err != nil {
			return err
		}
		reg := registry.Default()
		reg.Merge(&registry.Registry{RootURL: fileCfg.RootURL, Repos: fileCfg.Repos})
		if err := reg.Validate(); err != nil {
			return err
		}

		if format == "json" {
			data, err := json.MarshalIndent(reg, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			logOutputWriteFailure(cmd, "registry json", err)
			return nil
		}

		// Listing order is alphabetical; assembly keeps declaration order.
		sorted := make([]registry.Descriptor, len(reg.Repos))
		copy(sorted, reg.Repos)
		sortutil.SortDescriptors(sorted)

		rows := make([][]string, 0, len(sorted))
		for _, d := range sorted {
			mode := "branches"
			if d.UseTags {
				mode = "tags"
			}
			dest := d.DestTemplate
			if dest == "" {
				dest = "."
			}
			rows = append(rows, []string{d.Name, d.URL(reg.RootURL), mode, d.BranchPattern, dest})
		}
		err = cliio.WriteTable(cmd.OutOrStdout(), false, noHeaders, []string{"NAME", "URL", "MODE", "PATTERN", "DEST"}, rows)
		logOutputWriteFailure(cmd, "registry table", err)
		return nil
	},
}

func init() {
	addFormatFlag(registryCmd, "output format: table or json")
	addNoHeadersFlag(registryCmd)
	rootCmd.AddCommand(registryCmd)
}
