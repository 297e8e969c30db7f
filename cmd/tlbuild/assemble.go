// SPDX-License-Identifier: MIT
package tlbuild

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skaphos/tlbuild/internal/config"
	"github.com/skaphos/tlbuild/internal/engine"
	"github.com/skaphos/tlbuild/internal/strutil"
	"github.com/skaphos/tlbuild/internal/vcs"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble VERSION [DEST]",
	Short: "Assemble the template library for a release version",
	Long: "Assemble clones every registered template-library repository, selects the branches " +
		"or tags matching VERSION, and copies their contents into DEST. " +
		"Pass HEAD as the version to capture branch heads instead of release tags.",
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		debugf(cmd, "starting assemble")
		version := args[0]
		dest := ""
		if len(args) == 2 {
			dest = args[1]
		}

		listOnly, _ := cmd.Flags().GetBool("list-only")
		force, _ := cmd.Flags().GetBool("force")
		keepClones, _ := cmd.Flags().GetBool("keep-clones")
		includeLegacy, _ := cmd.Flags().GetBool("include-legacy")
		includeRC, _ := cmd.Flags().GetBool("include-rc")
		spma, _ := cmd.Flags().GetBool("spma")
		pr, _ := cmd.Flags().GetString("pr")
		exclude, _ := cmd.Flags().GetString("exclude")
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
		if cfgPath != "" {
			debugf(cmd, "using config %s", cfgPath)
		}
		cfg, err := config.NewRunConfig(config.Params{
			Version:       version,
			Destination:   dest,
			Force:         force,
			ListOnly:      listOnly,
			KeepClones:    keepClones,
			IncludeLegacy: includeLegacy,
			IncludeRC:     includeRC,
			SPMA:          spma,
			PullRequest:   pr,
			ConfigPath:    cfgPath,
			ExtraExcludes: strutil.SplitCSV(exclude),
		})
		if err != nil {
			return err
		}
		debugf(cmd, "registry holds %d repositories rooted at %s", len(cfg.Registry.Repos), cfg.Registry.RootURL)

		eng := engine.New(cfg, vcs.NewGitAdapter(nil))
		eng.SetLogger(
			func(f string, a ...any) { infof(cmd, f, a...) },
			func(f string, a ...any) { debugf(cmd, f, a...) },
		)
		report, err := eng.Assemble(cmd.Context())
		if err != nil {
			return &operationalError{err: err}
		}

		switch {
		case format == "json":
			setColorOutputMode(cmd, format)
			logOutputWriteFailure(cmd, "assemble json", writeReportJSON(cmd, report))
		default:
			setColorOutputMode(cmd, format)
			logOutputWriteFailure(cmd, "assemble table", writeReportTable(cmd, report, noHeaders))
		}

		if report.NoMatch() {
			writeNoMatchSummary(cmd, report)
			raiseExitCode(exitNoMatch)
		}
		if listOnly {
			infof(cmd, "listing completed: %d repositories", len(report.Repos))
		} else {
			infof(cmd, "assembly completed: %d repositories into %s", len(report.Repos), cfg.Destination)
		}
		return nil
	},
}

func init() {
	assembleCmd.Flags().Bool("force", false, "reuse an existing destination directory")
	assembleCmd.Flags().Bool("list-only", false, "report the matching refs without writing anything")
	assembleCmd.Flags().Bool("keep-clones", false, "retain the temporary clones for inspection")
	assembleCmd.Flags().Bool("include-legacy", false, "do not exclude legacy branches and tags")
	assembleCmd.Flags().Bool("include-rc", false, "do not exclude release-candidate tags")
	assembleCmd.Flags().Bool("spma", false, "include SPMA variants, folded into the base variant destination")
	assembleCmd.Flags().String("pr", "", prUsage)
	assembleCmd.Flags().String("exclude", "", "additional copy-exclude glob patterns (comma-separated)")
	addFormatFlag(assembleCmd, "output format: table or json")
	addNoHeadersFlag(assembleCmd)
	rootCmd.AddCommand(assembleCmd)
}

func logOutputWriteFailure(cmd *cobra.Command, what string, err error) {
	if err != nil {
		debugf(cmd, "writing %s output failed: %v", what, err)
	}
}
