// SPDX-License-Identifier: MIT
package tlbuild

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skaphos/tlbuild/internal/model"
	"github.com/skaphos/tlbuild/internal/tableutil"
	"github.com/skaphos/tlbuild/internal/termstyle"
)

func writeReportJSON(cmd *cobra.Command, report *model.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func writeReportTable(cmd *cobra.Command, report *model.RunReport, noHeaders bool) error {
	w := tableutil.New(cmd.OutOrStdout(), true)
	if err := tableutil.PrintHeaders(w, noHeaders, "REPO\tREF\tFAMILY\tVERSION\tDEST\tOVERLAY\tSTATUS"); err != nil {
		return err
	}
	refMax := adaptiveCellLimit(cmd, 0, 32, 24)
	destMax := adaptiveCellLimit(cmd, 0, 40, 28)
	for _, repo := range report.Repos {
		if len(repo.Refs) == 0 {
			row := []string{repo.Name, "-", "-", "-", "-", "-", displayOutcome(repo.Outcome)}
			if _, err := fmt.Fprintf(w, "%s\n", strings.Join(row, "\t")); err != nil {
				return err
			}
			continue
		}
		for _, mref := range repo.Refs {
			overlay := "-"
			if mref.Overlay {
				overlay = termstyle.Colorize(colorOutputEnabled, "merged", termstyle.Info)
			}
			row := []string{
				repo.Name,
				formatCell(mref.Ref.Name, refMax),
				mref.Ref.Family,
				mref.Ref.Version,
				formatCell(displayDest(mref.Dest, report.Destination), destMax),
				overlay,
				displayOutcome(repo.Outcome),
			}
			if _, err := fmt.Fprintf(w, "%s\n", strings.Join(row, "\t")); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func writeNoMatchSummary(cmd *cobra.Command, report *model.RunReport) {
	for _, repo := range report.Repos {
		if repo.Outcome == model.OutcomeNoMatch {
			infof(cmd, "warning: %s has no ref matching version %s", repo.Name, report.Version)
		}
	}
}

func displayOutcome(outcome model.RepoOutcome) string {
	switch outcome {
	case model.OutcomeOK:
		return termstyle.Colorize(colorOutputEnabled, string(outcome), termstyle.Healthy)
	case model.OutcomeNoMatch:
		return termstyle.Colorize(colorOutputEnabled, string(outcome), termstyle.Warn)
	default:
		return string(outcome)
	}
}

// displayDest prefers destinations relative to the destination root.
func displayDest(dest, root string) string {
	if dest == "" {
		return "-"
	}
	if root == "" {
		return dest
	}
	rel, err := filepath.Rel(root, dest)
	if err != nil || strings.HasPrefix(rel, "..") {
		return dest
	}
	return filepath.ToSlash(rel)
}

func formatCell(value string, max int) string {
	if max <= 0 {
		return value
	}
	return truncateASCII(value, max)
}

func truncateASCII(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
