package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/galnotes/pkg/core/version"
)

var versionCheck string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Shows the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionCheck != "" {
			ok, err := version.Satisfies(versionCheck)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("galnotes %s does not satisfy %q", version.App, versionCheck)
			}
			fmt.Fprintf(out, "galnotes %s satisfies %q\n", version.App, versionCheck)
			return nil
		}
		fmt.Fprintf(out, "galnotes v%s\n", version.App)
		fmt.Fprintf(out, "  Git Commit:     %s\n", version.Commit)
		fmt.Fprintf(out, "  Build Date:     %s\n", version.BuildDate)
		fmt.Fprintf(out, "  History Schema: %s\n", version.HistorySchema)
		fmt.Fprintf(out, "  Go Version:     %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:        %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVar(&versionCheck, "check", "", "semver constraint the version must satisfy")
}
