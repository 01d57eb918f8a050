package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openrtc/rtcbuild/internal/bootstrap"
)

var setupCmd = &cobra.Command{
	Use:   "setup <dir>",
	Short: "Prepare the target directory for building",
	Long: `Setup clones depot_tools, fetches the WebRTC checkout for the selected
platform and installs host build dependencies where needed. Re-running
against a prepared directory only syncs the checkout.`,
	Args: cobra.ExactArgs(1),
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	p, err := selectedPlatform()
	if err != nil {
		return err
	}
	tree, err := resolveTree(args[0])
	if err != nil {
		return err
	}

	if err := bootstrap.New(tree).Setup(p); err != nil {
		return err
	}
	fmt.Printf("WebRTC setup for %s completed in %s\n", p, tree.Root())
	return nil
}
