package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openrtc/rtcbuild/internal/bootstrap"
)

var syncCmd = &cobra.Command{
	Use:   "sync <dir>",
	Short: "Synchronize the WebRTC checkout",
	Long:  `Sync runs gclient sync -D on an already-fetched WebRTC checkout.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	p, err := selectedPlatform()
	if err != nil {
		return err
	}
	tree, err := resolveTree(args[0])
	if err != nil {
		return err
	}

	if err := bootstrap.New(tree).Sync(p); err != nil {
		return err
	}
	fmt.Printf("WebRTC sync for %s completed in %s\n", p, tree.Root())
	return nil
}
