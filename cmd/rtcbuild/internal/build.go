package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openrtc/rtcbuild/internal/config"
	"github.com/openrtc/rtcbuild/internal/engine"
)

var flagDebug bool

var buildCmd = &cobra.Command{
	Use:   "build <dir>",
	Short: "Build WebRTC packages in the target directory",
	Long: `Build cleans previous output, generates and compiles every target in
the platform's build matrix, and assembles the final packages under
<dir>/build_webrtc/build/<platform>.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&flagDebug, "debug", false, "Make a Debug build (defaults to Release)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	p, err := selectedPlatform()
	if err != nil {
		return err
	}
	tree, err := resolveTree(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	eng := engine.New(tree, p, flagDebug, cfg)
	if err := eng.Build(); err != nil {
		return err
	}
	fmt.Printf("WebRTC build for %s completed in %s\n", p, tree.BuildDir(p))
	return nil
}
