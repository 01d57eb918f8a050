package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/openrtc/rtcbuild/internal/matrix"
	"github.com/openrtc/rtcbuild/internal/paths"
	"github.com/openrtc/rtcbuild/internal/shell"
)

var (
	flagIOS     bool
	flagAndroid bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rtcbuild",
	Short: "rtcbuild builds distributable WebRTC binary packages",
	Long: `rtcbuild drives gn, ninja and the platform packaging tools to produce
distributable WebRTC binary packages: an xcframework for iOS (with macOS
companion slices) and per-ABI jars for Android.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			log.SetOutputLevel(log.Ldebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagIOS, "ios", false, "Use iOS as the target platform")
	rootCmd.PersistentFlags().BoolVar(&flagAndroid, "android", false, "Use Android as the target platform")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command and maps the outcome to the process exit
// status: a failed tool propagates its own exit code, an interrupt exits
// 130, everything else exits 1.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, shell.ErrInterrupted) {
		log.Warn("Interrupted")
		os.Exit(130)
	}
	log.Error(err)
	var te *shell.ToolError
	if errors.As(err, &te) {
		os.Exit(te.Code)
	}
	os.Exit(1)
}

// selectedPlatform validates the mutually exclusive platform flags.
func selectedPlatform() (matrix.Platform, error) {
	switch {
	case flagIOS && flagAndroid:
		return "", errors.New("--ios and --android cannot be specified at the same time")
	case flagIOS:
		return matrix.IOS, nil
	case flagAndroid:
		return matrix.Android, nil
	default:
		return "", errors.New("--ios or --android must be specified")
	}
}

// resolveTree validates the target directory and anchors the work tree in
// it by absolute path, so later phases never depend on the process cwd.
func resolveTree(dir string) (paths.Tree, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return paths.Tree{}, fmt.Errorf("the specified directory does not exist: %s", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return paths.Tree{}, err
	}
	return paths.New(abs), nil
}
