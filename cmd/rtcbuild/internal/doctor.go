package internal

import (
	"fmt"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/openrtc/rtcbuild/internal/toolchain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the host for the required build tools",
	Long: `Doctor probes the host for the external tools a platform build invokes
and reports anything missing or too old. gn and gclient come with
depot_tools, so they only resolve after setup has run.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	p, err := selectedPlatform()
	if err != nil {
		return err
	}

	failed := 0
	for _, c := range toolchain.Doctor(p) {
		if c.OK() {
			if c.Version != "" {
				log.Infof("%-12s %s (%s)", c.Tool, c.Path, c.Version)
			} else {
				log.Infof("%-12s %s", c.Tool, c.Path)
			}
			continue
		}
		failed++
		log.Warnf("%-12s %v", c.Tool, c.Err)
	}
	if failed > 0 {
		return fmt.Errorf("%d tool(s) missing or unusable", failed)
	}
	return nil
}
