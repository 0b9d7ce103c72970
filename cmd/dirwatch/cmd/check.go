package cmd

import (
	"fmt"

	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/lib/go/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkFlags struct {
	EnableLogger bool
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check system requirements",
	Long:  `Check kernel configuration, permission, configuration and the fswatch binary.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			checkLogger().Errorw("Failed to check system requirements.",
				"config", flags.CfgPath,
				"error", err,
			)

			err = fmt.Errorf("\n\n%w\n"+CheckDocumentString, err)

			return
		}()

		err = checkCmdRun()
		return
	},
}

func checkLogger() *zap.SugaredLogger {
	if checkFlags.EnableLogger {
		return logger.Get("dirwatch")
	}
	return zap.NewNop().Sugar()
}

func checkCmdRun() (err error) {
	err = checkKernelCmdRun()
	if err != nil {
		return
	}

	err = checkPermissionCmdRun()
	if err != nil {
		return
	}

	var cfg *config.Config
	cfg, err = checkConfig()
	if err != nil {
		return
	}

	if cfg.Engine != config.EngineFSWatch {
		return
	}

	err = checkBinary(cfg.FSWatch.Binary)
	if err != nil {
		return
	}

	return
}

func init() {
	checkCmd.PersistentFlags().BoolVar(
		&checkFlags.EnableLogger,
		"enable-logger", false,
		"log while checking",
	)

	rootCmd.AddCommand(checkCmd)
}
