package cmd

import (
	"fmt"

	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/spf13/cobra"
)

// checkConfigCmd represents the config command
var checkConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Check configuration",
	Long:  `Validate configuration.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf("\n%w\n"+CheckDocumentString, err)

			return
		}()

		_, err = checkConfig()
		return
	},
}

func checkConfig() (ret *config.Config, err error) {
	defer Wrap(&err, "check configuration %s", flags.CfgPath)

	return loadConfig(checkLogger())
}

func init() {
	checkCmd.AddCommand(checkConfigCmd)
}
