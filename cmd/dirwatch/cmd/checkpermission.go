package cmd

import (
	"fmt"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/spf13/cobra"
	"kernel.org/pub/linux/libs/security/libcap/cap"
)

// checkPermissionCmd represents the permission command
var checkPermissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Check permission",
	Long:  `Check whether dirwatch can read every directory it is asked to watch.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf("\n\n%w\n"+CheckDocumentString, err)

			return
		}()

		err = checkPermissionCmdRun()
		return
	},
}

// checkPermissionCmdRun only warns,
// dirwatch works without the capability on trees it can read.
func checkPermissionCmdRun() (err error) {
	defer Wrap(&err)
	capSet := cap.GetProc()
	hasCapDacReadSearch := false
	hasCapDacReadSearch, err = capSet.GetFlag(cap.Effective, cap.DAC_READ_SEARCH)
	if err != nil {
		return
	}

	if !hasCapDacReadSearch {
		checkLogger().Warnw(
			"CAP_DAC_READ_SEARCH is missing, directories not readable by the current user will not be watched.",
		)
		return
	}

	return
}

func init() {
	checkCmd.AddCommand(checkPermissionCmd)
}
