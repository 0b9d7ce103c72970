package cmd

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/spf13/cobra"
)

// checkKernelCmd represents the kernel command
var checkKernelCmd = &cobra.Command{
	Use:   "kernel",
	Short: "Check kernel configuration",
	Long:  `Check inotify support and the inotify watch limit.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf("\n\n%w\n"+CheckDocumentString, err)

			return
		}()

		err = checkKernelCmdRun()
		return
	},
}

func checkKernelCmdRun() (err error) {
	defer Wrap(&err, "Failed to check kernel config.")

	err = checkKernelConfig("/proc/config.gz")
	if errors.Is(err, os.ErrNotExist) {
		checkLogger().Warnw("Kernel config not available, skip it.",
			"error", err,
		)
		err = nil
	}
	if err != nil {
		return
	}

	var watches int
	watches, err = readMaxUserWatches("/proc/sys/fs/inotify/max_user_watches")
	if err != nil {
		return
	}

	if watches < MinUserWatches {
		checkLogger().Warnw("The inotify watch limit is low, large trees may not be watched.",
			"max_user_watches", watches,
		)
	}

	return
}

func checkKernelConfig(path string) (err error) {
	var configFile *os.File
	configFile, err = os.Open(path)
	if err != nil {
		return
	}
	defer configFile.Close()

	var gzipReader io.Reader
	gzipReader, err = gzip.NewReader(configFile)
	if err != nil {
		return
	}

	return parseKernelConfig(gzipReader)
}

func parseKernelConfig(r io.Reader) (err error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)

	var configInotifyUser bool

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		components := strings.SplitN(line, "=", 2)
		if len(components) != 2 {
			err = fmt.Errorf(
				"Unexpected format of kernel config (line: %s).",
				line,
			)
			Wrap(&err)
			return
		}

		if components[1] != "y" {
			continue
		}

		switch components[0] {
		case "CONFIG_INOTIFY_USER":
			configInotifyUser = true
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if !configInotifyUser {
		err = errors.New("CONFIG_INOTIFY_USER is missing in kernel config.")
		return
	}

	return
}

func readMaxUserWatches(path string) (ret int, err error) {
	var content []byte
	content, err = os.ReadFile(path)
	if err != nil {
		return
	}

	ret, err = strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		Wrap(&err, "parse %s", path)
		return
	}

	return
}

func init() {
	checkCmd.AddCommand(checkKernelCmd)
}
