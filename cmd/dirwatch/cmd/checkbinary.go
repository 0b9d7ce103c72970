package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/dirwatch/pkg/fswatch"
	"github.com/black-desk/dirwatch/pkg/process"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/spf13/cobra"
)

// checkBinaryCmd represents the binary command
var checkBinaryCmd = &cobra.Command{
	Use:   "binary",
	Short: "Check fswatch binary",
	Long:  `Check the fswatch binary used by the fswatch engine can be found and run.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf("\n\n%w\n"+CheckDocumentString, err)

			return
		}()

		var cfg *config.Config
		cfg, err = checkConfig()
		if err != nil {
			return
		}

		err = checkBinary(cfg.FSWatch.Binary)
		return
	},
}

func checkBinary(explicit string) (err error) {
	defer Wrap(&err, "Failed to check fswatch binary.")

	var binary string
	binary, err = fswatch.ResolveBinary(explicit)
	if err != nil {
		return
	}

	var version string
	version, err = binaryVersion(binary)
	if err != nil {
		return
	}

	checkLogger().Infow("Found fswatch.",
		"binary", binary,
		"version", version,
	)

	return
}

func binaryVersion(binary string) (ret string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var p *process.Process
	p, err = process.Start(ctx, binary, []string{"--version"},
		process.WithLogger(checkLogger()),
	)
	if err != nil {
		return
	}

	var output strings.Builder
	for {
		readErr := p.WaitReadable(ctx)
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			_ = p.Terminate()
			break
		}
		output.Write(p.ReadAvailable())
	}

	err = p.Wait()
	if err != nil {
		return
	}

	ret, _, _ = strings.Cut(output.String(), "\n")
	return
}

func init() {
	checkCmd.AddCommand(checkBinaryCmd)
}
