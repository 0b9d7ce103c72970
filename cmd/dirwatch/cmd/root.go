package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	dwlog "github.com/black-desk/dirwatch/internal/log"
	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/lib/go/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flags struct {
	CfgPath string
}

var rootCmd = &cobra.Command{
	Use:   "dirwatch",
	Short: "Report changes under a set of directories",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf(
				"\n\n%w\n"+CheckDocumentString,
				err,
			)

			return
		}()
		err = rootCmdRun(cmd.Context())
		return
	},
}

// loadConfig reads the configuration file.
// The default configuration is used
// when the file at the default path is missing.
func loadConfig(log *zap.SugaredLogger) (ret *config.Config, err error) {
	defer Wrap(&err)

	var content []byte
	content, err = os.ReadFile(flags.CfgPath)
	if errors.Is(err, os.ErrNotExist) && flags.CfgPath == defaultCfgPath() {
		log.Warnw("Configuration file missing fallback to default config.",
			"file", flags.CfgPath,
		)

		content = []byte(config.DefaultConfig)
		err = nil
	} else if err != nil {
		Wrap(
			&err,
			"read configuration from %s",
			flags.CfgPath,
		)
		return
	}

	return config.New(
		config.WithContent(content),
		config.WithLogger(log),
	)
}

func rootCmdRun(ctx context.Context) (err error) {
	var cfg *config.Config
	cfg, err = loadConfig(logger.Get("dirwatch"))
	if err != nil {
		return
	}

	log, closeLog := dwlog.New("dirwatch", cfg.Log)
	defer func() {
		closeErr := closeLog()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	d, err := injectedDirwatch(cfg, log, os.Stdout)
	if err != nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			cancel(&ErrCancelBySignal{Signal: sig})
		case <-ctx.Done():
		}
	}()

	err = d.Run(ctx)
	if err == nil {
		return
	}

	log.Debugw(
		"Daemon exited with error.",
		"error", err,
	)

	var cancelBySignal *ErrCancelBySignal
	if errors.As(context.Cause(ctx), &cancelBySignal) {
		log.Infow("Signal received, exiting...",
			"signal", cancelBySignal.Signal,
		)
		err = nil
		return
	}

	return
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func defaultCfgPath() string {
	cfgPath := os.Getenv("CONFIGURATION_DIRECTORY")
	if cfgPath == "" {
		return DirwatchCfgPath
	}

	return cfgPath + "/config.yaml"
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&flags.CfgPath,
		"config", "c", defaultCfgPath(),
		"the configure file to use",
	)
}
