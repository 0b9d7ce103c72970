package cmd

import (
	"io"

	"github.com/black-desk/dirwatch/pkg/dirwatch"
	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/types"
	"go.uber.org/zap"
)

type chans struct {
	in  <-chan types.Event
	out chan<- types.Event
}

func provideChans() chans {
	ch := make(chan types.Event, 64)

	return chans{ch, ch}
}

func provideInputChan(chs chans) <-chan types.Event {
	return chs.in
}

func provideOutputChan(chs chans) chan<- types.Event {
	return chs.out
}

func provideEngine(
	cfg *config.Config,
	out chan<- types.Event,
	logger *zap.SugaredLogger,
) (
	interfaces.Engine, error,
) {
	return dirwatch.NewEngine(cfg, out, logger)
}

func providePrinter(cfg *config.Config, w io.Writer) *dirwatch.Printer {
	return dirwatch.NewPrinter(w, cfg.Output.Format)
}

func provideHook(
	cfg *config.Config, logger *zap.SugaredLogger,
) (
	*dirwatch.Hook, error,
) {
	return dirwatch.NewHook(cfg.Output.Exec, logger)
}

func provideDirwatch(
	cfg *config.Config,
	logger *zap.SugaredLogger,
	engine interfaces.Engine,
	in <-chan types.Event,
	printer *dirwatch.Printer,
	hook *dirwatch.Hook,
) (
	*dirwatch.Dirwatch, error,
) {
	return dirwatch.New(
		dirwatch.WithConfig(cfg),
		dirwatch.WithLogger(logger),
		dirwatch.WithEngine(engine, in),
		dirwatch.WithPrinter(printer),
		dirwatch.WithHook(hook),
	)
}
