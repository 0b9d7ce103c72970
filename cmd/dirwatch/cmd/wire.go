//go:build wireinject
// +build wireinject

package cmd

import (
	"io"

	"github.com/black-desk/dirwatch/pkg/dirwatch"
	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/google/wire"
	"go.uber.org/zap"
)

func injectedDirwatch(
	*config.Config, *zap.SugaredLogger, io.Writer,
) (
	*dirwatch.Dirwatch, error,
) {
	panic(wire.Build(set))
}

var set = wire.NewSet(
	provideChans,
	provideDirwatch,
	provideEngine,
	provideHook,
	provideInputChan,
	provideOutputChan,
	providePrinter,
)
