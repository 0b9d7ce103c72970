// Created by interfacer; DO NOT EDIT

package interfaces

import (
	"context"
)

// Engine is an interface generated for "github.com/black-desk/dirwatch/pkg/inwatch.Watcher".
type Engine interface {
	Run(context.Context) error
	Stop(context.Context) error
}
