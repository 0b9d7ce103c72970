//go:build linux

package dirwatch_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/black-desk/dirwatch/internal/tests/logger"
	. "github.com/black-desk/dirwatch/pkg/dirwatch"
	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/gomega-helper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/sourcegraph/conc/pool"
)

var _ = Describe("Daemon with the native engine", func() {
	DescribeTable("should report changes under the watched tree",
		func(primitive string) {
			root, err := os.MkdirTemp("", "dirwatch-d-*")
			Expect(err).To(Succeed())
			root = filepath.Clean(root)
			DeferCleanup(os.RemoveAll, root)

			log, err := logger.ProvideLogger()
			Expect(err).To(Succeed())

			cfg, err := config.New(config.WithContent([]byte(`
version: 1
engine: native
paths: [` + root + `]
suffixes: [.go]
masks: [Created]
native:
  primitive: ` + primitive + `
output:
  format: json
`)))
			Expect(err).To(Succeed())

			ch := make(chan types.Event)
			engine, err := NewEngine(cfg, ch, log)
			Expect(err).To(Succeed())

			buf := gbytes.NewBuffer()
			d, err := New(
				WithConfig(cfg),
				WithLogger(log),
				WithEngine(engine, ch),
				WithPrinter(NewPrinter(buf, cfg.Output.Format)),
			)
			Expect(err).To(Succeed())

			ctx, cancel := context.WithCancel(context.Background())
			p := pool.New().WithErrors()
			p.Go(func() error {
				return d.Run(ctx)
			})
			DeferCleanup(func() {
				cancel()
				Expect(p.Wait()).To(MatchErr(context.Canceled))
			})

			// Files created before the tree is watched are missed,
			// so keep creating new ones.
			n := 0
			Eventually(func() string {
				n++
				name := filepath.Join(root, fmt.Sprintf("main-%d.go", n))
				Expect(os.WriteFile(name, nil, 0o644)).To(Succeed())
				return string(buf.Contents())
			}).Should(ContainSubstring(`"path":"` + root + `/main-`))

			Expect(string(buf.Contents())).To(ContainSubstring(`"flags":["Created","IsFile"]`))
		},
		Entry("inotify", "inotify"),
		Entry("fsnotify", "fsnotify"),
	)
})
