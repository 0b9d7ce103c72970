package dirwatch_test

import (
	"os/exec"

	. "github.com/black-desk/dirwatch/pkg/dirwatch"
	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/dirwatch/pkg/fswatch"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/gomega-helper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Engine", func() {
	It("should refuse an unknown engine.", func() {
		_, err := NewEngine(&config.Config{Engine: "kqueue"}, nil, nil)
		Expect(err).To(MatchErr(&ErrUnknownEngine{}))
	})

	DescribeTable("should open primitive factories by name",
		func(name config.Primitive) {
			factory, err := PrimitiveFactory(name, nil)
			Expect(err).To(Succeed())
			Expect(factory).NotTo(BeNil())
		},
		Entry("inotify", config.PrimitiveInotify),
		Entry("notify", config.PrimitiveNotify),
		Entry("fsnotify", config.PrimitiveFsnotify),
		Entry("default", config.Primitive("")),
	)

	It("should refuse an unknown primitive.", func() {
		_, err := PrimitiveFactory("kqueue", nil)
		Expect(err).To(MatchErr(&ErrUnknownPrimitive{}))
	})

	It("should build the fswatch command from the configuration.", func() {
		sh, err := exec.LookPath("sh")
		if err != nil {
			Skip("no shell available")
		}

		cfg, err := config.New(config.WithContent([]byte(`
version: 1
engine: fswatch
paths: [/srv/app]
fswatch:
  binary: ` + sh + `
  latency: 0.5
  events: [Created]
  options:
    - key: --follow-links
    - key: --format-time
      value: "%F"
`)))
		Expect(err).To(Succeed())

		engine, err := NewEngine(cfg, make(chan types.Event), nil)
		Expect(err).To(Succeed())
		Expect(engine).To(BeAssignableToTypeOf(&fswatch.Watcher{}))

		cmd, err := engine.(*fswatch.Watcher).Command()
		Expect(err).To(Succeed())
		Expect(cmd.Binary).To(Equal(sh))
		Expect(cmd.Args).To(ContainElements(
			"--latency=0.5",
			"--event=Created",
			"--follow-links",
			"--format-time=%F",
			"--recursive",
			"--insensitive",
		))
		Expect(cmd.Args[len(cmd.Args)-1]).To(Equal("/srv/app"))
	})
})
