//go:build linux

package inwatch_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/black-desk/dirwatch/internal/tests/logger"
	. "github.com/black-desk/dirwatch/pkg/inwatch"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sourcegraph/conc/pool"
)

var _ = Describe("Inotify watcher on a real tree", func() {
	var (
		root   string
		w      *Watcher
		events chan types.Event
		p      *pool.ErrorPool
	)

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "dirwatch-w-*")
		Expect(err).To(Succeed())
		root = filepath.Clean(root)
		DeferCleanup(os.RemoveAll, root)

		Expect(os.Mkdir(filepath.Join(root, "skip"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "keep.log"), nil, 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "other.txt"), nil, 0o644)).To(Succeed())

		log, err := logger.ProvideLogger()
		Expect(err).To(Succeed())

		events = make(chan types.Event, 256)
		w, err = New(
			WithPaths(root),
			WithExcludedPaths(filepath.Join(root, "skip")),
			WithSuffixes(".log"),
			WithLogger(log),
			WithHandler(func(_ context.Context, _ *Watcher, event types.Event) bool {
				select {
				case events <- event:
				default:
				}
				return true
			}),
		)
		Expect(err).To(Succeed())

		Expect(w.Watch(context.Background())).To(Succeed())

		p = pool.New().WithErrors()
		p.Go(func() error {
			return w.Run(context.Background())
		})
	})

	AfterEach(func() {
		Expect(w.Stop(context.Background())).To(Succeed())
		Expect(p.Wait()).To(Succeed())
	})

	It("should watch the accepted paths only", func() {
		paths, err := w.WatchedPaths(context.Background())
		Expect(err).To(Succeed())
		Expect(paths).To(Equal([]string{
			root + "/",
			filepath.Join(root, "keep.log"),
		}))
	})

	It("should report new files with a matching suffix", func() {
		Expect(os.WriteFile(filepath.Join(root, "ignored.txt"), nil, 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "new.log"), nil, 0o644)).To(Succeed())

		Eventually(events).Should(Receive(And(
			HaveField("Path", filepath.Join(root, "new.log")),
			HaveField("Flags", types.Created|types.IsFile),
		)))
	})

	It("should watch directories created later", func() {
		sub := filepath.Join(root, "sub")
		Expect(os.Mkdir(sub, 0o755)).To(Succeed())

		Eventually(func() bool {
			watched, _ := w.IsWatched(context.Background(), sub)
			return watched
		}).Should(BeTrue())

		Expect(os.WriteFile(filepath.Join(sub, "deep.log"), nil, 0o644)).To(Succeed())

		Eventually(events).Should(Receive(HaveField("Path", filepath.Join(sub, "deep.log"))))
	})

	watched := func(path string) func() bool {
		return func() bool {
			ret, _ := w.IsWatched(context.Background(), path)
			return ret
		}
	}

	It("should follow a directory renamed inside the tree", func() {
		d := filepath.Join(root, "d")
		e := filepath.Join(root, "e")
		Expect(os.Mkdir(d, 0o755)).To(Succeed())
		Eventually(watched(d)).Should(BeTrue())

		Expect(os.Rename(d, e)).To(Succeed())

		Eventually(func() ([]string, error) {
			return w.WatchedPaths(context.Background())
		}).Should(And(
			ContainElement(e+"/"),
			Not(ContainElement(d+"/")),
		))

		Expect(os.WriteFile(filepath.Join(e, "x.log"), nil, 0o644)).To(Succeed())
		Eventually(events).Should(Receive(And(
			HaveField("Path", filepath.Join(e, "x.log")),
			HaveField("Flags", types.Created|types.IsFile),
		)))
	})

	It("should follow a renamed directory without moved-from events", func() {
		w.SetMasks(types.Created, types.Updated, types.MovedTo)
		Expect(w.Rewatch(context.Background())).To(Succeed())

		d := filepath.Join(root, "d")
		e := filepath.Join(root, "e")
		Expect(os.MkdirAll(filepath.Join(d, "sub"), 0o755)).To(Succeed())
		Eventually(watched(filepath.Join(d, "sub"))).Should(BeTrue())

		Expect(os.Rename(d, e)).To(Succeed())

		Eventually(func() ([]string, error) {
			return w.WatchedPaths(context.Background())
		}).Should(And(
			ContainElement(e+"/"),
			ContainElement(filepath.Join(e, "sub")+"/"),
			Not(ContainElement(d+"/")),
			Not(ContainElement(filepath.Join(d, "sub")+"/")),
		))

		Expect(os.WriteFile(filepath.Join(e, "sub", "x.log"), nil, 0o644)).To(Succeed())
		Eventually(events).Should(Receive(
			HaveField("Path", filepath.Join(e, "sub", "x.log")),
		))
	})

	It("should stop watching a directory moved out of the tree", func() {
		outside, err := os.MkdirTemp("", "dirwatch-out-*")
		Expect(err).To(Succeed())
		outside = filepath.Clean(outside)
		DeferCleanup(os.RemoveAll, outside)

		d := filepath.Join(root, "d")
		Expect(os.Mkdir(d, 0o755)).To(Succeed())
		Eventually(watched(d)).Should(BeTrue())

		moved := filepath.Join(outside, "d")
		Expect(os.Rename(d, moved)).To(Succeed())
		Eventually(watched(d)).Should(BeFalse())

		Expect(os.WriteFile(filepath.Join(moved, "x.log"), nil, 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "marker.log"), nil, 0o644)).To(Succeed())

		var seen []string
		Eventually(func() []string {
			select {
			case event := <-events:
				seen = append(seen, event.Path)
			default:
			}
			return seen
		}).Should(ContainElement(filepath.Join(root, "marker.log")))
		Expect(seen).NotTo(ContainElement(filepath.Join(d, "x.log")))
	})

	It("should watch a directory deleted and created again", func() {
		d := filepath.Join(root, "d")
		Expect(os.Mkdir(d, 0o755)).To(Succeed())
		Eventually(watched(d)).Should(BeTrue())

		Expect(os.RemoveAll(d)).To(Succeed())
		Eventually(watched(d)).Should(BeFalse())

		Expect(os.Mkdir(d, 0o755)).To(Succeed())
		Eventually(watched(d)).Should(BeTrue())

		Expect(os.WriteFile(filepath.Join(d, "y.log"), nil, 0o644)).To(Succeed())
		Eventually(events).Should(Receive(And(
			HaveField("Path", filepath.Join(d, "y.log")),
			HaveField("Flags", types.Created|types.IsFile),
		)))
	})

	It("should watch targets of symlinks and every name of a hard link", func() {
		z := filepath.Join(root, "z")
		Expect(os.MkdirAll(filepath.Join(z, "sub"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(z, "f.log"), nil, 0o644)).To(Succeed())
		Expect(os.Symlink(z, filepath.Join(root, "a"))).To(Succeed())
		Expect(os.Link(filepath.Join(root, "keep.log"), filepath.Join(root, "link.log"))).
			To(Succeed())

		Expect(w.Rewatch(context.Background())).To(Succeed())

		paths, err := w.WatchedPaths(context.Background())
		Expect(err).To(Succeed())
		Expect(paths).To(Equal([]string{
			root + "/",
			filepath.Join(root, "keep.log"),
			filepath.Join(root, "link.log"),
			z + "/",
			filepath.Join(z, "f.log"),
			filepath.Join(z, "sub") + "/",
		}))

		Expect(os.WriteFile(filepath.Join(z, "sub", "n.log"), nil, 0o644)).To(Succeed())
		Eventually(events).Should(Receive(
			HaveField("Path", filepath.Join(z, "sub", "n.log")),
		))
	})
})
