package fswatch_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/black-desk/dirwatch/internal/tests/logger"
	. "github.com/black-desk/dirwatch/pkg/fswatch"
	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/goleak"
)

type fakeProcess struct {
	mu         sync.Mutex
	out        []byte
	eof        bool
	ready      chan struct{}
	terminated bool
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{ready: make(chan struct{}, 1)}
}

func (p *fakeProcess) signal() {
	select {
	case p.ready <- struct{}{}:
	default:
	}
}

func (p *fakeProcess) Print(s string) {
	p.mu.Lock()
	p.out = append(p.out, s...)
	p.mu.Unlock()
	p.signal()
}

func (p *fakeProcess) Exit() {
	p.mu.Lock()
	p.eof = true
	p.mu.Unlock()
	p.signal()
}

func (p *fakeProcess) WaitReadable(ctx context.Context) error {
	for {
		p.mu.Lock()
		pending, eof := len(p.out), p.eof
		p.mu.Unlock()

		if pending > 0 {
			return nil
		}
		if eof {
			return io.EOF
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.ready:
		}
	}
}

func (p *fakeProcess) ReadAvailable() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	ret := p.out
	p.out = nil
	return ret
}

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	p.terminated = true
	p.mu.Unlock()
	p.Exit()
	return nil
}

func (p *fakeProcess) Wait() error {
	return nil
}

func (p *fakeProcess) Terminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.terminated
}

var _ = Describe("Fswatch watcher", func() {
	var (
		proc    *fakeProcess
		argv    []string
		w       *Watcher
		p       *pool.ErrorPool
		leakOpt goleak.Option
		runErr  chan error
	)

	BeforeEach(func() {
		leakOpt = goleak.IgnoreCurrent()

		binary := filepath.Join(GinkgoT().TempDir(), "fswatch")
		Expect(os.WriteFile(binary, nil, 0o755)).To(Succeed())

		log, err := logger.ProvideLogger()
		Expect(err).To(Succeed())

		proc = newFakeProcess()
		spawned := make(chan struct{})
		w, err = New(
			WithBinary(binary),
			WithPaths("/watched/dir"),
			WithLogger(log),
			WithSpawner(func(
				ctx context.Context, bin string, args []string,
			) (interfaces.Process, error) {
				argv = args
				close(spawned)
				return proc, nil
			}),
		)
		Expect(err).To(Succeed())

		runErr = make(chan error, 1)
		p = pool.New().WithErrors()
		p.Go(func() error {
			err := w.Run(context.Background())
			runErr <- err
			return nil
		})

		Eventually(spawned).Should(BeClosed())
	})

	AfterEach(func() {
		Expect(w.Stop(context.Background())).To(Succeed())
		Expect(p.Wait()).To(Succeed())
		Expect(goleak.Find(leakOpt)).To(Succeed())
	})

	It("should start fswatch with numeric event flags", func() {
		Expect(argv).To(ContainElements("--numeric", "--extended", "--event-flags"))
		Expect(argv[len(argv)-1]).To(Equal("/watched/dir"))
	})

	It("should dispatch by mask", func() {
		created := make(chan string, 4)
		removed := make(chan string, 4)
		batches := make(chan []types.Event, 4)

		w.On(types.Created, func(_ context.Context, path string) {
			created <- path
		})
		w.On(types.Removed, func(_ context.Context, path string) {
			removed <- path
		})
		w.OnChange(func(_ context.Context, events []types.Event) {
			batches <- events
		})

		proc.Print("/watched/dir/a 514\n/watched/dir/b 8\n")

		Eventually(batches).Should(Receive(HaveLen(2)))
		Eventually(created).Should(Receive(Equal("/watched/dir/a")))
		Eventually(removed).Should(Receive(Equal("/watched/dir/b")))
		Consistently(created, "50ms").ShouldNot(Receive())
	})

	It("should wait for complete lines", func() {
		created := make(chan string, 4)
		w.On(types.Created, func(_ context.Context, path string) {
			created <- path
		})

		proc.Print("/watched/dir/a")
		Consistently(created, "50ms").ShouldNot(Receive())

		proc.Print(" 2\n/watched/dir/b 2")
		Eventually(created).Should(Receive(Equal("/watched/dir/a")))
		Consistently(created, "50ms").ShouldNot(Receive())

		proc.Print("\n")
		Eventually(created).Should(Receive(Equal("/watched/dir/b")))
	})

	It("should report malformed output and keep going", func() {
		errs := make(chan error, 4)
		created := make(chan string, 4)

		w.OnError(func(_ context.Context, err error) {
			errs <- err
		})
		w.On(types.Created, func(_ context.Context, path string) {
			created <- path
		})

		proc.Print("invalid outputs\n")

		var err error
		Eventually(errs).Should(Receive(&err))
		var invalid *ErrInvalidOutput
		Expect(errors.As(err, &invalid)).To(BeTrue())
		Expect(invalid.Line).To(Equal("invalid outputs"))

		proc.Print("/watched/dir/a 2\n")
		Eventually(created).Should(Receive(Equal("/watched/dir/a")))
	})

	It("should stop from a callback", func() {
		calls := make(chan string, 4)
		w.On(types.Created, func(ctx context.Context, path string) {
			calls <- path
			Expect(w.Stop(ctx)).To(Succeed())
		})

		proc.Print("/watched/dir/a 2\n/watched/dir/b 2\n")

		Eventually(runErr).Should(Receive(BeNil()))
		Expect(proc.Terminated()).To(BeTrue())
		Expect(calls).To(HaveLen(1))
	})

	It("should fail when fswatch exits by itself", func() {
		created := make(chan string, 4)
		w.On(types.Created, func(_ context.Context, path string) {
			created <- path
		})

		proc.Print("/watched/dir/last 2")
		proc.Exit()

		var err error
		Eventually(runErr).Should(Receive(&err))

		var exited *ErrProcessExited
		Expect(errors.As(err, &exited)).To(BeTrue())
		Expect(created).To(Receive(Equal("/watched/dir/last")))
	})
})

func TestFswatch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fswatch Suite")
}
