package dirwatch_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/black-desk/dirwatch/pkg/dirwatch"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/gomega-helper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Hook", func() {
	It("should be nil for an empty command.", func() {
		hook, err := NewHook("  ", nil)
		Expect(err).To(Succeed())
		Expect(hook).To(BeNil())
	})

	It("should split the command like a shell.", func() {
		hook, err := NewHook(`notify-send "file changed" --urgency=low`, nil)
		Expect(err).To(Succeed())
		Expect(hook.Argv()).To(Equal([]string{
			"notify-send", "file changed", "--urgency=low",
		}))
	})

	It("should reject unterminated quotes.", func() {
		_, err := NewHook(`echo "oops`, nil)
		Expect(err).To(HaveOccurred())
	})

	It("should pass the event in the environment.", func() {
		sh, err := exec.LookPath("sh")
		if err != nil {
			Skip("no shell available")
		}

		out := filepath.Join(GinkgoT().TempDir(), "out")
		hook, err := NewHook(
			sh+` -c 'printf "%s|%s|%s|%s" "$DIRWATCH_PATH" "$DIRWATCH_NAME" "$DIRWATCH_FLAGS" "$DIRWATCH_FLAGS_VALUE" > "$0"' `+out,
			nil,
		)
		Expect(err).To(Succeed())

		Expect(hook.Run(context.Background(), types.Event{
			Path:  "/srv/a.go",
			Name:  "a.go",
			Flags: types.Created | types.IsFile,
		})).To(Succeed())

		content, err := os.ReadFile(out)
		Expect(err).To(Succeed())
		Expect(string(content)).To(Equal("/srv/a.go|a.go|Created IsFile|514"))
	})

	It("should report a failing command.", func() {
		sh, err := exec.LookPath("sh")
		if err != nil {
			Skip("no shell available")
		}

		hook, err := NewHook(sh+` -c 'echo broken; exit 3'`, nil)
		Expect(err).To(Succeed())

		err = hook.Run(context.Background(), types.Event{Path: "/srv/a.go"})
		Expect(err).To(MatchErr(&ErrHook{}))

		var exitErr *exec.ExitError
		Expect(errors.As(err, &exitErr)).To(BeTrue())
		Expect(exitErr.ExitCode()).To(Equal(3))
	})
})
