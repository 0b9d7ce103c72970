package fswatch_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/black-desk/dirwatch/pkg/fswatch"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/gomega-helper"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Command building", func() {
	It("should render flags and values in order, paths last", func() {
		var opts Options
		opts.Set("--numeric", true)
		opts.Set("--latency", 0.5)

		Expect(BuildArguments(opts, []string{"/a", "/b"})).To(Equal(
			[]string{"--numeric", "--latency=0.5", "/a", "/b"},
		))
	})

	It("should leave falsy values out", func() {
		var opts Options
		opts.Set("--recursive", false)
		opts.Set("--from-path", "")
		opts.Set("--latency", 0.0)
		opts.Set("--batch-marker", nil)
		opts.Set("--event", []string{})
		opts.Set("--one-event", true)

		Expect(BuildArguments(opts, nil)).To(Equal([]string{"--one-event"}))
	})

	It("should repeat list values", func() {
		var opts Options
		opts.Set("--event", []string{"Created", "Removed"})
		opts.Set("--format", "%p %f")
		opts.Set("--monitor-property", 3)

		Expect(BuildArguments(opts, nil)).To(Equal([]string{
			"--event=Created", "--event=Removed",
			"--format=%p %f", "--monitor-property=3",
		}))
	})

	It("should print floats in the shortest form", func() {
		var opts Options
		opts.Set("--latency", 0.0001)
		Expect(BuildArguments(opts, nil)).To(Equal([]string{"--latency=0.0001"}))
	})

	It("should trim and deduplicate paths", func() {
		Expect(BuildArguments(Options{}, []string{" /a", "/b", "/a ", "", "/c"})).
			To(Equal([]string{"/a", "/b", "/c"}))
	})

	It("should keep the first position of a key when merging", func() {
		var defaults, user, fixed Options
		defaults.Set("--latency", 0.1)
		defaults.Set("--recursive", true)
		user.Set("--numeric", false)
		user.Set("--latency", 2.0)
		fixed.Set("--numeric", true)

		merged := Merge(defaults, user, fixed)
		Expect(merged.List()).To(Equal([]Option{
			{Key: "--latency", Value: 2.0},
			{Key: "--recursive", Value: true},
			{Key: "--numeric", Value: true},
		}))

		v, ok := merged.Get("--numeric")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(true))
	})

	Context("watcher command", func() {
		var binary string

		BeforeEach(func() {
			dir := GinkgoT().TempDir()
			binary = filepath.Join(dir, "fswatch")
			Expect(os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755)).To(Succeed())
		})

		It("should always ask for numeric event flags", func() {
			w, err := New(
				WithBinary(binary),
				WithPaths("/watched/dir"),
				WithOption("--numeric", false),
				WithOption("--one-per-batch", true),
			)
			Expect(err).To(Succeed())

			cmd, err := w.Command()
			Expect(err).To(Succeed())
			Expect(cmd.Binary).To(Equal(binary))
			Expect(cmd.Args).To(Equal([]string{
				"--latency=0.0001",
				"--recursive",
				"--insensitive",
				"--numeric",
				"--one-per-batch",
				"--extended",
				"--event-flags",
				"/watched/dir",
			}))
		})

		It("should pass event filters by name", func() {
			w, err := New(
				WithBinary(binary),
				WithPaths("/a", "/b"),
				WithEvents(types.Created|types.Removed),
				WithLatency(0.5),
				WithRecursive(false),
				WithFromPath("/etc/filters"),
			)
			Expect(err).To(Succeed())

			cmd, err := w.Command()
			Expect(err).To(Succeed())
			Expect(cmd.Args).To(Equal([]string{
				"--event=Created",
				"--event=Removed",
				"--latency=0.5",
				"--from-path=/etc/filters",
				"--insensitive",
				"--numeric",
				"--extended",
				"--event-flags",
				"/a", "/b",
			}))
			Expect(cmd.String()).To(HavePrefix(binary + " --event=Created"))
		})

		It("should need at least one path", func() {
			_, err := New(WithBinary(binary), WithPaths(" "))
			Expect(err).To(MatchErr(ErrPathsMissing))
		})
	})
})

var _ = Describe("Binary resolution", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should accept an explicit executable", func() {
		binary := filepath.Join(dir, "my-fswatch")
		Expect(os.WriteFile(binary, nil, 0o755)).To(Succeed())

		path, err := ResolveBinary(" " + binary + " ")
		Expect(err).To(Succeed())
		Expect(path).To(Equal(binary))
	})

	It("should refuse an explicit path that is not executable", func() {
		binary := filepath.Join(dir, "my-fswatch")
		Expect(os.WriteFile(binary, nil, 0o644)).To(Succeed())

		_, err := ResolveBinary(binary)
		var notExec *ErrBinaryNotExecutable
		Expect(errors.As(err, &notExec)).To(BeTrue())
		Expect(notExec.Path).To(Equal(binary))
	})

	It("should refuse an explicit path that does not exist", func() {
		_, err := ResolveBinary(filepath.Join(dir, uuid.NewString()))
		Expect(err).To(MatchErr(ErrBinaryNotFound))
	})

	It("should refuse a directory", func() {
		_, err := ResolveBinary(dir)
		Expect(err).To(MatchErr(ErrBinaryNotFound))
	})

	It("should search $PATH first", func() {
		binary := filepath.Join(dir, DefaultBinary)
		Expect(os.WriteFile(binary, nil, 0o755)).To(Succeed())
		GinkgoT().Setenv("PATH", dir)

		path, err := ResolveBinary("")
		Expect(err).To(Succeed())
		Expect(path).To(Equal(binary))
	})

	Context("without fswatch installed", func() {
		BeforeEach(func() {
			for _, fallback := range FallbackDirs {
				if _, err := os.Stat(filepath.Join(fallback, DefaultBinary)); err == nil {
					Skip("fswatch is installed in " + fallback)
				}
			}
		})

		It("should report a candidate that is not executable", func() {
			binary := filepath.Join(dir, DefaultBinary)
			Expect(os.WriteFile(binary, nil, 0o644)).To(Succeed())
			GinkgoT().Setenv("PATH", dir)

			_, err := ResolveBinary("")
			var notExec *ErrBinaryNotExecutable
			Expect(errors.As(err, &notExec)).To(BeTrue())
		})

		It("should report a missing binary", func() {
			GinkgoT().Setenv("PATH", dir)

			_, err := ResolveBinary("")
			Expect(err).To(MatchErr(ErrBinaryNotFound))
		})
	})
})
