package watchtab_test

import (
	"errors"
	"testing"

	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/dirwatch/pkg/watchtab"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Watch table", func() {
	var t *Table

	BeforeEach(func() {
		t = New()
		Expect(t.Register(types.WatchedPath{Path: "/w/", Handle: 1, IsDir: true})).To(Succeed())
		Expect(t.Register(types.WatchedPath{Path: "/w/keep.log", Handle: 2})).To(Succeed())
	})

	It("should find registered paths in both spellings", func() {
		Expect(t.IsWatched("/w/")).To(BeTrue())
		Expect(t.IsWatched("/w")).To(BeTrue())
		Expect(t.IsWatched("/w/keep.log")).To(BeTrue())
		Expect(t.IsWatched("/w/other.log")).To(BeFalse())
		Expect(t.Len()).To(Equal(2))
	})

	It("should look entries up by handle and by path", func() {
		e, ok := t.Lookup(1)
		Expect(ok).To(BeTrue())
		Expect(e).To(Equal(types.WatchedPath{Path: "/w/", Handle: 1, IsDir: true}))

		e, ok = t.LookupPath("/w")
		Expect(ok).To(BeTrue())
		Expect(e.Handle).To(Equal(types.Handle(1)))

		_, ok = t.Lookup(3)
		Expect(ok).To(BeFalse())
	})

	It("should unregister by handle and give the path back", func() {
		path, err := t.Unregister(1)
		Expect(err).To(Succeed())
		Expect(path).To(Equal("/w/"))
		Expect(t.IsWatched("/w")).To(BeFalse())
		Expect(t.List()).To(Equal([]string{"/w/keep.log"}))
	})

	It("should refuse unknown handles", func() {
		_, err := t.Unregister(42)
		var unknown *ErrUnknownHandle
		Expect(errors.As(err, &unknown)).To(BeTrue())
		Expect(unknown.Handle).To(Equal(types.Handle(42)))
	})

	It("should refuse a handle registered twice", func() {
		err := t.Register(types.WatchedPath{Path: "/elsewhere", Handle: 2})
		var dup *ErrDuplicateWatch
		Expect(errors.As(err, &dup)).To(BeTrue())
		Expect(dup.Existing.Path).To(Equal("/w/keep.log"))
		Expect(t.Len()).To(Equal(2))
	})

	It("should refuse a path registered twice", func() {
		err := t.Register(types.WatchedPath{Path: "/w", Handle: 7, IsDir: true})
		var dup *ErrDuplicateWatch
		Expect(errors.As(err, &dup)).To(BeTrue())
		Expect(dup.Existing.Handle).To(Equal(types.Handle(1)))
	})

	It("should forget everything on Clear", func() {
		t.Clear()
		Expect(t.IsWatched("/w/")).To(BeFalse())
		Expect(t.IsWatched("/w/keep.log")).To(BeFalse())
		Expect(t.List()).To(BeEmpty())
		Expect(t.Entries()).To(BeEmpty())
	})

	It("should list paths in order", func() {
		Expect(t.Register(types.WatchedPath{Path: "/a", Handle: 3})).To(Succeed())
		Expect(t.List()).To(Equal([]string{"/a", "/w/", "/w/keep.log"}))
		Expect(t.Entries()[0].Handle).To(Equal(types.Handle(3)))
	})

	It("should keep aliases of one handle", func() {
		Expect(t.Alias(types.WatchedPath{Path: "/w/link.log", Handle: 2})).To(Succeed())
		Expect(t.IsWatched("/w/link.log")).To(BeTrue())
		Expect(t.Len()).To(Equal(3))
		Expect(t.Handles()).To(Equal(2))

		e, ok := t.Lookup(2)
		Expect(ok).To(BeTrue())
		Expect(e.Path).To(Equal("/w/keep.log"))

		var unknown *ErrUnknownHandle
		err := t.Alias(types.WatchedPath{Path: "/w/other.log", Handle: 9})
		Expect(errors.As(err, &unknown)).To(BeTrue())

		path, err := t.Unregister(2)
		Expect(err).To(Succeed())
		Expect(path).To(Equal("/w/keep.log"))
		Expect(t.List()).To(Equal([]string{"/w/"}))
	})

	It("should remove one path and keep the handle while aliases remain", func() {
		Expect(t.Alias(types.WatchedPath{Path: "/w/link.log", Handle: 2})).To(Succeed())

		e, orphaned, ok := t.RemovePath("/w/keep.log")
		Expect(ok).To(BeTrue())
		Expect(orphaned).To(BeFalse())
		Expect(e.Handle).To(Equal(types.Handle(2)))

		e, ok = t.Lookup(2)
		Expect(ok).To(BeTrue())
		Expect(e.Path).To(Equal("/w/link.log"))

		_, orphaned, ok = t.RemovePath("/w/link.log")
		Expect(ok).To(BeTrue())
		Expect(orphaned).To(BeTrue())
		Expect(t.Handles()).To(Equal(1))

		_, _, ok = t.RemovePath("/w/link.log")
		Expect(ok).To(BeFalse())
	})

	Context("with a nested directory", func() {
		BeforeEach(func() {
			Expect(t.Register(types.WatchedPath{Path: "/w/d/", Handle: 3, IsDir: true})).To(Succeed())
			Expect(t.Register(types.WatchedPath{Path: "/w/d/sub/", Handle: 4, IsDir: true})).To(Succeed())
			Expect(t.Register(types.WatchedPath{Path: "/w/d/sub/x.log", Handle: 5})).To(Succeed())
			Expect(t.Register(types.WatchedPath{Path: "/w/dd.log", Handle: 6})).To(Succeed())
		})

		It("should move a directory with everything below it", func() {
			Expect(t.Rebind(3, "/w/e/")).To(Succeed())
			Expect(t.List()).To(Equal([]string{
				"/w/",
				"/w/dd.log",
				"/w/e/",
				"/w/e/sub/",
				"/w/e/sub/x.log",
				"/w/keep.log",
			}))

			e, ok := t.Lookup(5)
			Expect(ok).To(BeTrue())
			Expect(e.Path).To(Equal("/w/e/sub/x.log"))

			e, ok = t.LookupPath("/w/e/sub")
			Expect(ok).To(BeTrue())
			Expect(e).To(Equal(types.WatchedPath{Path: "/w/e/sub/", Handle: 4, IsDir: true}))
		})

		It("should refuse to move onto a watched path", func() {
			err := t.Rebind(3, "/w/keep.log")
			var dup *ErrDuplicateWatch
			Expect(errors.As(err, &dup)).To(BeTrue())
			Expect(t.IsWatched("/w/d/sub/x.log")).To(BeTrue())

			var unknown *ErrUnknownHandle
			Expect(errors.As(t.Rebind(42, "/w/x"), &unknown)).To(BeTrue())
		})

		It("should remove a directory with everything below it", func() {
			orphans := t.RemoveTree("/w/d")
			Expect(orphans).To(ConsistOf(types.Handle(3), types.Handle(4), types.Handle(5)))
			Expect(t.List()).To(Equal([]string{"/w/", "/w/dd.log", "/w/keep.log"}))
		})
	})
})

func TestWatchTable(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Watch Table Suite")
}
