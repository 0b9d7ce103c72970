package dirwatch

import (
	"github.com/black-desk/dirwatch/pkg/pathfilter"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Filtering fswatch events", func() {
	var filter *pathfilter.Filter

	BeforeEach(func() {
		var err error
		filter, err = pathfilter.New(
			pathfilter.WithExcludedPaths([]string{"/srv/app/vendor"}),
			pathfilter.WithSuffixes([]string{".go"}),
		)
		Expect(err).To(Succeed())
	})

	DescribeTable("accept",
		func(mask types.EventFlag, event types.Event, expected bool) {
			Expect(accept(filter, mask, event)).To(Equal(expected))
		},
		Entry("matching suffix",
			types.NoOp,
			types.Event{Path: "/srv/app/main.go", Flags: types.Updated | types.IsFile},
			true),
		Entry("other suffix",
			types.NoOp,
			types.Event{Path: "/srv/app/README", Flags: types.Updated | types.IsFile},
			false),
		Entry("directory without suffix",
			types.NoOp,
			types.Event{Path: "/srv/app/pkg", Flags: types.Created | types.IsDir},
			true),
		Entry("excluded path",
			types.NoOp,
			types.Event{Path: "/srv/app/vendor", Flags: types.Removed | types.IsDir},
			false),
		Entry("mask intersects",
			types.Created|types.Removed,
			types.Event{Path: "/srv/app/main.go", Flags: types.Created | types.IsFile},
			true),
		Entry("mask does not intersect",
			types.Created,
			types.Event{Path: "/srv/app/main.go", Flags: types.Updated | types.IsFile},
			false),
	)
})
