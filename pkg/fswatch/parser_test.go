package fswatch_test

import (
	"errors"

	. "github.com/black-desk/dirwatch/pkg/fswatch"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Event parsing", func() {
	DescribeTable("valid output",
		func(text string, expected []types.Event) {
			events, err := ParseEvents(text)
			Expect(err).To(Succeed())
			Expect(events).To(Equal(expected))
		},
		Entry("single line", "/watched/dir 2", []types.Event{
			{Handle: types.InvalidHandle, Path: "/watched/dir", Flags: types.Created},
		}),
		Entry("several lines with surrounding blanks", "\n/a 514\n/b 8\n", []types.Event{
			{Handle: types.InvalidHandle, Path: "/a", Flags: types.Created | types.IsFile},
			{Handle: types.InvalidHandle, Path: "/b", Flags: types.Removed},
		}),
		Entry("empty lines in between", "/a 2\n\n/b 4\n \n/c 8", []types.Event{
			{Handle: types.InvalidHandle, Path: "/a", Flags: types.Created},
			{Handle: types.InvalidHandle, Path: "/b", Flags: types.Updated},
			{Handle: types.InvalidHandle, Path: "/c", Flags: types.Removed},
		}),
		Entry("nothing", "  \n", nil),
	)

	DescribeTable("invalid output",
		func(text string, line string) {
			events, err := ParseEvents(text)
			Expect(events).To(BeNil())

			var invalid *ErrInvalidOutput
			Expect(errors.As(err, &invalid)).To(BeTrue())
			Expect(invalid.Line).To(Equal(line))
		},
		Entry("words", "invalid outputs", "invalid outputs"),
		Entry("three fields", "/a 2 extra", "/a 2 extra"),
		Entry("single word", "/a 2\ninvalid", "invalid"),
		Entry("flags not a number", "/a Created", "/a Created"),
		Entry("negative flags", "/a -2", "/a -2"),
	)
})
