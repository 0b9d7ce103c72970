package dirwatch_test

import (
	"bytes"

	. "github.com/black-desk/dirwatch/pkg/dirwatch"
	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Printer", func() {
	event := types.Event{
		Path:  "/srv/app/main.go",
		Name:  "main.go",
		Flags: types.Updated | types.IsFile,
	}

	It("should print the path and the flag names.", func() {
		var buf bytes.Buffer
		Expect(NewPrinter(&buf, config.FormatText).Print(event)).To(Succeed())
		Expect(buf.String()).To(Equal("/srv/app/main.go Updated IsFile\n"))
	})

	It("should print one JSON object per line.", func() {
		var buf bytes.Buffer
		p := NewPrinter(&buf, config.FormatJSON)
		Expect(p.Print(event)).To(Succeed())
		Expect(p.Print(types.Event{Path: "/", Flags: types.Overflow})).To(Succeed())
		Expect(buf.String()).To(Equal(
			`{"path":"/srv/app/main.go","name":"main.go","flags":["Updated","IsFile"]}` + "\n" +
				`{"path":"/","flags":["Overflow"]}` + "\n",
		))
	})
})
