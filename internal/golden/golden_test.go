package golden

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestGoldenFiles(t *testing.T) {
	files, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".md"), func(t *testing.T) {
			content, err := os.ReadFile(file)
			be.Err(t, err, nil)

			cases, err := Extract(string(content))
			be.Err(t, err, nil)

			for _, tc := range cases {
				t.Run(tc.Name, func(t *testing.T) {
					out, err := Run(tc)
					be.Err(t, err, nil)

					for _, a := range tc.Assertions {
						be.Equal(t, out.Actual(a.Type), a.Content)
					}
				})
			}
		})
	}
}

func TestRunRejectsUnknownInput(t *testing.T) {
	_, err := Run(Case{Name: "t", Input: "1", InputType: "vex-type"})
	be.Err(t, err, "unknown input type")
}

func TestCleanProgramHasNoErrors(t *testing.T) {
	out, err := Run(Case{InputType: InputProgram, Input: "1"})
	be.Err(t, err, nil)
	be.Equal(t, len(out.Errors), 0)
	be.Equal(t, out.Actual(AssertError), "")
}
