// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"github.com/hairizuan-noorazman/std-generator/testcase"
)

// SampleReply is a model reply wrapping a two-record array in prose.
const SampleReply = `Here you go:
[{"title":"A","steps":["s1","s2"],"expected":"E","tags":["ui","smoke"]},{"title":"B"}]
Let me know if you need more.`

// SampleCSV is the export of SampleReply under the folder "Login".
const SampleCSV = "Title,Steps,Expected,Folder,Tags\n" +
	"A,\"s1\ns2\",E,Login,\"ui,smoke\"\n" +
	"B,,,Login,\n"

// PNGBytes starts with the PNG signature so content sniffing reports image/png.
var PNGBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR fake image body")

// SampleTestCases returns the records of SampleReply after normalization.
func SampleTestCases() []testcase.TestCase {
	return []testcase.TestCase{
		{
			Title:    "A",
			Steps:    []string{"s1", "s2"},
			Expected: "E",
			Tags:     []string{"ui", "smoke"},
		},
		{
			Title: "B",
			Steps: []string{},
			Tags:  []string{},
		},
	}
}
