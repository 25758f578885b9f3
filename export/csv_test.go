package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/hairizuan-noorazman/std-generator/testcase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EmptyListIsHeaderOnly(t *testing.T) {
	out, err := Render(nil, "Login")
	require.NoError(t, err)
	assert.Equal(t, "Title,Steps,Expected,Folder,Tags\n", string(out))
}

func TestRender_QuotesEmbeddedSeparators(t *testing.T) {
	cases := []testcase.TestCase{{
		Title:    "T",
		Steps:    []string{"step1", "step2"},
		Expected: "E",
		Tags:     []string{"ui", "smoke"},
	}}

	out, err := Render(cases, "Login")
	require.NoError(t, err)

	want := "Title,Steps,Expected,Folder,Tags\n" +
		"T,\"step1\nstep2\",E,Login,\"ui,smoke\"\n"
	assert.Equal(t, want, string(out))
}

func TestRender_PreservesOrderAndRoundTrips(t *testing.T) {
	cases := []testcase.TestCase{
		{Title: "first", Steps: []string{"a"}, Tags: []string{}},
		{Title: "second \"quoted\"", Expected: "x, y"},
		{Title: "third"},
	}

	out, err := Render(cases, "Checkout")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{"first", "a", "", "Checkout", ""}, records[1])
	assert.Equal(t, []string{"second \"quoted\"", "", "x, y", "Checkout", ""}, records[2])
	assert.Equal(t, "third", records[3][0])
}

func TestNewRow(t *testing.T) {
	row := NewRow(testcase.TestCase{
		Title:         "T",
		Preconditions: "ignored",
		Severity:      "ignored",
		Steps:         []string{"s1", "s2", "s3"},
		Expected:      "E",
		Tags:          []string{"a", "b"},
	}, "Folder")

	assert.Equal(t, Row{
		Title:    "T",
		Steps:    "s1\ns2\ns3",
		Expected: "E",
		Folder:   "Folder",
		Tags:     "a,b",
	}, row)
	assert.Equal(t, []string{"T", "s1\ns2\ns3", "E", "Folder", "a,b"}, row.Record())
}
