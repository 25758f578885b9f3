package main

import (
	"strings"
	"testing"

	"github.com/hairizuan-noorazman/std-generator/testcase"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
)

func TestReviewItemText(t *testing.T) {
	tc := testcase.TestCase{Title: "Login [admin]"}

	unselected := reviewItemText(0, tc, false)
	assert.True(t, strings.HasPrefix(unselected, "[gray]"))
	assert.Contains(t, unselected, "1.")
	assert.Contains(t, unselected, tview.Escape("Login [admin]"))

	selected := reviewItemText(2, tc, true)
	assert.True(t, strings.HasPrefix(selected, "[green]"))
	assert.Contains(t, selected, "3.")
	assert.NotEqual(t, unselected, selected)
}

func TestReviewHeader(t *testing.T) {
	assert.Contains(t, reviewHeader(5, 0), "5 test cases, 0 selected, 5 will be written")
	assert.Contains(t, reviewHeader(5, 2), "5 test cases, 2 selected, 2 will be written")
}

func TestFormatCaseDetails(t *testing.T) {
	got := formatCaseDetails(testcase.TestCase{
		Title:         "Valid login",
		Preconditions: "User exists",
		Severity:      "High",
		Steps:         []string{"Open page", "Submit"},
		Expected:      "Dashboard shown",
		Tags:          []string{"auth", "smoke"},
	})

	assert.Contains(t, got, "Valid login")
	assert.Contains(t, got, "User exists")
	assert.Contains(t, got, "  1. Open page\n  2. Submit\n")
	assert.Contains(t, got, "Dashboard shown")
	assert.Contains(t, got, "auth, smoke")
}
