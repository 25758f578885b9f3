package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

func printTable(out io.Writer, headers []string, rows [][]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func printMessage(out io.Writer, msg string) {
	fmt.Fprintln(out, msg)
}

func printSuccess(out io.Writer, msg string) {
	fmt.Fprintln(out, color.GreenString("✓ %s", msg))
}

func printWarning(out io.Writer, msg string) {
	fmt.Fprintln(out, color.YellowString("! %s", msg))
}

func printError(out io.Writer, msg string) {
	fmt.Fprintln(out, color.RedString("✗ %s", msg))
}

// startSpinner shows an indeterminate spinner on out until the returned
// function is called.
func startSpinner(out io.Writer, description string) func() {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
		bar.Finish()
	}
}
