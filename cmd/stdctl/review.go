package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/testcase"
	"github.com/rivo/tview"
)

// reviewItemText renders one list entry with its selection marker.
func reviewItemText(index int, tc testcase.TestCase, selected bool) string {
	marker := "[gray]" + tview.Escape("[ ]") + "[white]"
	if selected {
		marker = "[green]" + tview.Escape("[x]") + "[white]"
	}
	return fmt.Sprintf("%s [yellow]%d.[white] %s", marker, index+1, tview.Escape(tc.Title))
}

// reviewHeader summarizes the selection and the key bindings.
func reviewHeader(total, selected int) string {
	exporting := selected
	if selected == 0 {
		exporting = total
	}
	return fmt.Sprintf(" %d test cases, %d selected, %d will be written | [yellow]space[white] toggle, [yellow]a[white] all, [yellow]n[white] none, → details, [yellow]w[white] write, Ctrl+C abort ",
		total, selected, exporting)
}

// formatCaseDetails renders a test case for the details pane.
func formatCaseDetails(tc testcase.TestCase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]Title:[white] %s\n\n", tview.Escape(tc.Title))
	fmt.Fprintf(&b, "[yellow]Preconditions:[white] %s\n", tview.Escape(tc.Preconditions))
	fmt.Fprintf(&b, "[yellow]Severity:[white] %s\n\n", tview.Escape(tc.Severity))
	b.WriteString("[yellow]Steps:[white]\n")
	for i, step := range tc.Steps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, tview.Escape(step))
	}
	fmt.Fprintf(&b, "\n[yellow]Expected:[white] %s\n", tview.Escape(tc.Expected))
	fmt.Fprintf(&b, "[yellow]Tags:[white] %s\n", tview.Escape(strings.Join(tc.Tags, ", ")))
	return b.String()
}

// runReview shows the generated test cases in a terminal list. Selection
// changes go straight to the session so the export uses the same rules as
// the server. It returns true when the user asks to write.
func runReview(sessions *session.Manager, sessionID uuid.UUID) (bool, error) {
	sess, err := sessions.Get(sessionID)
	if err != nil {
		return false, err
	}

	app := tview.NewApplication()
	write := false

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	for i, tc := range sess.TestCases {
		list.AddItem(reviewItemText(i, tc, sess.Selected[i]), "", 0, nil)
	}

	refresh := func(s *session.Session) {
		sess = s
		for i, tc := range sess.TestCases {
			list.SetItemText(i, reviewItemText(i, tc, sess.Selected[i]), "")
		}
		headerView.SetText(reviewHeader(len(sess.TestCases), sess.SelectedCount()))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(sess.TestCases) {
			detailsView.SetText(formatCaseDetails(sess.TestCases[index])).ScrollToBeginning()
		}
	}

	apply := func(s *session.Session, err error) {
		if err != nil {
			headerView.SetText("[red]" + tview.Escape(err.Error()))
			return
		}
		refresh(s)
	}

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyRight, tcell.KeyEnter:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case ' ':
				index := list.GetCurrentItem()
				if index >= 0 && index < len(sess.Selected) {
					apply(sessions.SetSelected(sessionID, index, !sess.Selected[index]))
				}
				return nil
			case 'a', 'A':
				apply(sessions.SelectAll(sessionID, true))
				return nil
			case 'n', 'N':
				apply(sessions.SelectAll(sessionID, false))
				return nil
			case 'w', 'W':
				write = true
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	refresh(sess)
	updateDetails()

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(detailsView, 0, 2, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return false, fmt.Errorf("failed to run review: %w", err)
	}

	return write, nil
}
