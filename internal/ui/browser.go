package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"rspecify/internal/domain"
	"rspecify/internal/nodeid"
)

const maxLongreprLines = 200

// FailureBrowser displays the failed reports of a session in an interactive TUI
type FailureBrowser struct {
	writer *TerminalWriter
}

// NewFailureBrowser creates a new FailureBrowser. Paths are shown relative to
// the start directory of tw.
func NewFailureBrowser(tw *TerminalWriter) *FailureBrowser {
	return &FailureBrowser{writer: tw}
}

// View displays reports until the user quits
func (fb *FailureBrowser) View(reports []*domain.Report) error {
	if len(reports) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, rep := range reports {
		list.AddItem(listItemText(rep, i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Test Failures (%d total) | ↑↓ navigate, → details, ← back, [yellow]q[white] to exit ", len(reports)))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(reports) {
			statsView.SetText(fb.formatStats(reports[index]))
			detailsView.SetText(fb.formatDetails(reports[index])).ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC, tcell.KeyEsc:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
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

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func listItemText(rep *domain.Report, index int) string {
	name := strings.TrimSpace(nodeid.Humanize(nodeid.Name(rep.NodeID)))
	if name == "" {
		name = rep.NodeID
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(name))
}

// formatStats formats the header line of a failed report
func (fb *FailureBrowser) formatStats(rep *domain.Report) string {
	path := nodeid.File(rep.NodeID)
	if path == "" {
		path = "Unknown path"
	} else {
		path = fb.writer.BestRelPath(path)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[cyan]path:[white] [yellow]%s[white]", tview.Escape(path))
	for _, segment := range nodeid.Split(rep.NodeID)[1:] {
		fmt.Fprintf(&b, "::[yellow]%s[white]", tview.Escape(segment))
	}
	b.WriteString("\n")
	return b.String()
}

// formatDetails formats a failed report using tview color tags
func (fb *FailureBrowser) formatDetails(rep *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(rep.NodeID))
	if rep.Location.Path != "" {
		fmt.Fprintf(&b, "[cyan]Location: %s", tview.Escape(fb.writer.BestRelPath(rep.Location.Path)))
		if rep.Location.Line >= 0 {
			fmt.Fprintf(&b, ":%d", rep.Location.Line)
		}
		b.WriteString("[white]\n")
	}
	if rep.When != domain.PhaseCall {
		fmt.Fprintf(&b, "[yellow]Phase: %s[white]\n", rep.When)
	}
	if rep.Node != nil {
		fmt.Fprintf(&b, "[yellow]Worker: %s[white]\n", rep.Node.GatewayID)
	}
	b.WriteString("\n")

	if rep.Longrepr == "" {
		return b.String()
	}
	lines := strings.Split(strings.TrimRight(rep.Longrepr, "\n"), "\n")
	for i, line := range lines {
		if i == maxLongreprLines {
			fmt.Fprintf(&b, "[gray]... and %d more lines[white]\n", len(lines)-maxLongreprLines)
			break
		}
		b.WriteString(tview.Escape(line))
		b.WriteString("\n")
	}
	return b.String()
}
