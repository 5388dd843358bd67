package surface

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/rivo/tview"
)

var log = logger.GetOrCreate("surface")

var (
	borderColor = tcell.ColorGray
	titleColor  = tcell.ColorHotPink
	headerColor = tcell.ColorYellow
)

var regionTitles = map[common.RegionID]string{
	common.RegionRequestsPerMinute: "Requests / minute",
	common.RegionAvgResponseTime:   "Avg response time",
	common.RegionTopSourceIPs:      "Top source IPs",
	common.RegionMethodDist:        "Methods",
	common.RegionResponseCodes:     "Response codes",
	common.RegionTrend:             "Traffic, last hour",
	common.RegionStatus:            "Status",
}

// terminal renders the dashboard regions in a tview application
type terminal struct {
	app   *tview.Application
	root  *tview.Flex
	texts map[common.RegionID]*tview.TextView
	table *tview.Table

	mutRunning sync.Mutex
	running    bool
	done       chan struct{}
}

// NewTerminal builds the terminal layout. The application is not started until Start is called.
func NewTerminal() *terminal {
	t := &terminal{
		app:   tview.NewApplication(),
		texts: make(map[common.RegionID]*tview.TextView),
		table: tview.NewTable().SetBorders(false),
		done:  make(chan struct{}),
	}

	for region := range regionTitles {
		if region == common.RegionTopSourceIPs {
			continue
		}
		view := tview.NewTextView().SetDynamicColors(false).SetWrap(false)
		decorate(view.Box, regionTitles[region])
		t.texts[region] = view
	}
	decorate(t.table.Box, regionTitles[common.RegionTopSourceIPs])
	setTableHeader(t.table)

	counters := tview.NewFlex().
		AddItem(t.texts[common.RegionRequestsPerMinute], 0, 1, false).
		AddItem(t.texts[common.RegionAvgResponseTime], 0, 1, false).
		AddItem(t.texts[common.RegionStatus], 0, 2, false)
	lists := tview.NewFlex().
		AddItem(t.table, 0, 2, false).
		AddItem(t.texts[common.RegionMethodDist], 0, 1, false).
		AddItem(t.texts[common.RegionResponseCodes], 0, 1, false).
		AddItem(t.texts[common.RegionTrend], 0, 2, false)

	t.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(counters, 3, 0, false).
		AddItem(lists, 0, 1, false)

	t.app.SetRoot(t.root, true)
	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			t.app.Stop()
			return nil
		}
		return event
	})

	return t
}

func decorate(box *tview.Box, title string) {
	box.SetBorder(true).
		SetBorderColor(borderColor).
		SetTitle(" " + title + " ").
		SetTitleColor(titleColor)
}

func setTableHeader(table *tview.Table) {
	table.SetCell(0, 0, tview.NewTableCell("Source IP").SetTextColor(headerColor).SetSelectable(false))
	table.SetCell(0, 1, tview.NewTableCell("Count").SetTextColor(headerColor).SetSelectable(false).SetAlign(tview.AlignRight))
}

// Start runs the tview application on its own goroutine
func (t *terminal) Start() {
	t.mutRunning.Lock()
	defer t.mutRunning.Unlock()

	if t.running {
		return
	}
	t.running = true

	go func() {
		defer close(t.done)

		err := t.app.Run()
		if err != nil {
			log.Error("terminal dashboard stopped", "error", err)
		}

		t.mutRunning.Lock()
		t.running = false
		t.mutRunning.Unlock()
	}()
}

// Done is closed once the application exits, either by Close or by the user pressing q
func (t *terminal) Done() <-chan struct{} {
	return t.done
}

// Apply validates the batch and then schedules it on the UI goroutine
func (t *terminal) Apply(writes []common.RegionWrite) error {
	for _, write := range writes {
		err := t.validate(write)
		if err != nil {
			return err
		}
	}

	t.mutRunning.Lock()
	running := t.running
	t.mutRunning.Unlock()

	if !running {
		t.applyToViews(writes)
		return nil
	}

	t.app.QueueUpdateDraw(func() {
		t.applyToViews(writes)
	})

	return nil
}

func (t *terminal) validate(write common.RegionWrite) error {
	if !isKnownKind(write.Kind) {
		return fmt.Errorf("%w: %s for region %s", ErrUnknownWriteKind, write.Kind, write.Region)
	}
	if write.Region == common.RegionTopSourceIPs {
		return nil
	}
	_, exists := t.texts[write.Region]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownRegion, write.Region)
	}

	return nil
}

func (t *terminal) applyToViews(writes []common.RegionWrite) {
	for _, write := range writes {
		if write.Region == common.RegionTopSourceIPs {
			t.table.Clear()
			setTableHeader(t.table)
			for i, row := range write.Rows {
				for j, cell := range row {
					tableCell := tview.NewTableCell(tview.Escape(cell))
					if j > 0 {
						tableCell.SetAlign(tview.AlignRight)
					}
					t.table.SetCell(i+1, j, tableCell)
				}
			}
			continue
		}

		view := t.texts[write.Region]
		switch write.Kind {
		case common.WriteText:
			view.SetText(write.Text)
		case common.WriteItems:
			view.SetText(strings.Join(write.Items, "\n"))
		case common.WriteRows:
			lines := make([]string, 0, len(write.Rows))
			for _, row := range write.Rows {
				lines = append(lines, strings.Join(row, " | "))
			}
			view.SetText(strings.Join(lines, "\n"))
		}
	}
}

// Close stops the application
func (t *terminal) Close() error {
	t.mutRunning.Lock()
	running := t.running
	t.mutRunning.Unlock()

	if running {
		t.app.Stop()
		<-t.done
	}

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (t *terminal) IsInterfaceNil() bool {
	return t == nil
}
