// Package dialog shows a window listing every attribute and metric of a
// battery snapshot.
package dialog

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/cptspacemanspiff/batblock/internal/battery"
)

const (
	appID = "org.batblock.Dialog"
	title = "Battery Stats"
)

// Row is one label/value line of the dialog.
type Row struct {
	Label string
	Value string
}

// Rows lists the snapshot in display order.
func Rows(s *battery.Snapshot) []Row {
	a := s.Attributes()
	return []Row{
		{"Battery name:", s.Device()},
		{"Battery charge:", milli(a.ChargeNow, "mAh")},
		{"Charge when full:", milli(a.ChargeFull, "mAh")},
		{"Design full:", milli(a.ChargeFullDesign, "mAh")},
		{"Cycle count:", fmt.Sprintf("%d cycles", a.CycleCount)},
		{"Status:", a.Status.String()},
		{"Current now:", milli(a.CurrentNow, "mA")},
		{"Avg current:", milli(a.CurrentAvg, "mA")},
		{"% Remaining:", fmt.Sprintf("%d%%", s.PercentRemaining())},
		{"Time remaining:", s.FormatTimeRemaining() + " hrs"},
		{"Battery health:", fmt.Sprintf("%d%%", s.Health())},
		{"Abs % remaining:", fmt.Sprintf("%d%%", s.AbsPercentRemaining())},
	}
}

// sysfs reports µAh and µA.
func milli(micro uint64, unit string) string {
	return fmt.Sprintf("%d %s", micro/1000, unit)
}

// Content builds the window body. onOK runs when the OK button is pressed.
func Content(rows []Row, onOK func()) fyne.CanvasObject {
	cells := make([]fyne.CanvasObject, 0, len(rows)*2)
	for _, r := range rows {
		cells = append(cells, widget.NewLabel(r.Label), widget.NewLabel(r.Value))
	}
	grid := container.New(layout.NewFormLayout(), cells...)

	ok := widget.NewButton("OK", onOK)
	ok.Importance = widget.HighImportance

	return container.NewPadded(container.NewVBox(grid, container.NewHBox(layout.NewSpacer(), ok)))
}

// Show opens the dialog and blocks until it is closed.
func Show(s *battery.Snapshot) {
	a := app.NewWithID(appID)
	w := a.NewWindow(title)
	w.SetContent(Content(Rows(s), a.Quit))
	w.SetFixedSize(true)
	w.CenterOnScreen()
	w.ShowAndRun()
}
