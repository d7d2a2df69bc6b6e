package calendar

import "time"

// Observer receives controller notifications. Implementations must not call
// back into the controller from a notification.
type Observer interface {
	// SelectionChanged reports the new selection; a zero date means cleared
	SelectionChanged(date time.Time)
	ReferenceMonthChanged(month time.Time)
	DisplayModeChanged(mode DisplayMode)
	// RequiredRowsChanged reports the number of week rows now visible
	RequiredRowsChanged(rows int)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are no-ops.
type ObserverFuncs struct {
	OnSelectionChanged      func(date time.Time)
	OnReferenceMonthChanged func(month time.Time)
	OnDisplayModeChanged    func(mode DisplayMode)
	OnRequiredRowsChanged   func(rows int)
}

func (f ObserverFuncs) SelectionChanged(date time.Time) {
	if f.OnSelectionChanged != nil {
		f.OnSelectionChanged(date)
	}
}

func (f ObserverFuncs) ReferenceMonthChanged(month time.Time) {
	if f.OnReferenceMonthChanged != nil {
		f.OnReferenceMonthChanged(month)
	}
}

func (f ObserverFuncs) DisplayModeChanged(mode DisplayMode) {
	if f.OnDisplayModeChanged != nil {
		f.OnDisplayModeChanged(mode)
	}
}

func (f ObserverFuncs) RequiredRowsChanged(rows int) {
	if f.OnRequiredRowsChanged != nil {
		f.OnRequiredRowsChanged(rows)
	}
}

type nopObserver struct{}

func (nopObserver) SelectionChanged(time.Time)      {}
func (nopObserver) ReferenceMonthChanged(time.Time) {}
func (nopObserver) DisplayModeChanged(DisplayMode)  {}
func (nopObserver) RequiredRowsChanged(int)         {}
