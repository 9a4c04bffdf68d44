// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-stats/internal/stats"
	statsmock "github.com/KirkDiggler/rpg-stats/internal/stats/mock"
)

// RegisteredSheets records sheets passed to a mock registry
type RegisteredSheets struct {
	Sheets []stats.Sheet
}

// ExpectRegistrations expects count Register calls and records each sheet
func ExpectRegistrations(mockRegistry *statsmock.MockRegistry, count int) *RegisteredSheets {
	recorded := &RegisteredSheets{}
	mockRegistry.EXPECT().
		Register(gomock.Any()).
		Do(func(sheet stats.Sheet) {
			recorded.Sheets = append(recorded.Sheets, sheet)
		}).
		Times(count)
	return recorded
}

// ExpectUnregister expects sheet to be unregistered exactly once
func ExpectUnregister(mockRegistry *statsmock.MockRegistry, sheet stats.Sheet) {
	mockRegistry.EXPECT().
		Unregister(sheet).
		Times(1)
}
