package domain

import "time"

// StoreSettings configures documents and handles.
type StoreSettings struct {
	// OriginName is recorded in every fingerprint.
	OriginName string

	// UseTempFile makes writes go through a temporary file and a rename.
	UseTempFile bool

	// AllowEmptyFileName makes reads and writes with an empty path succeed
	// as no-ops instead of failing.
	AllowEmptyFileName bool

	// ExtraInfoNames are info sections beyond the built-in ones.
	ExtraInfoNames []string

	// ChildArgs maps an info section to the first arguments that mark a
	// line as a child of the preceding line.
	ChildArgs map[string][]string

	// Category names the content that promotes the file category.
	Category CategoryPolicy

	// Reload configures hot reload.
	Reload ReloadSettings
}

// ReloadSettings configures hot reload and cancellation.
type ReloadSettings struct {
	// Debounce is how long file events are batched before a reload.
	Debounce time.Duration

	// MinInterval is the minimum time between two reloads.
	MinInterval time.Duration

	// CancelWaitInterval is one wait step while closing during a read.
	CancelWaitInterval time.Duration

	// CancelWaitAttempts bounds the number of wait steps.
	CancelWaitAttempts int
}

// DefaultStoreSettings returns settings with sensible defaults.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		UseTempFile:        true,
		AllowEmptyFileName: true,
		ChildArgs: map[string][]string{
			InfoRoute: {"Task", "Goal", "Macro", "EndRoute"},
		},
		Category: DefaultCategoryPolicy(),
		Reload: ReloadSettings{
			Debounce:           250 * time.Millisecond,
			MinInterval:        time.Second,
			CancelWaitInterval: 10 * time.Millisecond,
			CancelWaitAttempts: 20,
		},
	}
}
