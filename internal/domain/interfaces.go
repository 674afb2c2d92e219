package domain

// Notifier receives user-visible transient notices.
type Notifier interface {
	Notify(severity Severity, message, icon string)
}

// NoOpNotifier discards notices (for testing/batch operations).
type NoOpNotifier struct{}

func (NoOpNotifier) Notify(Severity, string, string) {}

// SyncObserver receives sync indicator transitions.
type SyncObserver interface {
	OnSyncStatus(status SyncStatus)
}

// NoOpObserver discards sync transitions.
type NoOpObserver struct{}

func (NoOpObserver) OnSyncStatus(SyncStatus) {}
