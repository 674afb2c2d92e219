package domain

// Store handles durable local storage (BoltDB + memory).
// Keys use the cinepedia_ prefix (see store.Key*).
type Store interface {
	// === Catalog snapshot (versioned key) ===
	GetRecords() ([]Record, bool)
	SaveRecords(records []Record) error

	// === Profile snapshot ===
	GetProfile() (Profile, bool)
	SaveProfile(profile Profile) error

	// === Scalar settings (theme, maintenance flag, announcement) ===
	GetSetting(key string) (string, bool)
	SaveSetting(key, value string) error

	// Clear wipes every bucket
	Clear() error

	Close() error
}
