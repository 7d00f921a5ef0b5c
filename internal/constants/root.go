package constants

const (
	AppName            = "mealframe"
	DefaultKeyringUser = "api-token"
	DefaultConfigPath  = "~/.config/mealframe/mealframe.db"
	DefaultAPIBase     = "http://localhost:8000"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Keys for locally persisted state
	OfflineQueueKey    = "offline-queue"
	ReviewDismissedKey = "yesterday-review-dismissed"
	SnapshotKeyPrefix  = "snapshot-"
)
