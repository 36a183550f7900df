package constants

import "time"

const (
	RequestTimeout     = 30 * time.Second
	DatabaseTimeout    = 5 * time.Second
	ObjectStoreTimeout = 15 * time.Second
)

const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	HistoryLimit = 200

	// Subscribers that fall this far behind get dropped notifications
	// rather than blocking ledger writes.
	FeedBufferSize = 16
)

const (
	ReconcileWorkers = 4
)
