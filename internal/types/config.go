package types

// RunMode determines which components a process starts
type RunMode string

const (
	// ModeLocal runs the API server and the reminder scheduler in one process
	ModeLocal RunMode = "local"
	// ModeAPI runs only the API server
	ModeAPI RunMode = "api"
	// ModeScheduler runs only the reminder scheduler
	ModeScheduler RunMode = "scheduler"
)

// LogLevel controls logger verbosity
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
