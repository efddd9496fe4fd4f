package logkey

// Keys used across the service for structured logging.
const (
	TraceID = "Trace ID"
	ERROR   = "Error"
)
