package telemetry

// Event names. Properties never carry task titles or user identifiers.
const (
	EventServeStarted      = "serve_started"
	EventCommandExecuted   = "command_executed"
	EventAssignmentCreated = "assignment_created"
	EventCalendarImported  = "calendar_imported"
	// EventOracleDegraded mirrors oracle.EventDegraded.
	EventOracleDegraded = "oracle_degraded"
)
