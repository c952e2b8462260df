package domain

import "time"

// Severity of a user-facing notice
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// NoticeLife is how long a transient notice stays visible
const NoticeLife = 3 * time.Second

// Notice is a transient message shown to the user after an action
type Notice struct {
	Severity Severity
	Summary  string
	Detail   string
	Life     time.Duration
}
