package mail

import "time"

// Status describes the relay connection lifecycle.
type Status string

const (
	StatusNotInitialized Status = "NotInitialized"
	StatusInitializing   Status = "Initializing"
	StatusConnected      Status = "Connected"
	StatusFailed         Status = "Failed"
)

// Snapshot is a point-in-time view of the connection state, served by the
// status page and the JSON status endpoint. The mailbox secret itself is
// never exposed, only whether it is set.
type Snapshot struct {
	CurrentStatus        Status    `json:"currentStatus"`
	PasswordSet          bool      `json:"passwordSet"`
	LastError            string    `json:"lastError,omitempty"`
	LastChecked          time.Time `json:"lastChecked"`
	ReconnectAttempts    int       `json:"reconnectAttempts"`
	MaxReconnectAttempts int       `json:"maxReconnectAttempts"`
	Host                 string    `json:"host"`
	Port                 int       `json:"port"`
}
