package models

import "time"

// Session is the metadata document for one photo session. It is stored in
// full at sessions/{id}/meta.json and rewritten on every accepted upload.
type Session struct {
	SessionID    string        `json:"sessionId"`    // Opaque random identifier, doubles as the access token
	Title        string        `json:"title"`        // Display title, may be empty
	Photographer string        `json:"photographer"` // Name of the session creator
	Groups       []string      `json:"groups"`       // Group labels participants can tag uploads with
	CreatedAt    time.Time     `json:"createdAt"`    // Session creation timestamp
	ExpiresAt    time.Time     `json:"expiresAt"`    // Fixed at creation, never renewed
	PhotoCount   int           `json:"photoCount"`   // Always equals len(Photos)
	Photos       []PhotoRecord `json:"photos"`       // Append-only upload history
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// PhotoRecord describes one accepted upload. Records are never edited or
// removed once appended.
type PhotoRecord struct {
	Fname   string `json:"fname"`   // Sanitized filename, also the asset key component
	GroupID string `json:"groupId"` // Group label supplied with the upload, may be empty
	Size    int64  `json:"size"`    // Declared size in bytes
	Type    string `json:"type"`    // Declared media type
}
