package models

import "time"

type CreateSessionRequest struct {
	Title        string   `json:"title"`
	Photographer string   `json:"photographer"`
	Groups       []string `json:"groups"`
}

type CreateSessionReply struct {
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UploadReply struct {
	OK         bool   `json:"ok"`
	Fname      string `json:"fname"`
	PhotoCount int    `json:"photoCount"`
}
