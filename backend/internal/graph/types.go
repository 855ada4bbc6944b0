package graph

import "time"

// SyncResult summarizes one SyncNetwork run
type SyncResult struct {
	SyncID      string        `json:"sync_id"`
	People      int           `json:"people"`
	Games       int           `json:"games"`
	Connections int           `json:"connections"`
	Dangling    int           `json:"dangling"`
	Removed     int           `json:"removed"`
	Duration    time.Duration `json:"duration"`
}

// personRow is one Person node as written by SyncNetwork
type personRow struct {
	Name        string
	Position    int
	Connections []string
	Games       []string
}

func (p personRow) params(syncID, now string) map[string]interface{} {
	return map[string]interface{}{
		"name":        p.Name,
		"position":    p.Position,
		"connections": p.Connections,
		"games":       p.Games,
		"syncID":      syncID,
		"now":         now,
	}
}
