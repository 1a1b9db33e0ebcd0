package models

import (
	"encoding/json"
	"time"
)

// AuditEntry is one row in audit_logs.
type AuditEntry struct {
	ID            string          `json:"id"`
	ActorUserID   *string         `json:"actor_user_id,omitempty"`
	ActorUsername string          `json:"actor_username"`
	ActorRole     string          `json:"actor_role"`
	Action        string          `json:"action"`
	EntityType    string          `json:"entity_type"`
	EntityID      *string         `json:"entity_id,omitempty"`
	Name          string          `json:"name,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
	IPAddr        *string         `json:"ip_addr,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AuditFilter narrows admin audit-log queries. Zero values mean no
// filter; Desc orders newest first.
type AuditFilter struct {
	Username   string
	Role       string
	EntityType string
	Action     string
	Limit      int
	Desc       bool
}
