package models

import (
	"gorm.io/gorm"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionToggle = "toggle"
)

// Change is one successful mutation sent to the record gateway.
type Change struct {
	gorm.Model
	Entity   string `json:"entity" gorm:"index:idx_entity_record"`
	RecordID string `json:"record_id" gorm:"index:idx_entity_record"`
	Action   string `json:"action"`
	// Fields holds the JSON encoded payload that was sent.
	Fields string `json:"fields"`
}
