package handler

import (
	"github.com/google/uuid"

	"trialfinder/internal/trials/view"
)

// OpenResponse is returned by POST /views.
type OpenResponse struct {
	ViewID   uuid.UUID     `json:"view_id"`
	State    view.State    `json:"state"`
	Snapshot view.Snapshot `json:"snapshot"`
}
