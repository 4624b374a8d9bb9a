package dto

// Property event actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// PropertyEvent is published after every committed property write.
type PropertyEvent struct {
	Action     string `json:"action"`
	PropertyID string `json:"property_id"`
}

// Valid reports whether the event can be handled.
func (e PropertyEvent) Valid() bool {
	if e.PropertyID == "" {
		return false
	}
	switch e.Action {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}
