package types

// WSMessage is a WebSocket message exchanged with the host shell
type WSMessage struct {
	Type   string                 `json:"type"`
	ViewID string                 `json:"view_id,omitempty"`
	View   *View                  `json:"view,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// WS message types pushed to the host shell
const (
	WSActive           = "pip.active"
	WSRestoring        = "pip.restoring"
	WSRestoreRequested = "pip.restore_requested"
)

// AnchorRequest asks the session to track a view as its anchor
type AnchorRequest struct {
	ViewID string `json:"view_id" binding:"required"`
}

// StartRequest starts (or retries) the PiP session
type StartRequest struct {
	ContentID     string `json:"content_id,omitempty"`
	PreferredSize *Size  `json:"preferred_size,omitempty"`
}

// ContentRequest registers or swaps embedded content
type ContentRequest struct {
	ContentID string                 `json:"content_id" binding:"required"`
	Blueprint map[string]interface{} `json:"blueprint,omitempty"`
}

// RestoreCompleteRequest finishes a pending restore onto a destination view
type RestoreCompleteRequest struct {
	ViewID string `json:"view_id" binding:"required"`
}

// ViewReport registers or updates a host view's geometry
type ViewReport struct {
	ID       string `json:"id" binding:"required"`
	WindowID string `json:"window_id,omitempty"`
	Frame    Rect   `json:"frame"`
}
