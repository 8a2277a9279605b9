// Package preview is the live-edit bridge between the admin builder and a
// rendered page. Inbound messages pass an origin allowlist, are reduced into
// the preview state by a pure function, and each accepted push is answered
// with the re-rendered page followed by one acknowledgement.
package preview

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type tags an inbound or outbound message.
type Type string

// Inbound message types.
const (
	InitialData    Type = "INITIAL_DATA"
	TemplateUpdate Type = "TEMPLATE_UPDATE"
	PropertyChange Type = "PROPERTY_CHANGE"
	PageNavigation Type = "PAGE_NAVIGATION"
	SectionUpdate  Type = "section_update"
	ThemeUpdate    Type = "THEME_UPDATE"
)

// Outbound message types.
const (
	TemplateReady   Type = "TEMPLATE_READY"
	Rendered        Type = "RENDERED"
	NavigationStart Type = "NAVIGATION_START"
	Navigate        Type = "NAVIGATE"

	AckInitialRender  Type = "INITIAL_RENDER_COMPLETE"
	AckUpdate         Type = "UPDATE_COMPLETE"
	AckPropertyChange Type = "PROPERTY_CHANGE_COMPLETE"
	AckSectionUpdate  Type = "SECTION_UPDATE_COMPLETE"
	AckThemeUpdate    Type = "THEME_UPDATE_COMPLETE"
)

var inbound = map[Type]bool{
	InitialData:    true,
	TemplateUpdate: true,
	PropertyChange: true,
	PageNavigation: true,
	SectionUpdate:  true,
	ThemeUpdate:    true,
}

// Message is one inbound message. Data is the payload object; the other
// fields are used by navigation and section updates only. Origin is the
// origin of the window that posted it, as seen by the relaying frame.
type Message struct {
	Type       Type           `json:"type"`
	Origin     string         `json:"origin,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Page       string         `json:"page,omitempty"`
	Section    string         `json:"section,omitempty"`
	RoomID     string         `json:"roomId,omitempty"`
	FacilityID string         `json:"facilityId,omitempty"`
}

// ErrUnknownType is returned for a message tag the bridge does not handle.
var ErrUnknownType = errors.New("preview: unknown message type")

// Decode parses an inbound message.
func Decode(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, fmt.Errorf("preview: decode message: %w", err)
	}
	if !inbound[m.Type] {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	return m, nil
}

// Outbound is a message sent back to the frame.
type Outbound struct {
	Type Type           `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}
