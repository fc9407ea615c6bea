package server

import "github.com/Saucyfinn/Wairimu-Website-sub000/internal/viewer"

type MessageType string

// Client to server.
const (
	MsgPointerDown   MessageType = "pointer_down"
	MsgPointerMove   MessageType = "pointer_move"
	MsgPointerUp     MessageType = "pointer_up"
	MsgPointerCancel MessageType = "pointer_cancel"
	MsgResize        MessageType = "resize"
	MsgSelectScene   MessageType = "select_scene"
	MsgFullscreen    MessageType = "fullscreen"
	MsgClosePanel    MessageType = "close_panel"
)

// Server to client. Pictures travel as binary WebP messages.
const (
	MsgState MessageType = "state"
	MsgError MessageType = "error"
)

// ClientMessage is one input event from the browser.
type ClientMessage struct {
	Type  MessageType `json:"type"`
	X     float64     `json:"x,omitempty"`
	Y     float64     `json:"y,omitempty"`
	W     int         `json:"w,omitempty"`
	H     int         `json:"h,omitempty"`
	Scene string      `json:"scene,omitempty"`
}

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

type StatePayload struct {
	Session string      `json:"session"`
	View    viewer.View `json:"view"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
