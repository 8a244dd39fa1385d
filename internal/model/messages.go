package model

import "encoding/json"

type MessageType string

const (
	MessageTypeRegister    MessageType = "register"
	MessageTypeRegistered  MessageType = "registered"
	MessageTypeUnregister  MessageType = "unregister"
	MessageTypePing        MessageType = "ping"
	MessageTypePong        MessageType = "pong"
	MessageTypePrintJob    MessageType = "print_receipt"
	MessageTypePrintRaw    MessageType = "print_raw"
	MessageTypeOpenDrawer  MessageType = "open_drawer"
	MessageTypePrinted     MessageType = "printed"
	MessageTypePrintFailed MessageType = "print_failed"
)

// --- WebSocket Messages (agent mode) ---

type WSMessage struct {
	Type     MessageType     `json:"type"`
	AgentKey string          `json:"agent_key,omitempty"`
	JobID    string          `json:"job_id,omitempty"`
	Receipt  json.RawMessage `json:"receipt,omitempty"` // Keep raw to parse into specific structs
	Data     string          `json:"data,omitempty"`    // base64 payload for print_raw
	Error    string          `json:"error,omitempty"`
}
