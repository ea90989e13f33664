package dto

import "chameleon.app/honeypot/internal/model"

// ConversationInput is the inbound payload of the engagement endpoint.
type ConversationInput struct {
	SessionID           string          `json:"sessionId" binding:"required,min=10"`
	Message             model.Message   `json:"message" binding:"required"`
	ConversationHistory []model.Message `json:"conversationHistory"`
	Metadata            map[string]any  `json:"metadata"`
}

// AgentOutput is the engagement endpoint's response shape.
type AgentOutput struct {
	Status          string         `json:"status"`
	Reply           string         `json:"reply"`
	InternalMetrics map[string]any `json:"internal_metrics"`
}
