// Package common contains shared constants and sentinel errors used across
// the image studio components.
package common

// OpenAIKeyHeaderName carries a caller-supplied OpenAI key on HTTP API
// requests. It is forwarded to the image service and never persisted.
const OpenAIKeyHeaderName = "X-OpenAI-Key"

// HistorySlotKey is the metadata slot holding the serialized history list.
const HistorySlotKey = "history"
