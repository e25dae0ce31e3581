// Package models lists the chat models available to the configured OpenAI
// or Azure OpenAI credentials.
package models
