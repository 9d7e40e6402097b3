// Package chats provides the provider-agnostic conversation model that request
// templates are built from.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/aicall/pkg/chats/message] holds roles and text messages
//   - [github.com/germanamz/aicall/pkg/chats/chat] holds the ordered conversation for a single invocation
//
// No provider or API code is included. Each provider package decides how a
// system message is encoded for its own schema.
package chats
