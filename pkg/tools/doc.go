// Package tools exposes text generation to MCP (Model Context Protocol) clients.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/aicall/pkg/tools/toolbox] holds the Tool type and a name-indexed ToolBox
//   - [github.com/germanamz/aicall/pkg/tools/aitools] builds the generate_text and list_providers tools on top of the engine
//   - [github.com/germanamz/aicall/pkg/tools/mcpserver] serves a ToolBox over the MCP protocol using the official MCP Go SDK
package tools
