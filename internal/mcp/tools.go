package mcp

import "github.com/mark3labs/mcp-go/mcp"

// findStateTool defines the find_state MCP tool.
var findStateTool = mcp.NewTool("find_state",
	mcp.WithDescription("Look up US states by name or postal code. Results are ranked: name prefix, code prefix, name substring, code substring."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Partial state name or code, e.g. \"new\" or \"ca\""),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of matches to return (default 10)"),
	),
)

// renderJSONTool defines the render_json MCP tool.
var renderJSONTool = mcp.NewTool("render_json",
	mcp.WithDescription("Render a JSON document as syntax-highlighted HTML markup, preserving member order."),
	mcp.WithString("json",
		mcp.Required(),
		mcp.Description("The JSON document to render"),
	),
	mcp.WithString("title",
		mcp.Description("Optional header shown above the document"),
	),
)

// getLawsTool defines the get_laws MCP tool.
var getLawsTool = mcp.NewTool("get_laws",
	mcp.WithDescription("Fetch the configured LegiScan dataset and summarise the session and the documents extracted from it."),
	mcp.WithString("file",
		mcp.Description("Basename of one extracted document to return in full, e.g. \"HB1.json\""),
	),
)
