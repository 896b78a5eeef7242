// Package httpapi exposes the teaching assistant as a JSON API over HTTP.
//
// Routes:
//
//	POST /query   answer a question, optionally with a base64 image
//	POST /api/    legacy alias of /query
//	GET  /health  per-source chunk and embedding counts
//	ANY  /mcp     streamable MCP endpoint, when configured
package httpapi
