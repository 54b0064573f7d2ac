// Package internal contains the implementation packages of the ogglass
// preset server.
//
// # Package Organization
//
//   - presets: preset discovery, inheritance resolution, caching, diff and scaffolding
//   - tokens: token trees, placeholder resolution and CSS/JS/JSON/Tailwind export
//   - session: the active preset and its token overrides
//   - lint: regex-based validation and correction of component code
//   - generator: component template rendering with variants and props
//   - style: style categories, description matching and palette generation
//   - services: the Studio facade every transport drives
//   - watcher: debounced preset file watching with cache invalidation
//   - server: REST API, dashboard and WebSocket event stream
//   - mcpserver: MCP tool surface over stdio or streamable HTTP
//   - config, logging, errors, version: ambient infrastructure
//
// # Data Flow
//
// Transports (CLI, MCP, REST) call the Studio. The Studio loads presets
// through the Store, keeps state in the Session and publishes events that the
// server fans out to WebSocket clients. The watcher feeds file changes back
// into the Studio, which invalidates the cache and reloads the active preset.
package internal
