/*
Package switchboard routes natural-language queries to a small fleet of operation services.

Three domains are served: math (arithmetic and statistics), data (queries over a
record dataset) and text (word counts, summaries, formatting). Each domain has an
operation table, an HTTP service exposing it, and an agent that decides between
computing in process and calling the service.

# Architecture

  - pkg/ops: the operation tables, keyed by name and built once.
  - pkg/adapters/http: the operation service (POST /operate, GET /health, GET /tools).
  - pkg/adapters/mcp: the same tables as Model Context Protocol tools.
  - pkg/agent: per-domain dispatch with an explicit strategy (remote-first or local-first).
  - pkg/coordinator: classify, extract, dispatch and compose one query with a language model.
  - pkg/llm: OpenAI-compatible and Anthropic completion clients.

# Usage

Start the services, then ask questions:

	switchboard serve
	switchboard query

Or call a service directly:

	curl -s localhost:8000/operate -d '{"operation":"divide","args":[144,12],"kwargs":{}}'
	{"operation":"divide","result":12,"status":"success"}
*/
package switchboard
