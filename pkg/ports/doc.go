/*
Package ports defines the driven ports (interfaces) for the switchboard agents.

These interfaces decouple the agents from external implementations, allowing
results to be cached in process or in a shared backend.

# Key Interfaces

  - ResultCache: Stores successful remote operation results (memory LRU or Redis).
*/
package ports
