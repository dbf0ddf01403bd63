/*
Package ports defines the driven ports (interfaces) of the Turing engine.

These interfaces decouple the engine from external implementations, allowing runs
to be recorded in various storage backends.

# Key Interfaces

  - RunStore: persists and retrieves finished runs (memory, Redis, SQLite).
*/
package ports
