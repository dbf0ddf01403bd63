/*
Package observability provides monitoring for the Turing engine.

Metrics exposes Prometheus collectors fed by the engine lifecycle hooks (steps per
state, runs per result, final tape length), and LogHooks mirrors the same events
into a structured logger.
*/
package observability
