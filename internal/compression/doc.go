// Package compression drives external LLM compression of session
// content.
//
// A Provider turns one text span into a shorter rewrite at a requested
// intensity level. Three implementations exist (a local subprocess
// CLI, the hosted Anthropic HTTP API, and the Anthropic SDK client),
// selected once at startup through NewProvider; callers never branch
// per call.
//
// The Orchestrator runs tasks through a bounded worker pool with
// per-task retry and escalating timeouts. A task that exhausts its
// attempts keeps its original content: compression failure must never
// delete or corrupt anything. Results are applied back to their
// original positions in a synchronous pass after all tasks settle, so
// output is deterministic regardless of network timing.
package compression
