// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// Every port here is a remote or stored resource the answering pipeline
// depends on: the embedding service, the vector store, the reranker, the
// generation model, the prompt files and the feedback log. Adapters return
// typed domain errors with diagnostic context; they never convert between
// error kinds - that is the transport boundary's job.
package driven
