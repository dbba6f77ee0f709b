// Package services contains the core answering pipeline.
//
// The pipeline is an ordered list of stages (embed, retrieve, rerank,
// assemble, generate) sharing one accumulator; each stage reads the fields
// its predecessors wrote and adds its own. Stages run strictly in sequence
// and the pipeline is terminal on the first failure.
package services
