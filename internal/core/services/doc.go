// Package services implements the driving port interfaces.
// Services contain the query pipeline and orchestrate
// calls to driven ports (adapters).
//
// Pipeline stages, leaves first: EmbeddingGateway, ContextEnricher,
// QueryNormalizer, AnswerSynthesizer. QueryService wires them to a
// ChunkStore and a VectorIndex.
package services
