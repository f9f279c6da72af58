// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CatalogueClient: Fetches MARC records and files from the TIND catalogue
//   - RecordStore: Per-record directory layout on disk
//   - NormaliserRegistry: Extracts text from downloaded files
//   - PostProcessorPipeline: Filters and chunks extracted text
//   - VectorIndex: Embeds, stores and retrieves chunks
//   - LLMService: Chat completion for answering questions
//   - ThreadStore: Conversation state per thread
//   - ConfigStore, PromptStore: Configuration and prompt templates
//
// # Optional Interfaces
//
//   - EmbeddingService and VectorStore: Composed by the default VectorIndex adapter.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
