// Package driving defines interfaces that external actors (UI, CLI) use
// to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
//   - IngestService: Loads catalogue records into the vector index
//   - ChatService: Runs conversation turns on isolated threads
//   - SettingsService: Reads and updates configuration
//
// Implementations of these interfaces live in internal/core/services.
package driving
