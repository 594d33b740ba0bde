// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The incremental sync lives here: AssignChunkIDs gives every chunk a
// deterministic ID and VectorSync embeds and stores only the IDs the
// vector store has not seen before.
package services
