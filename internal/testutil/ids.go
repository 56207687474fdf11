package testutil

// FixedIDs returns the same board ID every time.
//
// Golden snapshots embed board IDs, so scenario runs pin them. The same
// scenario with the same FixedIDs produces byte-identical output.
//
// Thread-safety: FixedIDs is stateless and safe for concurrent use.
type FixedIDs struct {
	id string
}

// NewFixedIDs creates a fixed ID generator.
//
// If id is empty, Generate() returns "test-board".
func NewFixedIDs(id string) *FixedIDs {
	if id == "" {
		id = "test-board"
	}
	return &FixedIDs{id: id}
}

// Generate returns the fixed ID.
//
// Implements generator.IDGenerator.
func (g *FixedIDs) Generate() string {
	return g.id
}
