package vector

// Record is a stored vector keyed by a collection-unique id. Vectors written
// through the store always have the collection's fixed dimension; Normalize
// enforces that before any write.
type Record struct {
	// ID is the logical identifier of the record. When empty on upsert, the
	// store generates one.
	ID string

	// Vector is the embedding payload.
	Vector []float32
}

// Match is a single similarity search hit.
type Match struct {
	ID         string
	Vector     []float32
	Similarity float64
}
