package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Distance is the similarity metric used for both writes and queries.
type Distance string

const (
	DistanceCosine Distance = "cosine"
)

// Collection is a handle to a named, persisted namespace of records.
type Collection struct {
	Name      string
	Dimension int
	Distance  Distance
}

// Record is the stored unit of the vector store.
type Record struct {
	ID        string
	Document  string
	Embedding []float32
	Metadata  Metadata
}

// NewRecordID generates a globally unique record identifier.
func NewRecordID() string {
	return "doc_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Refusal answers.
const (
	// RefusalAnswer is returned when no grounding context exists.
	RefusalAnswer = "I don't know. No relevant information was found in the uploaded documents."
	// InsufficientContextAnswer is the phrase the model is instructed to emit when the context lacks the answer.
	InsufficientContextAnswer = "I don't know. The information is not available in the uploaded documents."
)

// UnknownSource labels a retrieved chunk whose metadata carries no source.
const UnknownSource = "unknown"

// DuplicatePolicy controls ingestion of a document id that is already stored.
type DuplicatePolicy string

const (
	DuplicateAppend  DuplicatePolicy = "append"
	DuplicateReject  DuplicatePolicy = "reject"
	DuplicateReplace DuplicatePolicy = "replace"
)

// IsValid reports whether p is a known policy.
func (p DuplicatePolicy) IsValid() bool {
	switch p {
	case DuplicateAppend, DuplicateReject, DuplicateReplace:
		return true
	}
	return false
}
