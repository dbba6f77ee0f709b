package driven

import (
	"context"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
)

// CollectionPolicy controls how a named collection is resolved.
type CollectionPolicy int

const (
	// CollectionStrict fails with *domain.NotFoundError when the collection
	// does not exist. This is the default: it prevents silently querying an
	// empty, accidentally-created collection.
	CollectionStrict CollectionPolicy = iota

	// CollectionPermissive auto-creates the collection when absent.
	CollectionPermissive
)

// RetrieveOptions tune a nearest-neighbour lookup.
type RetrieveOptions struct {
	// Collection is the named collection to query.
	Collection string

	// K is the number of documents to return.
	K int

	// FetchK is the candidate pool size for diversity selection.
	// Values <= K disable the overfetch.
	FetchK int

	// Lambda trades relevance against diversity in [0,1]:
	// 1 = pure relevance (plain nearest-neighbour order), 0 = max diversity.
	Lambda float64

	// Policy controls collection resolution. Zero value is strict.
	Policy CollectionPolicy
}

// CollectionInfo describes one collection for the sources inventory.
type CollectionInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// VectorStore looks up nearest-neighbour documents for a query vector.
//
// An empty collection is a normal state in early deployment: Retrieve
// returns an empty slice for it, never an error.
type VectorStore interface {
	// Retrieve runs maximal-marginal-relevance selection over the FetchK
	// nearest neighbours and returns at most K documents. Every returned
	// document has its metadata "id" populated.
	Retrieve(ctx context.Context, vector []float32, opts RetrieveOptions) ([]domain.Document, error)

	// Collections lists all collections with their document counts.
	Collections(ctx context.Context) ([]CollectionInfo, error)

	// Count returns the document count of a collection, or 0 when it
	// does not exist.
	Count(ctx context.Context, collection string) (int, error)

	// Close releases resources.
	Close() error
}
