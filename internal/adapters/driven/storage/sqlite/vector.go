package sqlite

import (
	"context"
	"encoding/json"
	"math"
	"sort"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
)

// Ensure vectorStore implements the interface.
var _ driven.VectorStore = (*vectorStore)(nil)

// vectorStore implements driven.VectorStore over the unified store.
type vectorStore struct {
	store *Store
}

// candidate is one scanned row with its query similarity.
type candidate struct {
	doc        domain.Document
	embedding  []float32
	similarity float64
}

// Retrieve runs maximal-marginal-relevance selection over the FetchK
// nearest neighbours of the query vector. A lambda of 1 degenerates to
// plain nearest-neighbour order. Querying an empty collection returns an
// empty slice: an empty corpus is a normal state, not an error.
func (v *vectorStore) Retrieve(ctx context.Context, vector []float32, opts driven.RetrieveOptions) ([]domain.Document, error) {
	colID, ok, err := v.store.collectionID(ctx, opts.Collection)
	if err != nil {
		return nil, v.upstream("retrieve", opts.Collection, err)
	}
	if !ok {
		switch opts.Policy {
		case driven.CollectionPermissive:
			if colID, err = v.store.createCollection(ctx, opts.Collection); err != nil {
				return nil, v.upstream("retrieve", opts.Collection, err)
			}
		default:
			available, err := v.store.collectionNames(ctx)
			if err != nil {
				return nil, v.upstream("retrieve", opts.Collection, err)
			}
			return nil, &domain.NotFoundError{
				Collection: opts.Collection,
				Path:       v.store.path,
				Available:  available,
			}
		}
	}

	var count int
	if err := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection_id = ?", colID).Scan(&count); err != nil {
		return nil, v.upstream("retrieve", opts.Collection, err)
	}
	if count == 0 {
		return []domain.Document{}, nil
	}

	candidates, err := v.scan(ctx, colID, vector)
	if err != nil {
		return nil, v.upstream("retrieve", opts.Collection, err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	fetchK := opts.FetchK
	if fetchK < opts.K {
		fetchK = opts.K
	}
	if fetchK > len(candidates) {
		fetchK = len(candidates)
	}
	pool := candidates[:fetchK]

	selected := selectMMR(vector, pool, opts.K, opts.Lambda)
	docs := make([]domain.Document, len(selected))
	for i, c := range selected {
		docs[i] = c.doc
	}
	return docs, nil
}

// scan reads every document of the collection and scores it against the
// query vector. Corpora here are small enough that a full scan beats
// maintaining an approximate index.
func (v *vectorStore) scan(ctx context.Context, colID int64, vector []float32) ([]candidate, error) {
	rows, err := v.store.db.QueryContext(ctx,
		"SELECT id, content, embedding, metadata FROM documents WHERE collection_id = ?", colID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []candidate
	for rows.Next() {
		var (
			id, content  string
			blob         []byte
			metadataJSON string
		)
		if err := rows.Scan(&id, &content, &blob, &metadataJSON); err != nil {
			return nil, err
		}

		// A non-mapping metadata payload is replaced with an empty map.
		var metadata map[string]any
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil || metadata == nil {
			metadata = map[string]any{}
		}
		if _, ok := metadata[domain.MetaID]; !ok {
			metadata[domain.MetaID] = id
		}

		embedding := bytesToFloat32Slice(blob)
		candidates = append(candidates, candidate{
			doc:        domain.Document{Content: content, Metadata: metadata},
			embedding:  embedding,
			similarity: cosineSimilarity(vector, embedding),
		})
	}
	return candidates, rows.Err()
}

// selectMMR greedily picks k candidates from the pool, balancing similarity
// to the query (weight lambda) against dissimilarity to already-selected
// picks (weight 1-lambda). The pool arrives sorted by query similarity, so
// lambda >= 1 reduces to the pool prefix.
func selectMMR(query []float32, pool []candidate, k int, lambda float64) []candidate {
	if k < 0 {
		k = 0
	}
	if k > len(pool) {
		k = len(pool)
	}
	if lambda >= 1 {
		return pool[:k]
	}

	remaining := make([]candidate, len(pool))
	copy(remaining, pool)
	selected := make([]candidate, 0, k)

	for len(selected) < k {
		bestIdx := 0
		bestScore := math.Inf(-1)
		for i, c := range remaining {
			redundancy := 0.0
			for _, s := range selected {
				if sim := cosineSimilarity(c.embedding, s.embedding); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*c.similarity - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has zero magnitude or the lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Collections lists all collections with their document counts.
func (v *vectorStore) Collections(ctx context.Context) ([]driven.CollectionInfo, error) {
	rows, err := v.store.db.QueryContext(ctx, `
		SELECT c.name, COUNT(d.id)
		FROM collections c
		LEFT JOIN documents d ON d.collection_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, v.upstream("list collections", "", err)
	}
	defer rows.Close()

	infos := []driven.CollectionInfo{}
	for rows.Next() {
		var info driven.CollectionInfo
		if err := rows.Scan(&info.Name, &info.Count); err != nil {
			return nil, v.upstream("list collections", "", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Count returns the document count of a collection, or 0 when absent.
func (v *vectorStore) Count(ctx context.Context, collection string) (int, error) {
	colID, ok, err := v.store.collectionID(ctx, collection)
	if err != nil {
		return 0, v.upstream("count", collection, err)
	}
	if !ok {
		return 0, nil
	}
	var count int
	if err := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection_id = ?", colID).Scan(&count); err != nil {
		return 0, v.upstream("count", collection, err)
	}
	return count, nil
}

// Close releases the underlying database handle.
func (v *vectorStore) Close() error {
	return v.store.Close()
}

// upstream wraps a storage failure with the collection name and configured
// path for operator diagnosis.
func (v *vectorStore) upstream(op, collection string, err error) error {
	detail := "path " + v.store.path
	if collection != "" {
		detail = "collection " + collection + ", " + detail
	}
	return &domain.UpstreamError{Op: op, Detail: detail, Err: err}
}
