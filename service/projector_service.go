package service

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/types"
	"github.com/tieubaoca/rag-studio-be/utils"
)

const previewLength = 120

// ProjectorService reduces high-dimensional embeddings to 2 or 3
// components for the visualization views.
type ProjectorService struct {
	store     *database.ChromaStore
	chunkRepo repository.ChunkRepo
}

func NewProjectorService(store *database.ChromaStore, chunkRepo repository.ChunkRepo) *ProjectorService {
	return &ProjectorService{store: store, chunkRepo: chunkRepo}
}

// Project runs PCA over the given embeddings. Fewer rows than requested
// components yields an empty point set.
func (s *ProjectorService) Project(embeddings [][]float32, method string, nComponents int) ([]types.Point, error) {
	if method == "" {
		method = "pca"
	}
	if method != "pca" {
		return nil, fmt.Errorf("unsupported projection method: %q", method)
	}
	if nComponents != 2 && nComponents != 3 {
		if nComponents == 0 {
			nComponents = 2
		} else {
			return nil, fmt.Errorf("n_components must be 2 or 3, got %d", nComponents)
		}
	}

	rows := len(embeddings)
	if rows < nComponents {
		return []types.Point{}, nil
	}
	cols := len(embeddings[0])
	for _, e := range embeddings {
		if len(e) != cols {
			return nil, database.ErrDimensionMismatch
		}
	}

	projected := pcaProject(embeddings, rows, cols, nComponents)
	points := make([]types.Point, rows)
	for i := range points {
		points[i] = types.Point{X: projected.At(i, 0), Y: projected.At(i, 1)}
		if nComponents == 3 {
			z := projected.At(i, 2)
			points[i].Z = &z
		}
	}
	return points, nil
}

// ProjectStored projects every vector in the knowledge base, decorated
// with id, source filename, preview and token count.
func (s *ProjectorService) ProjectStored(ctx context.Context, method string, nComponents int) ([]types.Point, error) {
	ids, err := s.chunkRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []types.Point{}, nil
	}

	embeddings := make([][]float32, 0, len(ids))
	docs := make([]database.VectorDocument, 0, len(ids))
	for _, id := range ids {
		doc, err := s.store.GetByID(ctx, id)
		if err != nil {
			continue
		}
		embeddings = append(embeddings, doc.Embedding)
		docs = append(docs, doc)
	}

	points, err := s.Project(embeddings, method, nComponents)
	if err != nil {
		return nil, err
	}
	for i := range points {
		doc := docs[i]
		points[i].ID = doc.ID
		points[i].Source = doc.Metadata["filename"]
		if points[i].Source == "" {
			points[i].Source = doc.Metadata["source"]
		}
		points[i].TextPreview = preview(doc.Text)
		points[i].TokenCount = utils.CountTokens(doc.Text)
	}
	return points, nil
}

// pcaProject centers the columns and projects onto the top right-singular
// vectors.
func pcaProject(embeddings [][]float32, rows, cols, nComponents int) *mat.Dense {
	data := mat.NewDense(rows, cols, nil)
	means := make([]float64, cols)
	for i, e := range embeddings {
		for j, v := range e {
			data.Set(i, j, float64(v))
			means[j] += float64(v)
		}
	}
	for j := range means {
		means[j] /= float64(rows)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data.Set(i, j, data.At(i, j)-means[j])
		}
	}

	var svd mat.SVD
	svd.Factorize(data, mat.SVDThin)
	var v mat.Dense
	svd.VTo(&v)

	var projected mat.Dense
	projected.Mul(data, v.Slice(0, cols, 0, nComponents))
	return &projected
}

func preview(text string) string {
	if len(text) <= previewLength {
		return text
	}
	return text[:previewLength] + "..."
}
