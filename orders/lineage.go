package orders

import (
	"errors"

	"github.com/dominikbraun/graph"
	"github.com/eapache/queue"

	"github.com/openlabs-org/labops/pointer"
)

// SampleLineage is one recollection chain, ordered from the first
// collected sample to its latest replacement.
type SampleLineage struct {
	Samples []Sample
}

// Depth is the number of samples in the chain, the original included.
func (l SampleLineage) Depth() int {
	return len(l.Samples)
}

// Current returns the newest sample of the chain.
func (l SampleLineage) Current() *Sample {
	if len(l.Samples) == 0 {
		return nil
	}
	return &l.Samples[len(l.Samples)-1]
}

func sampleKey(s Sample) string {
	if s.Id != nil {
		return s.Id.Hex()
	}
	return pointer.ToString(s.Barcode)
}

// SampleLineages groups samples into recollection chains by following
// originalSampleId links. Samples without a link (or whose original is
// outside the snapshot) start their own chain.
func SampleLineages(samples []Sample) ([]SampleLineage, error) {
	g := graph.New(sampleKey, graph.Directed())
	for _, sample := range samples {
		if err := g.AddVertex(sample); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, err
		}
	}
	for _, sample := range samples {
		if sample.OriginalSampleId == nil {
			continue
		}
		err := g.AddEdge(sample.OriginalSampleId.Hex(), sampleKey(sample))
		if err != nil && !errors.Is(err, graph.ErrVertexNotFound) && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, err
		}
	}

	adjacencyMap, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	predecessorMap, err := g.PredecessorMap()
	if err != nil {
		return nil, err
	}

	// BFS from every chain root to emit samples in recollection order
	lineages := make([]SampleLineage, 0, len(adjacencyMap))
	for key := range adjacencyMap {
		if len(predecessorMap[key]) != 0 {
			continue
		}

		lineage := SampleLineage{}
		q := queue.New()
		q.Add(key)
		for q.Length() != 0 {
			id := q.Remove().(string)
			sample, err := g.Vertex(id)
			if err != nil {
				return nil, err
			}
			lineage.Samples = append(lineage.Samples, sample)
			for next := range adjacencyMap[id] {
				q.Add(next)
			}
		}

		lineages = append(lineages, lineage)
	}

	return lineages, nil
}
