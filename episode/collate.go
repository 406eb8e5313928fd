package episode

import (
	"fmt"

	"github.com/hupe1980/fewshot/featurebank"
)

// Collate converts one batch of way*(shot+query) rows, grouped class-major
// per the sampler's output convention, into an Episode.
//
// Class ids are taken in the order classes first appear in the batch; each
// class's contiguous run is split into shot support rows followed by query
// query rows, preserving relative order. Collate is a pure function of its
// input, so it behaves identically whether called inline per episode or
// from a background prefetch pipeline.
func Collate[L comparable](rows []featurebank.Row[L], way, shot, query int) (*Episode[L], error) {
	cfg := Config{Way: way, Shot: shot, Query: query, Tasks: 1}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	perClass := shot + query
	if len(rows) != way*perClass {
		return nil, &ErrMalformedBatch{
			Reason: fmt.Sprintf("got %d rows, want %d (way %d * (shot %d + query %d))", len(rows), way*perClass, way, shot, query),
		}
	}

	dim := len(rows[0].Vector)
	if dim == 0 {
		return nil, &ErrMalformedBatch{Reason: "zero-dimension vectors"}
	}

	classIDs := make([]L, 0, way)
	local := make(map[L]int, way)

	ep := &Episode[L]{
		Dim:           dim,
		Way:           way,
		Support:       make([]float32, 0, way*shot*dim),
		SupportLabels: make([]int, 0, way*shot),
		Queries:       make([]float32, 0, way*query*dim),
		QueryLabels:   make([]int, 0, way*query),
	}

	for c := 0; c < way; c++ {
		run := rows[c*perClass : (c+1)*perClass]

		label := run[0].Label
		if _, seen := local[label]; seen {
			return nil, &ErrMalformedBatch{Reason: fmt.Sprintf("class %v appears in more than one run", label)}
		}
		local[label] = c
		classIDs = append(classIDs, label)

		for i, row := range run {
			if row.Label != label {
				return nil, &ErrMalformedBatch{
					Reason: fmt.Sprintf("row %d of class run %d has label %v, want %v", i, c, row.Label, label),
				}
			}
			if len(row.Vector) != dim {
				return nil, &ErrMalformedBatch{
					Reason: fmt.Sprintf("vector length %d, want %d", len(row.Vector), dim),
				}
			}

			if i < shot {
				ep.Support = append(ep.Support, row.Vector...)
				ep.SupportLabels = append(ep.SupportLabels, c)
			} else {
				ep.Queries = append(ep.Queries, row.Vector...)
				ep.QueryLabels = append(ep.QueryLabels, c)
			}
		}
	}

	ep.ClassIDs = classIDs
	return ep, nil
}
