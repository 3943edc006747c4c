// Package bin partitions measurements into threshold-defined buckets.
package bin

import (
	"errors"
	"math"
	"slices"
	"sort"

	"github.com/dkoosis/benchviz/pkg/measure"
)

// ErrEmptyInput is returned when there is nothing to bin.
var ErrEmptyInput = errors.New("bin: no entities to partition")

// Bucket is a contiguous value range and the entities that fall inside it.
//
// Start is exclusive and End inclusive, except for the first bucket whose
// Start is the smallest member value (or -Inf when empty).
type Bucket[T measure.Measurable] struct {
	Start    float64
	End      float64
	Amount   int
	Elements []T
}

// Bin assigns every entity to exactly one of len(boundaries)+1 buckets.
//
// Boundaries are copied and sorted; the caller's slice is untouched. A value
// equal to a boundary goes to the lower bucket. Duplicate boundaries yield an
// empty bucket between them.
func Bin[T measure.Measurable](boundaries []float64, entities []T) ([]Bucket[T], error) {
	if len(entities) == 0 {
		return nil, ErrEmptyInput
	}

	bounds := slices.Clone(boundaries)
	slices.Sort(bounds)
	n := len(bounds)

	buckets := make([]Bucket[T], n+1)
	for i := range buckets {
		switch {
		case i == 0 && n == 0:
			buckets[i].Start, buckets[i].End = math.Inf(-1), math.Inf(1)
		case i == 0:
			buckets[i].Start, buckets[i].End = math.Inf(-1), bounds[0]
		case i == n:
			buckets[i].Start, buckets[i].End = bounds[n-1], math.Inf(1)
		default:
			buckets[i].Start, buckets[i].End = bounds[i-1], bounds[i]
		}
	}

	first, last := &buckets[0], &buckets[n]
	for _, e := range entities {
		v := e.Value()
		idx := Index(bounds, v)
		b := &buckets[idx]
		b.Elements = append(b.Elements, e)
		b.Amount++

		if idx == 0 && (first.Amount == 1 || v < first.Start) {
			first.Start = v
		}
		if idx == n && (last.Amount == 1 || v > last.End) {
			last.End = v
		}
	}
	return buckets, nil
}

// Index returns the bucket index of v for ascending bounds: the first i with
// v <= bounds[i], or len(bounds) when v exceeds them all.
func Index(bounds []float64, v float64) int {
	return sort.Search(len(bounds), func(i int) bool { return v <= bounds[i] })
}

// Amounts returns the bucket counts in order.
func Amounts[T measure.Measurable](buckets []Bucket[T]) []int {
	out := make([]int, len(buckets))
	for i, b := range buckets {
		out[i] = b.Amount
	}
	return out
}

// Cuts returns the edges of buckets in order: the first bucket's Start
// followed by every bucket's End. These are the chart's axis labels.
func Cuts[T measure.Measurable](buckets []Bucket[T]) []float64 {
	if len(buckets) == 0 {
		return nil
	}
	out := make([]float64, 0, len(buckets)+1)
	out = append(out, buckets[0].Start)
	for _, b := range buckets {
		out = append(out, b.End)
	}
	return out
}
