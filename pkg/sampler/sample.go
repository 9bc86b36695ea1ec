package sampler

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/Fr0glo/productsampler/pkg/table"
)

// Sample draws count distinct rows from t, uniformly at random and without
// replacement. The draw is fully determined by seed: the same table, count
// and seed always give the same rows in the same order. Rows come back in
// draw order. A count of zero yields an empty table with t's schema; a
// negative count or one larger than t is rejected with
// table.ErrInvalidArgument. t is not modified.
func Sample(t *table.Table, count int, seed int64) (*table.Table, error) {
	return sample(t, count, seed, false)
}

// SampleFraction draws round(frac * t.Len()) rows like Sample. frac must be
// within [0, 1].
func SampleFraction(t *table.Table, frac float64, seed int64) (*table.Table, error) {
	count, err := fractionCount(t.Len(), frac)
	if err != nil {
		return nil, err
	}
	return Sample(t, count, seed)
}

func sample(t *table.Table, count int, seed int64, preserveOrder bool) (*table.Table, error) {
	indices, err := selectIndices(t.Len(), count, seed)
	if err != nil {
		return nil, err
	}
	if preserveOrder {
		sort.Ints(indices)
	}
	return t.Select(indices)
}

// selectIndices runs the first count steps of a Fisher-Yates shuffle over
// [0, n). Every count-sized subset, and every ordering of it, is equally
// likely.
func selectIndices(n, count int, seed int64) ([]int, error) {
	if count < 0 {
		return nil, errors.Wrapf(table.ErrInvalidArgument, "sample size must not be negative, got %d", count)
	}
	if count > n {
		return nil, errors.Wrapf(table.ErrInvalidArgument, "cannot sample %d rows from a table of %d rows without replacement", count, n)
	}

	rnd := rand.New(rand.NewSource(seed))
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < count; i++ {
		j := i + rnd.Intn(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}

	indices := make([]int, count)
	copy(indices, perm[:count])
	return indices, nil
}

func fractionCount(n int, frac float64) (int, error) {
	if math.IsNaN(frac) || frac < 0 || frac > 1 {
		return 0, errors.Wrapf(table.ErrInvalidArgument, "sample fraction must be within [0, 1], got %v", frac)
	}
	return int(math.Round(frac * float64(n))), nil
}
