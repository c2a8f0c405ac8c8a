package bench

import (
	"math"
	"sort"
)

type number interface {
	~int | ~float64
}

// Stats - сводка по выборке: лучшее (минимум), медиана, среднее и
// несмещённое стандартное отклонение.
type Stats[T number] struct {
	N      int
	Best   T
	Median float64
	Mean   float64
	Std    float64
}

func CalcStats[T number](values []T) Stats[T] {
	s := Stats[T]{N: len(values)}
	if s.N == 0 {
		return s
	}

	sorted := append([]T(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	sum := 0.0
	for _, v := range sorted {
		sum += float64(v)
	}
	mean := sum / float64(s.N)

	variance := 0.0
	if s.N >= 2 {
		for _, v := range sorted {
			d := float64(v) - mean
			variance += d * d
		}
		variance /= float64(s.N - 1)
	}

	mid := s.N / 2
	if s.N%2 == 1 {
		s.Median = float64(sorted[mid])
	} else {
		s.Median = (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
	}

	s.Best = sorted[0]
	s.Mean = mean
	s.Std = math.Sqrt(variance)
	return s
}
