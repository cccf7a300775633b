package cluster

import (
	"math"
	"math/rand"
)

const (
	minClusters   = 3
	maxClusters   = 20
	kmeansMaxIter = 100
	kmeansTol     = 1e-4
	// kmeansSeed fixes the k-means++ initialization draw so a given
	// keyword set clusters the same way on every run.
	kmeansSeed = 42
)

// ClampK computes k = clamp(floor(sqrt(n/2)), [minClusters, maxClusters]),
// further capped at n so a cluster is never requested with more
// centroids than points.
func ClampK(n int) int {
	k := int(math.Floor(math.Sqrt(float64(n) / 2)))
	if k < minClusters {
		k = minClusters
	}
	if k > maxClusters {
		k = maxClusters
	}
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	return k
}

// KMeans clusters vectors into k groups using k-means++ initialization,
// Lloyd's algorithm for up to kmeansMaxIter iterations, stopping early
// once centroid movement falls below kmeansTol. Returns the cluster
// index assigned to each vector.
func KMeans(vectors []Vector, k int) []int {
	n := len(vectors)
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	if k <= 1 {
		assignments := make([]int, n)
		return assignments
	}

	rng := rand.New(rand.NewSource(kmeansSeed))
	centroids := kmeansPlusPlusInit(vectors, k, rng)
	assignments := make([]int, n)

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := assignToNearest(vectors, centroids, assignments)
		newCentroids := recomputeCentroids(vectors, assignments, k, len(vectors[0]))

		movement := 0.0
		for i := range centroids {
			movement += euclideanDistance(centroids[i], newCentroids[i])
		}
		centroids = newCentroids

		if !changed || movement < kmeansTol {
			break
		}
	}

	return assignments
}

func kmeansPlusPlusInit(vectors []Vector, k int, rng *rand.Rand) []Vector {
	n := len(vectors)
	centroids := make([]Vector, 0, k)
	first := vectors[rng.Intn(n)]
	centroids = append(centroids, cloneVector(first))

	distSq := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, v := range vectors {
			d := nearestDistance(v, centroids)
			distSq[i] = d * d
			total += distSq[i]
		}
		if total == 0 {
			// All remaining points coincide with an existing centroid;
			// pick arbitrarily to keep k centroids distinct.
			centroids = append(centroids, cloneVector(vectors[rng.Intn(n)]))
			continue
		}
		target := rng.Float64() * total
		cum := 0.0
		chosen := n - 1
		for i, d := range distSq {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, cloneVector(vectors[chosen]))
	}
	return centroids
}

func nearestDistance(v Vector, centroids []Vector) float64 {
	min := math.Inf(1)
	for _, c := range centroids {
		if d := euclideanDistance(v, c); d < min {
			min = d
		}
	}
	return min
}

func assignToNearest(vectors []Vector, centroids []Vector, assignments []int) bool {
	changed := false
	for i, v := range vectors {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := euclideanDistance(v, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		if assignments[i] != best {
			changed = true
		}
		assignments[i] = best
	}
	return changed
}

func recomputeCentroids(vectors []Vector, assignments []int, k, dims int) []Vector {
	sums := make([]Vector, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = make(Vector, dims)
	}
	for i, v := range vectors {
		c := assignments[i]
		counts[c]++
		for d := 0; d < dims; d++ {
			sums[c][d] += v[d]
		}
	}

	out := make([]Vector, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			// Empty cluster: keep a zero centroid: it will simply
			// attract the next nearest point on reassignment.
			out[c] = make(Vector, dims)
			continue
		}
		for d := 0; d < dims; d++ {
			sums[c][d] /= float64(counts[c])
		}
		out[c] = sums[c]
	}
	return out
}

func cloneVector(v Vector) Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}
