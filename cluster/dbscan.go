// Package cluster groups embedded articles into news events and turns
// each event into a stored summary.
package cluster

import "math"

// Noise is the label assigned to points that belong to no cluster.
const Noise = -1

// CosineDistance returns 1 minus the cosine similarity of two vectors.
// A zero vector is maximally distant from everything.
func CosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// DBSCAN labels each vector with a cluster index starting at 0, or Noise.
// A point is a core point when at least minPoints vectors (itself
// included) lie within eps cosine distance of it; clusters grow from
// core points by density reachability.
func DBSCAN(vectors [][]float32, eps float64, minPoints int) []int {
	labels := make([]int, len(vectors))
	for i := range labels {
		labels[i] = Noise
	}
	visited := make([]bool, len(vectors))

	nextCluster := 0
	for i := range vectors {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := regionQuery(vectors, i, eps)
		if len(neighbors) < minPoints {
			continue
		}

		labels[i] = nextCluster
		expandCluster(vectors, labels, visited, neighbors, nextCluster, eps, minPoints)
		nextCluster++
	}
	return labels
}

func expandCluster(vectors [][]float32, labels []int, visited []bool, seeds []int, cluster int, eps float64, minPoints int) {
	for cursor := 0; cursor < len(seeds); cursor++ {
		point := seeds[cursor]

		if !visited[point] {
			visited[point] = true
			neighbors := regionQuery(vectors, point, eps)
			if len(neighbors) >= minPoints {
				seeds = append(seeds, neighbors...)
			}
		}

		if labels[point] == Noise {
			labels[point] = cluster
		}
	}
}

func regionQuery(vectors [][]float32, point int, eps float64) []int {
	var neighbors []int
	for i := range vectors {
		if CosineDistance(vectors[point], vectors[i]) <= eps {
			neighbors = append(neighbors, i)
		}
	}
	return neighbors
}
