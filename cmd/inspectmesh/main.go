package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	"magiceye-renderer/internal/mathutil"
	"magiceye-renderer/internal/mesh"
	"magiceye-renderer/internal/meshio"
)

func main() {
	normalize := flag.Bool("normalize", false, "also report bounds after normalization")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-normalize] mesh.stl [mesh2.obj ...]\n", os.Args[0])
		os.Exit(2)
	}

	exitCode := 0
	for _, arg := range flag.Args() {
		m, err := meshio.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Load error %s: %v\n", arg, err)
			exitCode = 1
			continue
		}
		fmt.Printf("\n=== %s (triangles=%d) ===\n", arg, m.TriangleCount())
		printStats(m)

		if *normalize {
			m.NormalizeAndCenter()
			fmt.Println("--- after normalization ---")
			printStats(m)
		}
	}
	os.Exit(exitCode)
}

func printStats(m *mesh.Mesh) {
	min, max := m.Bounds()
	center, span := m.CenterSpan()
	fmt.Printf("  bbox min=(%.3f,%.3f,%.3f) max=(%.3f,%.3f,%.3f)\n",
		min[0], min[1], min[2], max[0], max[1], max[2])
	fmt.Printf("  center=(%.3f,%.3f,%.3f) span=%.3f\n",
		center[0], center[1], center[2], span)

	edges, degenerate := edgeLengths(m)
	if len(edges) == 0 {
		return
	}
	mean, std := stat.MeanStdDev(edges, nil)
	sort.Float64s(edges)
	p50 := stat.Quantile(0.5, stat.Empirical, edges, nil)
	p95 := stat.Quantile(0.95, stat.Empirical, edges, nil)
	fmt.Printf("  edges: mean=%.3f std=%.3f p50=%.3f p95=%.3f\n", mean, std, p50, p95)
	if degenerate > 0 {
		fmt.Printf("  degenerate triangles: %d\n", degenerate)
	}
}

func edgeLengths(m *mesh.Mesh) (lengths []float64, degenerate int) {
	lengths = make([]float64, 0, m.TriangleCount()*3)
	for t := 0; t < m.TriangleCount(); t++ {
		var v [3]mathutil.Vec3
		for i := 0; i < 3; i++ {
			p := m.Verts[t*3+i]
			v[i] = mathutil.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
		}
		for i := 0; i < 3; i++ {
			lengths = append(lengths, v[(i+1)%3].Sub(v[i]).Len())
		}
		area := v[1].Sub(v[0]).Cross(v[2].Sub(v[0])).Len() * 0.5
		if area < 1e-12 || math.IsNaN(area) {
			degenerate++
		}
	}
	return lengths, degenerate
}
