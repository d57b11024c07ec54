// Command meshreduce loads a Wavefront OBJ mesh, simplifies it to a target
// reduction rate, and writes the result back out as OBJ. The OBJ reader and
// writer here are the Loader/consumer collaborators around the core: only
// v and f directives are read (the first three vertex references of each
// face, ignoring any /vt/vn part); every other directive, vt and vn
// included, is skipped.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/yoy52012/meshsimplify"
)

func main() {
	in := flag.String("in", "", "input OBJ file")
	out := flag.String("out", "", "output OBJ file")
	rate := flag.Float64("rate", 0.5, "target reduction rate, in [0,1]")
	verbose := flag.Bool("v", false, "log simplification lifecycle milestones")
	flag.Parse()

	if *in == "" || *out == "" {
		color.Red("meshreduce: -in and -out are required")
		flag.Usage()
		os.Exit(2)
	}

	mesh, err := readOBJ(*in)
	if err != nil {
		color.Red("meshreduce: %v", err)
		os.Exit(1)
	}

	before := mesh.TriangleCount()
	start := time.Now()

	var opts []meshsimplify.Option
	if *verbose {
		opts = append(opts, meshsimplify.WithLogging())
	}
	result, err := meshsimplify.Simplify(context.Background(), mesh, float32(*rate), opts...)
	if err != nil {
		color.Red("meshreduce: simplify failed: %v", err)
		os.Exit(1)
	}

	if err := writeOBJ(*out, result); err != nil {
		color.Red("meshreduce: %v", err)
		os.Exit(1)
	}

	after := result.TriangleCount()
	elapsed := time.Since(start)
	color.Green("meshreduce: %d -> %d triangles (%.1f%% reduction) in %s",
		before, after, 100*(1-float64(after)/float64(before)), elapsed)
}

func readOBJ(path string) (meshsimplify.IndexedMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return meshsimplify.IndexedMesh{}, fmt.Errorf("could not open OBJ file %s: %w", path, err)
	}
	defer f.Close()

	var positions []float32
	var indices []uint32

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return meshsimplify.IndexedMesh{}, fmt.Errorf("invalid vertex data on line %d", lineNo)
			}
			for _, s := range fields[1:4] {
				v, err := strconv.ParseFloat(s, 32)
				if err != nil {
					return meshsimplify.IndexedMesh{}, fmt.Errorf("could not parse vertex coordinate '%s' on line %d: %w", s, lineNo, err)
				}
				positions = append(positions, float32(v))
			}
		case "f":
			if len(fields) < 4 {
				return meshsimplify.IndexedMesh{}, fmt.Errorf("invalid face data on line %d", lineNo)
			}
			for _, s := range fields[1:4] {
				idxStr := strings.SplitN(s, "/", 2)[0]
				idx, err := strconv.Atoi(idxStr)
				if err != nil {
					return meshsimplify.IndexedMesh{}, fmt.Errorf("could not parse face index '%s' on line %d: %w", s, lineNo, err)
				}
				indices = append(indices, uint32(idx-1))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return meshsimplify.IndexedMesh{}, fmt.Errorf("error reading from OBJ source: %w", err)
	}

	return meshsimplify.IndexedMesh{Positions: positions, Indices: indices}, nil
}

func writeOBJ(path string, mesh meshsimplify.IndexedMesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create OBJ file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < mesh.VertexCount(); i++ {
		o := i * 3
		fmt.Fprintf(w, "v %f %f %f\n", mesh.Positions[o], mesh.Positions[o+1], mesh.Positions[o+2])
	}
	for i := 0; i < len(mesh.Indices); i += 3 {
		fmt.Fprintf(w, "f %d %d %d\n", mesh.Indices[i]+1, mesh.Indices[i+1]+1, mesh.Indices[i+2]+1)
	}
	return w.Flush()
}
