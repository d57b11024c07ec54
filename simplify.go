// Package meshsimplify reduces triangle meshes by iterative quadric-error
// edge contraction, in the manner of Garland and Heckbert: a half-edge
// mesh gives constant-time local connectivity queries, and a best-first
// scheduler repeatedly collapses the cheapest manifold-preserving edge
// until the target face count is reached.
package meshsimplify

import (
	"context"
	"log"
)

// Option configures a Simplify call.
type Option func(*options)

type options struct {
	verbose bool
}

// WithLogging turns on lifecycle logging (build/collapse/termination
// milestones) via the standard log package, the way the viewer's
// Object3D.Finished in cmd/meshview logs BSP tree construction progress.
func WithLogging() Option {
	return func(o *options) { o.verbose = true }
}

// Simplify reduces mesh to approximately (1-rate) of its original face
// count. rate must be within [0.0, 1.0]; at rate 0 the face count is left
// unchanged. For rate > 0 the returned mesh's face count is
// strictly less than (1-rate) times the input's, unless the scheduler's
// queue is exhausted first or ctx is cancelled first - in both cases the
// partial result is returned alongside a non-nil error only for
// cancellation; queue exhaustion is not an error.
func Simplify(ctx context.Context, mesh IndexedMesh, rate float32, opts ...Option) (IndexedMesh, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if rate < 0 || rate > 1 {
		return IndexedMesh{}, newError(InvalidInput, "Simplify", errRateOutOfRange)
	}

	hem, err := buildHalfEdgeMesh(mesh)
	if err != nil {
		return IndexedMesh{}, err
	}
	if o.verbose {
		log.Printf("meshsimplify: built half-edge mesh: %d vertices, %d faces", len(hem.vertices), hem.faceCount())
	}

	threshold := float64(hem.faceCount()) * float64(1-rate)

	sched, err := newScheduler(hem, o.verbose)
	if err != nil {
		return IndexedMesh{}, err
	}

	if err := sched.run(ctx, threshold); err != nil {
		return hem.toIndexedMesh(), err
	}

	return hem.toIndexedMesh(), nil
}
