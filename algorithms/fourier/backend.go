package fourier

import "sync"

// Backend is the compute capability the spectral operators run on. The
// production engine uses the host implementation below; an accelerator
// binding satisfies the same interface by enqueueing the equivalent kernels
// on its device. Chebyshev and Taylor window construction need at least a
// scalar transform, so every backend must implement Transform.
type Backend interface {
	// Transform computes an in-place DFT; non-power-of-two lengths are allowed
	Transform(data []complex128, inverse bool) error

	// TransformBatch computes nseg independent n-point DFTs over data[0:n*nseg].
	// n must be a power of two.
	TransformBatch(data []complex128, n, nseg int, inverse bool) error

	// Scale multiplies every bin by a real scalar
	Scale(data []complex128, s float64)
}

// HostBackend executes the kernels on the host CPU. The backend is
// single-tenant: a mutex serialises callers the same way a device command
// queue would.
type HostBackend struct {
	mu sync.Mutex
}

// NewHostBackend creates a host compute backend
func NewHostBackend() *HostBackend {
	return &HostBackend{}
}

func (h *HostBackend) Transform(data []complex128, inverse bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Transform(data, inverse)
}

func (h *HostBackend) TransformBatch(data []complex128, n, nseg int, inverse bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return TransformBatch(data, n, nseg, inverse)
}

func (h *HostBackend) Scale(data []complex128, s float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	Scale(data, s)
}
