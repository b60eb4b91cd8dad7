// SPDX-License-Identifier: EPL-2.0

package portaudio

import "sync"

// ring is a fixed-size float32 FIFO. Writes past capacity overwrite the
// oldest samples so a stalled reader never blocks capture.
type ring struct {
	mu    sync.Mutex
	data  []float32
	start int
	size  int
}

func newRing(capacity int) *ring {
	return &ring{data: make([]float32, capacity)}
}

func (r *ring) Write(p []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.data)
	if len(p) >= n {
		copy(r.data, p[len(p)-n:])
		r.start, r.size = 0, n
		return
	}

	for _, v := range p {
		end := (r.start + r.size) % n
		r.data[end] = v
		if r.size == n {
			r.start = (r.start + 1) % n
		} else {
			r.size++
		}
	}
}

// Read copies up to len(p) samples and returns how many were copied.
func (r *ring) Read(p []float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := min(len(p), r.size)
	n := len(r.data)
	for i := range count {
		p[i] = r.data[(r.start+i)%n]
	}
	r.start = (r.start + count) % n
	r.size -= count
	return count
}

func (r *ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

func (r *ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start, r.size = 0, 0
}
