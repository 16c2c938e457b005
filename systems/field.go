package systems

import (
	"sync/atomic"
)

// Field is the double-buffered trail grid.
//
// One buffer is current (sensed by agents, input to diffusion), the other is
// next (diffusion output). Deposits made during the agent pass land in a
// per-cell hit counter rather than in either float grid; counting is exact
// and commutative, so the post-deposit field does not depend on the order in
// which agents ran. FoldDeposits turns hits into trail on the current buffer
// once every agent has finished, and Swap is the only place buffer roles
// change.
type Field struct {
	W, H int

	bufs [2][]float32
	cur  int

	hits []uint32
}

// NewField creates a zeroed w x h field.
func NewField(w, h int) *Field {
	return &Field{
		W: w, H: h,
		bufs: [2][]float32{make([]float32, w*h), make([]float32, w*h)},
		hits: make([]uint32, w*h),
	}
}

// Current returns the read buffer. Callers must not retain it across Swap.
func (f *Field) Current() []float32 {
	return f.bufs[f.cur]
}

// Next returns the write buffer for diffusion output.
func (f *Field) Next() []float32 {
	return f.bufs[1-f.cur]
}

// Swap exchanges buffer roles. Must only be called between frames, after
// every diffusion worker has finished.
func (f *Field) Swap() {
	f.cur = 1 - f.cur
}

// Index returns the flat index of cell (x, y).
func (f *Field) Index(x, y int) int {
	return y*f.W + x
}

// CellAt returns the flat index of the cell containing a wrapped position.
func (f *Field) CellAt(x, y float32) int {
	return int(y)*f.W + int(x)
}

// AddHit records one deposit in cell i. Safe for concurrent use.
func (f *Field) AddHit(i int) {
	atomic.AddUint32(&f.hits[i], 1)
}

// PendingHits returns the number of deposits recorded since the last fold.
func (f *Field) PendingHits() uint64 {
	var n uint64
	for i := range f.hits {
		n += uint64(atomic.LoadUint32(&f.hits[i]))
	}
	return n
}

// FoldDeposits adds hits*deposit into the current buffer for cells [i0, i1)
// and clears their counters. Each cell is touched only by its own index, so
// disjoint ranges may run concurrently.
func (f *Field) FoldDeposits(i0, i1 int, deposit float32) {
	cur := f.bufs[f.cur]
	hits := f.hits
	for i := i0; i < i1; i++ {
		if n := hits[i]; n != 0 {
			cur[i] += float32(n) * deposit
			hits[i] = 0
		}
	}
}

// At returns the current value at cell (x, y), wrapping out-of-range indices.
func (f *Field) At(x, y int) float32 {
	return f.bufs[f.cur][modInt(y, f.H)*f.W+modInt(x, f.W)]
}

// Set writes the current value at cell (x, y), wrapping out-of-range indices.
func (f *Field) Set(x, y int, v float32) {
	f.bufs[f.cur][modInt(y, f.H)*f.W+modInt(x, f.W)] = v
}

// Fill sets every current cell to v.
func (f *Field) Fill(v float32) {
	cur := f.bufs[f.cur]
	for i := range cur {
		cur[i] = v
	}
}

// Clear zeroes both buffers and the deposit counters.
func (f *Field) Clear() {
	for _, b := range f.bufs {
		clear(b)
	}
	clear(f.hits)
}

// CopyCurrent copies the current buffer into dst, growing it if needed.
func (f *Field) CopyCurrent(dst []float32) []float32 {
	cur := f.bufs[f.cur]
	if cap(dst) < len(cur) {
		dst = make([]float32, len(cur))
	}
	dst = dst[:len(cur)]
	copy(dst, cur)
	return dst
}

// Load copies src into the current buffer. src must hold W*H cells.
func (f *Field) Load(src []float32) {
	copy(f.bufs[f.cur], src)
}

// View is a read-only handle on a settled field, handed to renderers and
// telemetry after a frame has been committed.
type View struct {
	W, H int
	data []float32
}

// View returns a read-only view of the current buffer. It stays valid until
// the next Swap.
func (f *Field) View() View {
	return View{W: f.W, H: f.H, data: f.bufs[f.cur]}
}

// At returns the value at cell (x, y).
func (v View) At(x, y int) float32 {
	return v.data[y*v.W+x]
}

// Data exposes the underlying cells. Callers must treat it as read-only.
func (v View) Data() []float32 {
	return v.data
}

// Len returns the number of cells.
func (v View) Len() int {
	return len(v.data)
}
