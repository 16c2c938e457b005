package systems

// Diffuser blurs and decays the post-deposit field into the next buffer.
//
// Every output cell is decay times the uniform mean of its kernel
// neighbourhood in the current buffer, on a torus. Output rows depend only on
// the current buffer, so row ranges can be computed concurrently and in any
// order.
type Diffuser struct {
	params *Params
	field  *Field
	weight float32 // decay / kernel size
}

// NewDiffuser creates a diffuser for field.
func NewDiffuser(p *Params, field *Field) *Diffuser {
	return &Diffuser{
		params: p,
		field:  field,
		weight: p.Decay / float32(p.Kernel.Size()),
	}
}

// FoldRange folds pending deposits for cells [i0, i1) into the current buffer.
// All agents must have finished before any fold starts, and every fold must
// finish before DiffuseRows reads neighbouring cells.
func (d *Diffuser) FoldRange(i0, i1 int) {
	d.field.FoldDeposits(i0, i1, d.params.Deposit)
}

// DiffuseRows writes rows [y0, y1) of the next buffer.
func (d *Diffuser) DiffuseRows(y0, y1 int) {
	if d.params.Kernel == KernelBox9 {
		d.box9(y0, y1)
		return
	}
	d.cross5(y0, y1)
}

// cross5 averages a cell with its 4 orthogonal neighbours.
func (d *Diffuser) cross5(y0, y1 int) {
	w, h := d.field.W, d.field.H
	src := d.field.Current()
	dst := d.field.Next()
	k := d.weight

	for y := y0; y < y1; y++ {
		row := y * w
		rowN := modInt(y-1, h) * w
		rowS := modInt(y+1, h) * w
		for x := 0; x < w; x++ {
			xW := x - 1
			if xW < 0 {
				xW = w - 1
			}
			xE := x + 1
			if xE == w {
				xE = 0
			}
			sum := src[row+x] + src[rowN+x] + src[rowS+x] + src[row+xW] + src[row+xE]
			dst[row+x] = sum * k
		}
	}
}

// box9 averages a cell with its 8 neighbours.
func (d *Diffuser) box9(y0, y1 int) {
	w, h := d.field.W, d.field.H
	src := d.field.Current()
	dst := d.field.Next()
	k := d.weight

	for y := y0; y < y1; y++ {
		row := y * w
		rowN := modInt(y-1, h) * w
		rowS := modInt(y+1, h) * w
		for x := 0; x < w; x++ {
			xW := x - 1
			if xW < 0 {
				xW = w - 1
			}
			xE := x + 1
			if xE == w {
				xE = 0
			}
			sum := src[rowN+xW] + src[rowN+x] + src[rowN+xE] +
				src[row+xW] + src[row+x] + src[row+xE] +
				src[rowS+xW] + src[rowS+x] + src[rowS+xE]
			dst[row+x] = sum * k
		}
	}
}
