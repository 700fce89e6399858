package grid

import (
	"fmt"
	"math"

	"github.com/arloliu/gridcodec/errs"
	"gonum.org/v1/gonum/floats"
)

// Stats summarizes the values of a layer over the active cells of a mask.
// Cells holding the fill value are skipped.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Sum   float64
	Mean  float64
}

// ActiveStats computes Stats for layer over the active cells of mask.
func ActiveStats(mask *Mask, layer *Layer) (Stats, error) {
	if mask.Shape() != layer.Shape() {
		return Stats{}, fmt.Errorf("%w: mask %s, layer %s", errs.ErrShapeMismatch, mask.Shape(), layer.Shape())
	}

	values := layer.Values()
	picked := make([]float64, 0, mask.CountActive())
	for off, c := range mask.cells {
		if !c.IsActive() || layer.IsFill(values[off]) || math.IsNaN(values[off]) {
			continue
		}
		picked = append(picked, values[off])
	}

	if len(picked) == 0 {
		return Stats{}, nil
	}

	sum := floats.Sum(picked)

	return Stats{
		Count: len(picked),
		Min:   floats.Min(picked),
		Max:   floats.Max(picked),
		Sum:   sum,
		Mean:  sum / float64(len(picked)),
	}, nil
}
