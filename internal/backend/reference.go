package backend

// Identity returns a Func that echoes its input slice unchanged. Used by
// the "single item, echo backend" scenario.
func Identity() Func {
	return func(inputs []Item) ([]Item, error) {
		out := make([]Item, len(inputs))
		copy(out, inputs)
		return out, nil
	}
}

// Affine returns a Func computing y = scale*x + offset over []float64 items.
// Used by the "fill-and-flush" and "two clients, one batch" scenarios.
func Affine(scale, offset float64) Func {
	return func(inputs []Item) ([]Item, error) {
		out := make([]Item, len(inputs))
		for i, in := range inputs {
			x, ok := in.(float64)
			if !ok {
				x = 0
			}
			out[i] = scale*x + offset
		}
		return out, nil
	}
}
