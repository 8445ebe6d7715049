package gltfio

// widen copies glTF node components into float64s
func widen[E float32 | float64](dst []float64, src []E) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}

// narrow copies float64s into glTF node components
func narrow[E float32 | float64](dst []E, src []float64) {
	for i, v := range src {
		dst[i] = E(v)
	}
}
