package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// headerTag opens every header written here; a binary header must not start
// with "solid" or readers mistake it for ASCII.
const headerTag = "printbase binary STL"

// Write encodes the model as binary STL. Normals are recomputed from the
// winding order, which is what slicers trust.
func Write(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	title := headerTag
	if m.Name != "" {
		title += ": " + m.Name
	}
	copy(header[:], title)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, t := range m.Triangles {
		rec := record{
			Normal:   t.CalculateNormal().Float32(),
			Vertices: [3][3]float32{t.V1.Float32(), t.V2.Float32(), t.V3.Float32()},
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// Save writes the model to filename as binary STL
func Save(filename string, m *Model) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, m); err != nil {
		file.Close()
		os.Remove(filename)
		return err
	}
	return file.Close()
}
