package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/printbase/pkg/geometry"
)

const (
	headerSize  = 80
	countSize   = 4
	recordSize  = 50
	asciiPrefix = "solid"
)

// record is one binary STL facet: normal, three vertices, attribute byte count
type record struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// Parse reads an STL file and returns a Model.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string) (*Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return Decode(data)
}

// Decode parses STL content held in memory.
// Some exporters write binary files whose header starts with "solid", so a
// "solid" prefix only selects the ASCII parser when the length does not
// match the binary layout exactly.
func Decode(data []byte) (*Model, error) {
	if bytes.HasPrefix(data, []byte(asciiPrefix)) && !looksBinary(data) {
		return parseASCII(data)
	}
	return parseBinary(data)
}

func looksBinary(data []byte) bool {
	if len(data) < headerSize+countSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[headerSize:])
	return len(data) == headerSize+countSize+int(count)*recordSize
}

// parseASCII parses an ASCII STL file
func parseASCII(data []byte) (*Model, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				v, err := parseFloats(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid normal: %w", lineNo, err)
				}
				currentNormal = v
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			v, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNo, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, expected 3", lineNo, len(vertices))
			}
			model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

func parseFloats(fields []string) (geometry.Vector3, error) {
	var xyz [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		xyz[i] = v
	}
	return geometry.NewVector3(xyz[0], xyz[1], xyz[2]), nil
}

// parseBinary parses a binary STL file
func parseBinary(data []byte) (*Model, error) {
	if len(data) < headerSize+countSize {
		return nil, fmt.Errorf("file too short for binary STL: %d bytes", len(data))
	}

	name := strings.TrimSpace(string(bytes.TrimRight(data[:headerSize], "\x00")))
	if strings.HasPrefix(name, headerTag) {
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(name, headerTag), ":"))
	}
	model := NewModel(name)

	triangleCount := binary.LittleEndian.Uint32(data[headerSize:])
	body := data[headerSize+countSize:]
	if uint64(len(body)) < uint64(triangleCount)*recordSize {
		return nil, fmt.Errorf("binary STL declares %d triangles but holds only %d", triangleCount, len(body)/recordSize)
	}

	reader := bytes.NewReader(body)
	model.Triangles = make([]geometry.Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		var rec record
		if err := binary.Read(reader, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		model.AddTriangle(geometry.NewTriangle(
			geometry.FromFloat32(rec.Normal),
			geometry.FromFloat32(rec.Vertices[0]),
			geometry.FromFloat32(rec.Vertices[1]),
			geometry.FromFloat32(rec.Vertices[2]),
		))
	}

	return model, nil
}
