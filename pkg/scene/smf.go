package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rmazur/go-whitted/pkg/core"
)

// MeshData is the raw geometry read from an SMF file
type MeshData struct {
	Vertices []core.Vec3
	Normals  []core.Vec3
	Faces    [][3]int
}

// ParseSMF reads a simple mesh format stream: "v x y z" vertex lines,
// "f i j k" one-based face lines, optional "n x y z" per-vertex normal
// lines. Blank lines, comments and short records are skipped.
func ParseSMF(r io.Reader) (*MeshData, error) {
	mesh := &MeshData{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		switch fields[0] {
		case "v", "n":
			x, err1 := strconv.ParseFloat(fields[1], 64)
			y, err2 := strconv.ParseFloat(fields[2], 64)
			z, err3 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, fmt.Errorf("smf line %d: bad %s record %q", lineNo, fields[0], line)
			}
			if fields[0] == "v" {
				mesh.Vertices = append(mesh.Vertices, core.NewVec3(x, y, z))
			} else {
				mesh.Normals = append(mesh.Normals, core.NewVec3(x, y, z))
			}
		case "f":
			i, err1 := strconv.Atoi(fields[1])
			j, err2 := strconv.Atoi(fields[2])
			k, err3 := strconv.Atoi(fields[3])
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, fmt.Errorf("smf line %d: bad face record %q", lineNo, line)
			}
			mesh.Faces = append(mesh.Faces, [3]int{i - 1, j - 1, k - 1})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("smf: %w", err)
	}
	if len(mesh.Vertices) == 0 || len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("smf: no geometry (%d vertices, %d faces)", len(mesh.Vertices), len(mesh.Faces))
	}
	return mesh, nil
}

// LoadSMF reads a mesh file from disk
func LoadSMF(path string) (*MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("smf: %w", err)
	}
	defer f.Close()
	return ParseSMF(f)
}
