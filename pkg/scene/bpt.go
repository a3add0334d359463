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

// ParseBPT reads a BPT patch stream: a patch count, then per patch a
// "3 3" degree header followed by 16 control points, one per line.
func ParseBPT(r io.Reader) ([][16]core.Vec3, error) {
	scanner := bufio.NewScanner(r)

	next := func() (string, error) {
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				return line, nil
			}
		}
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}

	header, err := next()
	if err != nil {
		return nil, fmt.Errorf("bpt: %w", err)
	}
	count, err := strconv.Atoi(header)
	if err != nil || count <= 0 {
		return nil, fmt.Errorf("bpt: bad patch count %q", header)
	}

	patches := make([][16]core.Vec3, 0, count)
	for p := 0; p < count; p++ {
		degree, err := next()
		if err != nil {
			return nil, fmt.Errorf("bpt patch %d: %w", p, err)
		}
		if degree != "3 3" {
			return nil, fmt.Errorf("bpt patch %d: unsupported degree %q", p, degree)
		}

		var patch [16]core.Vec3
		for i := 0; i < 16; i++ {
			line, err := next()
			if err != nil {
				return nil, fmt.Errorf("bpt patch %d point %d: %w", p, i, err)
			}
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return nil, fmt.Errorf("bpt patch %d point %d: bad record %q", p, i, line)
			}
			x, err1 := strconv.ParseFloat(fields[0], 64)
			y, err2 := strconv.ParseFloat(fields[1], 64)
			z, err3 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, fmt.Errorf("bpt patch %d point %d: bad record %q", p, i, line)
			}
			patch[i] = core.NewVec3(x, y, z)
		}
		patches = append(patches, patch)
	}
	return patches, nil
}

// LoadBPT reads a patch file from disk
func LoadBPT(path string) ([][16]core.Vec3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bpt: %w", err)
	}
	defer f.Close()
	return ParseBPT(f)
}
