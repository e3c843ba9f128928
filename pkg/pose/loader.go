package pose

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// poseFile is the on-disk pose table format.
type poseFile struct {
	Poses []Pose `json:"poses"`
}

// LoadFile loads a pose table from a JSON file on disk. This allows a
// clinician to tune per-patient pose tables without rebuilding.
func LoadFile(path string) ([]Pose, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pose file: %w", err)
	}

	var pf poseFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse pose file %s: %w", path, err)
	}
	if len(pf.Poses) == 0 {
		return nil, fmt.Errorf("pose file %s defines no poses", path)
	}
	return pf.Poses, nil
}

// Merge overlays extra poses onto base. A pose whose name matches a
// base pose (ignoring case) replaces it in place; new names append in
// file order.
func Merge(base, extra []Pose) []Pose {
	out := make([]Pose, len(base))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, p := range out {
		index[strings.ToLower(p.Name)] = i
	}

	for _, p := range extra {
		if i, ok := index[strings.ToLower(p.Name)]; ok {
			out[i] = p
		} else {
			index[strings.ToLower(p.Name)] = len(out)
			out = append(out, p)
		}
	}
	return out
}
