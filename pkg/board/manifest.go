package board

import (
	"path"

	"github.com/tidwall/gjson"
)

// ManifestFile is the per-board build manifest inside the board directory.
const ManifestFile = "config.json"

// Manifest is the subset of config.json the smoke test uses.
type Manifest struct {
	Target          string
	SdkconfigAppend []string
}

// Reader reads files relative to the project root.
type Reader interface {
	ReadFile(name string) ([]byte, error)
}

// ReadManifest reads <dir>/config.json. ok is false when the file is missing
// or not valid JSON.
func ReadManifest(r Reader, dir string) (m Manifest, ok bool) {
	data, err := r.ReadFile(path.Join(dir, ManifestFile))
	if err != nil {
		return Manifest{}, false
	}
	return ParseManifest(string(data))
}

// ParseManifest extracts target and builds.0.sdkconfig_append.
func ParseManifest(s string) (m Manifest, ok bool) {
	if !gjson.Valid(s) {
		return Manifest{}, false
	}
	m.Target = gjson.Get(s, "target").String()
	for _, line := range gjson.Get(s, "builds.0.sdkconfig_append").Array() {
		if v := line.String(); v != "" {
			m.SdkconfigAppend = append(m.SdkconfigAppend, v)
		}
	}
	return m, true
}
