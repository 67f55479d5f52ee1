package runmeta

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
)

// Save writes the metadata record as pretty-printed JSON into the run
// directory.
func Save(md RunMetadata, runDir string) error {
	data, err := json.MarshalIndent(md, "", "    ")
	if err != nil {
		return pfx.Err(err)
	}
	data = append(data, '\n')

	path := filepath.Join(runDir, MetadataFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Load reads a previously persisted metadata record from a run directory. A
// missing file yields an error satisfying errors.Is(err, fs.ErrNotExist).
func Load(runDir string) (RunMetadata, error) {
	md := NewRunMetadata()

	data, err := os.ReadFile(filepath.Join(runDir, MetadataFileName))
	if err != nil {
		return md, pfx.Err(err)
	}
	if err := json.Unmarshal(data, &md); err != nil {
		return md, pfx.Err(err)
	}
	return md, nil
}
