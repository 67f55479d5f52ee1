package runmeta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/biolumen/qpcretl/workbook"
)

// wellPattern matches a physical well position: row letters followed by a
// column number, e.g. "A1" or "P24".
var wellPattern = regexp.MustCompile(`^[A-Za-z]+(\d+)$`)

// ReplicateMap maps a replicate group key to the well positions belonging to
// it. Key order is insertion order and is significant: it fixes the output
// row order during aggregation, so the map serializes to JSON with its keys
// in that order.
type ReplicateMap struct {
	keys   []string
	groups map[string][]string
}

func NewReplicateMap() *ReplicateMap {
	return &ReplicateMap{groups: make(map[string][]string)}
}

// Add appends a well position to the named group, creating the group at the
// end of the key order if needed. Duplicate wells are kept.
func (m *ReplicateMap) Add(key, well string) {
	if _, ok := m.groups[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.groups[key] = append(m.groups[key], well)
}

// Keys returns the group keys in insertion order.
func (m *ReplicateMap) Keys() []string {
	return m.keys
}

// Wells returns the well positions of the named group in insertion order.
func (m *ReplicateMap) Wells(key string) []string {
	return m.groups[key]
}

// Len returns the number of groups.
func (m *ReplicateMap) Len() int {
	return len(m.keys)
}

func (m *ReplicateMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, pfx.Err(err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.groups[key])
		if err != nil {
			return nil, pfx.Err(err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *ReplicateMap) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.groups = make(map[string][]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return pfx.Err(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return pfx.Err(fmt.Errorf("replicate map: expected JSON object, got %v", tok))
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return pfx.Err(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return pfx.Err(fmt.Errorf("replicate map: non-string key %v", keyTok))
		}

		var wells []string
		if err := dec.Decode(&wells); err != nil {
			return pfx.Err(err)
		}

		if _, exists := m.groups[key]; !exists {
			m.keys = append(m.keys, key)
		}
		m.groups[key] = append(m.groups[key], wells...)
	}

	if _, err := dec.Token(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// BuildReplicates derives the sample list and replicate groupings from the
// extended "Sample Setup" table. It returns the distinct sample names in
// first-seen order, the groupings, and the number of rows skipped because
// their well position did not look like a plate coordinate.
//
// The group key is "{sample}_{digits}" where digits is the numeric suffix of
// the well position, so wells A1 and B1 of sample X both land in group
// "X_1": grouping follows the plate column number, not the row letter.
//
// Missing "Sample Name" or "Well Position" columns are not an error: the
// result is simply empty, with a warning.
func BuildReplicates(extended workbook.Table) (samples []string, replicates *ReplicateMap, skipped int) {
	sampleCol, ok := extended.ColIndex("Sample Name")
	if !ok {
		log.Println("[WARN] Extended Sample Setup has no Sample Name column; skipping replicate grouping")
		return nil, nil, 0
	}
	wellCol, ok := extended.ColIndex("Well Position")
	if !ok {
		log.Println("[WARN] Extended Sample Setup has no Well Position column; skipping replicate grouping")
		return nil, nil, 0
	}

	samples = []string{}
	seen := make(map[string]bool)
	replicates = NewReplicateMap()

	for i := range extended.Rows {
		sample := strings.TrimSpace(extended.Cell(i, sampleCol))
		well := strings.TrimSpace(extended.Cell(i, wellCol))

		if sample != "" && !seen[sample] {
			seen[sample] = true
			samples = append(samples, sample)
		}

		if sample == "" || well == "" {
			continue
		}

		match := wellPattern.FindStringSubmatch(well)
		if match == nil {
			skipped++
			continue
		}

		replicates.Add(fmt.Sprintf("%s_%s", sample, match[1]), well)
	}

	if skipped > 0 {
		log.Printf("[WARN] Skipped %d rows with unrecognized well positions", skipped)
	}

	return samples, replicates, skipped
}
