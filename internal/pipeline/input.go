package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
)

// Input is the on-disk input document: a keyed collection of entities whose
// fields were already normalized into provenance-tagged identifiers by the
// upstream extraction tooling. The reconciler performs no source parsing.
type Input struct {
	Records []*identifier.Entity `json:"records"`
}

// LoadInput reads and decodes an input document. Decode failures surface the
// serialization error; the loader never guesses at malformed records.
func LoadInput(path string) ([]*identifier.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if len(in.Records) == 0 {
		return nil, fmt.Errorf("%w: input has no records", model.ErrInvalidSerializationFormat)
	}
	return in.Records, nil
}
