// Package seed loads the built-in consultant list shipped with the binary.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/esc-directory/consultants/internal/services"
)

//go:embed consultants.json
var builtins []byte

// Seeder is the part of the consultant service the loader needs.
type Seeder interface {
	Seed(ctx context.Context, inputs []services.ConsultantInput) (int64, error)
}

// BuiltIns decodes the embedded seed list.
func BuiltIns() ([]services.ConsultantInput, error) {
	return Parse(builtins)
}

// Parse decodes a JSON array of consultant definitions, rejecting unknown fields.
func Parse(data []byte) ([]services.ConsultantInput, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var out []services.ConsultantInput
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return out, nil
}

// Load inserts the built-in consultants. Rows whose email already exists are
// left untouched, so Load can run on every start.
func Load(ctx context.Context, s Seeder) (int64, error) {
	inputs, err := BuiltIns()
	if err != nil {
		return 0, err
	}
	n, err := s.Seed(ctx, inputs)
	if err != nil {
		return 0, fmt.Errorf("load seed data: %w", err)
	}
	return n, nil
}
