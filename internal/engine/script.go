package engine

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// Script is a damage timeline the scripted engine plays back.
type Script struct {
	Name   string        `json:"name"`
	Tics   int64         `json:"tics"`
	Damage []DamageEntry `json:"damage"`
}

// DamageEntry schedules one hit on the player.
type DamageEntry struct {
	Tic    int64  `json:"tic"`
	Amount int    `json:"amount"`
	Source string `json:"source,omitempty"`
}

// LoadScript reads and validates a CUE damage script from disk.
func LoadScript(path string) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ScriptError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading script: %v", err)}
	}
	return ParseScript(path, src)
}

// ParseScript compiles src, unifies it with the embedded #Script schema and
// decodes the result. Entries are ordered by tic; entries on the same tic
// keep their declaration order.
func ParseScript(filename string, src []byte) (*Script, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &ScriptError{Code: ErrCodeGeneric, Message: fmt.Sprintf("building schema: %v", err)}
	}

	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Script")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(ErrCodeSchema, err)
	}

	var script Script
	if err := unified.Decode(&script); err != nil {
		return nil, formatCUEError(ErrCodeDecode, err)
	}

	for i, d := range script.Damage {
		if d.Tic > script.Tics {
			return nil, &ScriptError{
				Code:    ErrCodeTicRange,
				Message: fmt.Sprintf("damage[%d] at tic %d is after the last tic %d", i, d.Tic, script.Tics),
			}
		}
	}

	sort.SliceStable(script.Damage, func(i, j int) bool {
		return script.Damage[i].Tic < script.Damage[j].Tic
	})

	return &script, nil
}

// TotalDamage sums the raw amounts in the script.
func (s *Script) TotalDamage() int {
	total := 0
	for _, d := range s.Damage {
		total += d.Amount
	}
	return total
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(code string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ScriptError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	se := &ScriptError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 && positions[0].IsValid() {
		p := positions[0]
		se.Pos = fmt.Sprintf("%s:%d:%d", p.Filename(), p.Line(), p.Column())
	}
	return se
}
