// internal/pool/pool.go
//
// Pool presets: named alphabets with a default code length.
//
// Responsibilities:
//   - Load presets from a file (POOLS_FILE) or fall back to the embedded list.
//   - Validate each preset (distinct symbols, positive length).
//   - Lookup by name; the first preset listed is the default.
//
// File format, one preset per line:
//
//	# comment
//	classic  ROYGBIV  4
//
// Blank lines and lines starting with '#' are skipped.
package pool

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/robalobadob/codebreaker/assets"
	"github.com/robalobadob/codebreaker/internal/code"
)

// ErrEmpty is returned when a preset list contains no entries.
var ErrEmpty = errors.New("pool: no presets defined")

// Pool is a named alphabet with its default code length.
type Pool struct {
	Name    string `json:"name"`
	Symbols string `json:"symbols"`
	Length  int    `json:"length"`
}

// Registry is an ordered, read-only set of presets.
type Registry struct {
	pools  []Pool
	byName map[string]Pool
}

// Load parses presets from r.
func Load(r io.Reader) (*Registry, error) {
	reg := &Registry{byName: make(map[string]Pool)}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		p, err := parseLine(s)
		if err != nil {
			return nil, fmt.Errorf("pool: line %d: %w", line, err)
		}
		if _, dup := reg.byName[p.Name]; dup {
			return nil, fmt.Errorf("pool: line %d: duplicate preset %q", line, p.Name)
		}
		reg.pools = append(reg.pools, p)
		reg.byName[p.Name] = p
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(reg.pools) == 0 {
		return nil, ErrEmpty
	}
	return reg, nil
}

// LoadFile reads presets from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Embedded returns the presets compiled into the binary.
func Embedded() (*Registry, error) {
	f, err := assets.Pools()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Init loads presets from path when set, otherwise the embedded defaults.
func Init(path string) (*Registry, error) {
	if path != "" {
		return LoadFile(path)
	}
	return Embedded()
}

func parseLine(s string) (Pool, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Pool{}, fmt.Errorf("want 3 fields (name symbols length), got %d", len(fields))
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return Pool{}, fmt.Errorf("length %q: %w", fields[2], err)
	}
	p := Pool{Name: fields[0], Symbols: fields[1], Length: n}
	if err := p.Validate(); err != nil {
		return Pool{}, err
	}
	return p, nil
}

// Validate checks that the preset forms a playable configuration.
func (p Pool) Validate() error {
	if _, err := code.NewAlphabet(p.Symbols); err != nil {
		return err
	}
	if !code.ValidLength(p.Length) {
		return code.ErrInvalidLength
	}
	return nil
}

// Lookup returns the preset called name.
func (r *Registry) Lookup(name string) (Pool, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Default returns the first preset listed.
func (r *Registry) Default() Pool { return r.pools[0] }

// All returns the presets in file order.
func (r *Registry) All() []Pool {
	out := make([]Pool, len(r.pools))
	copy(out, r.pools)
	return out
}

// Stats returns the number of loaded presets.
func (r *Registry) Stats() int { return len(r.pools) }
