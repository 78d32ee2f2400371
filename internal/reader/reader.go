// Package reader holds the named statement readers the CLI can run a
// statement file through.
package reader

import (
	"sort"
	"strings"

	"github.com/bankwizard-dev/bankwizard/internal/engine"
	"github.com/bankwizard-dev/bankwizard/internal/ledger"
)

// Reader parses raw statement content into an assembled result.
type Reader interface {
	Read(l ledger.Reader, content []byte) engine.Result
	Format() string
}

// Registry holds named readers.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.readers))
	for k := range r.readers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CAMT053Reader{})
	return r
}

// CAMT053Reader reads ISO 20022 CAMT.053 statements.
type CAMT053Reader struct{}

// Format returns the registry key.
func (CAMT053Reader) Format() string { return "camt053" }

// Read assembles the statement's transactions against the ledger.
func (CAMT053Reader) Read(l ledger.Reader, content []byte) engine.Result {
	return engine.NewAssembler(l).ReadStatement(content)
}
