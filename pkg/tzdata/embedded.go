package tzdata

import (
	"embed"
	"fmt"
	"io/fs"
)

// EmbeddedName is the provider name of the compiled-in data set.
const EmbeddedName = "embedded"

//go:embed data/*.yaml
var embeddedData embed.FS

// Embedded returns a provider over the zone files compiled into the
// binary. Its data never changes: Refresh reports false and Watch fails.
func Embedded(opts ...Option) (*Provider, error) {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		return nil, fmt.Errorf("opening embedded zone data: %w", err)
	}
	return NewProvider(EmbeddedName, sub, opts...)
}
