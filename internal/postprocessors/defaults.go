package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 500)
//   - overlap (int): Overlapping characters between chunks (default: 50)
//   - boundary (string): "semantic" or "none" (default: semantic)
//
// Present but invalid values are rejected rather than replaced by defaults.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size, ok, err := intFromConfig(cfg, "chunk_size"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, chunker.WithChunkSize(size))
	}

	if overlap, ok, err := intFromConfig(cfg, "overlap"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	if raw, ok := cfg["boundary"]; ok {
		s, isString := raw.(string)
		if !isString {
			return nil, fmt.Errorf("%w: boundary must be a string, got %T", domain.ErrConfig, raw)
		}
		opts = append(opts, chunker.WithBoundary(domain.ChunkBoundary(s)))
	}

	return chunker.New(opts...)
}

// intFromConfig extracts an int from a generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func intFromConfig(cfg map[string]any, key string) (int, bool, error) {
	val, ok := cfg[key]
	if !ok {
		return 0, false, nil
	}

	switch v := val.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if v != float64(int(v)) {
			return 0, false, fmt.Errorf("%w: %s must be a whole number, got %v", domain.ErrConfig, key, v)
		}
		return int(v), true, nil
	default:
		return 0, false, fmt.Errorf("%w: %s must be a number, got %T", domain.ErrConfig, key, val)
	}
}
