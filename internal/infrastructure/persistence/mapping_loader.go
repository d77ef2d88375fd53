package persistence

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/catalog"
)

// LoadProductMapping reads the static product mapping file. It is called
// once at startup; the returned mapping is immutable for the process
// lifetime. A missing file yields an empty mapping (every lookup then
// resolves to an empty decomposition), a present-but-invalid file is a
// startup error.
func LoadProductMapping(path string, logger *zap.Logger) (catalog.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Product mapping file not found, using empty mapping",
				zap.String("path", path),
			)
			return catalog.Mapping{}, nil
		}
		return nil, fmt.Errorf("reading product mapping: %w", err)
	}

	var mapping catalog.Mapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("parsing product mapping: %w", err)
	}
	if mapping == nil {
		mapping = catalog.Mapping{}
	}

	logger.Info("Product mapping loaded",
		zap.String("path", path),
		zap.Int("entries", len(mapping)),
	)
	return mapping, nil
}
