package pipeline

import (
	"fmt"

	"github.com/matzehuels/codematrix/pkg/cache"
	"github.com/matzehuels/codematrix/pkg/catalog"
)

// LoadCatalog decodes a catalog document. The returned hash covers the
// canonical re-encoding, so whitespace and key order in data don't change it.
func LoadCatalog(data []byte) (*catalog.Catalog, string, error) {
	doc, err := catalog.Parse(data)
	if err != nil {
		return nil, "", err
	}
	canon, err := catalog.Marshal(doc)
	if err != nil {
		return nil, "", fmt.Errorf("encode catalog: %w", err)
	}
	return catalog.FromDocument(doc), cache.Hash(canon), nil
}
