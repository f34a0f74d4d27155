package uploads

import (
	"fmt"
	"strings"
)

// Collection names a photo collection within a guide. The collection name
// is part of the deterministic object path scheme.
type Collection string

// Photo collections.
const (
	CollectionProduct Collection = "product"
	CollectionPart    Collection = "part"
	CollectionStep    Collection = "step"
)

// ParseCollection validates a collection path segment.
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case CollectionProduct, CollectionPart, CollectionStep:
		return Collection(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCollection, s)
	}
}

// GuidePrefix returns the storage prefix holding every object of a
// guide: guides/{PRODUCT_CODE_UPPER}.
func GuidePrefix(productCode string) string {
	return fmt.Sprintf("guides/%s", strings.ToUpper(strings.TrimSpace(productCode)))
}

// ObjectKey returns the deterministic storage path for an entry:
//
//	guides/{PRODUCT_CODE_UPPER}/{collection}/{product_code_lower}_{collection}_{position}
//
// Position is 1-based. The product code is trimmed before case folding.
func ObjectKey(productCode string, c Collection, position int) string {
	code := strings.TrimSpace(productCode)
	return fmt.Sprintf(
		"guides/%s/%s/%s_%s_%d",
		strings.ToUpper(code), c, strings.ToLower(code), c, position,
	)
}
