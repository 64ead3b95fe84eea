package utils

import (
	"fmt"
	"hash/fnv"
)

func HashStringToUint64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// HashStatement folds a SQL statement and its bind arguments into one value.
// Used by the mock gateway to fabricate stable pseudo-identifiers.
func HashStatement(stmt string, args ...any) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(stmt))
	for _, a := range args {
		_, _ = fmt.Fprintf(h, "|%v", a)
	}
	return h.Sum64()
}
