package dedup

// Records returns in with exact duplicates removed. A record is a duplicate
// when key yields a value already seen earlier in the slice. The first
// occurrence wins and relative order is preserved. The input is not modified.
func Records[T any](in []T, key func(T) string) []T {
	if len(in) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]T, 0, len(in))

	for _, rec := range in {
		k := key(rec)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}

	return out
}
