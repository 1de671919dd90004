package hashmap

import "hash/maphash"

// StringHash is the default hash for string keys: a byte-wise polynomial hash
// with multiplier 31.
func StringHash(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = 31*h + uint64(s[i])
	}
	return h
}

// defaultHash picks the hash function used when the caller supplies none:
// StringHash for string keys, a seeded maphash for every other comparable key.
func defaultHash[K comparable]() func(K) uint64 {
	var zero K
	if _, ok := any(zero).(string); ok {
		return func(k K) uint64 { return StringHash(any(k).(string)) }
	}
	seed := maphash.MakeSeed()
	return func(k K) uint64 { return maphash.Comparable(seed, k) }
}
