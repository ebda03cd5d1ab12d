package utils

import "hash/fnv"

// LockKey maps s onto the signed 64-bit keyspace used by Postgres advisory locks.
func LockKey(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
