// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"github.com/polctl/polctl/internal/cacheutil"
	"github.com/polctl/polctl/internal/config"
)

// CacheReader reads the cache entry for the given key, if it exists. The
// cache is organized by bucket and prefix; the key is hashed and used as the
// filename. If the cache is disabled, or the entry does not exist, the second
// return value will be false.
func CacheReader(be *BackendS3, key string) (*cacheutil.Entry, bool) {
	return cacheutil.Read([]string{be.Bucket, be.Prefix}, key)
}

// CacheWriter stores data for the given key.
func CacheWriter(be *BackendS3, key string, data []byte) error {
	return cacheutil.Write([]string{be.Bucket, be.Prefix}, key, data)
}

// PurgeCache removes entries older than the configured cache.clean hours.
func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(cleanHours)
}
