// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// SummaryCachePrefix is the prefix used for cached schedule summaries.
const SummaryCachePrefix = "summary:"

// SummaryCacheTTL is the time-to-live for cached schedule summaries.
const SummaryCacheTTL = 5 * time.Minute
