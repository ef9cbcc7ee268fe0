package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"timeline/utils"
)

// hashToken derives the cache key for a bearer token. Raw tokens are never
// stored in Redis.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// FirebaseAuthMiddleware resolves the Firebase ID token from the
// Authorization header to a user ID and stores it in the context. Verified
// tokens are cached in Redis so repeated requests skip the Admin SDK
// round-trip; a cache outage falls back to direct verification.
func FirebaseAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Recover from unexpected panics.
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		ctx := context.Background()

		// Retrieve token from header.
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		cacheKey := utils.AuthCachePrefix + hashToken(tokenString)

		// Get the dedicated auth cache client.
		authCache := utils.GetAuthCacheClient()
		cacheEnabled := true
		if authCache == nil {
			// Instead of aborting, log and treat it as a cache miss.
			log.Printf("WARNING: Auth cache client not available. Falling back to token verification.")
			cacheEnabled = false
		}

		// Attempt to resolve the token from Redis if cache is enabled.
		if cacheEnabled {
			cachedUID, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil && cachedUID != "" {
				// Refresh TTL and continue.
				_ = authCache.Expire(ctx, cacheKey, utils.AuthCacheTTL).Err()
				c.Set("userID", cachedUID)
				c.Next()
				return
			} else if err != nil && err != redis.Nil {
				// Log any other error and proceed to verification.
				log.Printf("WARNING: Error retrieving auth cache key: %v. Falling back to token verification.", err)
			}
		}

		// Cache miss: verify the ID token with Firebase.
		token, err := utils.AuthClient.VerifyIDToken(ctx, tokenString)
		if err != nil || token.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication error",
				"code":  0,
			})
			return
		}

		if cacheEnabled {
			_ = authCache.Set(ctx, cacheKey, token.UID, utils.AuthCacheTTL).Err()
		}

		c.Set("userID", token.UID)
		c.Next()
	}
}
