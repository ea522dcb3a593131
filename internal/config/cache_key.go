package config

import (
	"fmt"
	"time"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserLoginKey returns the cache key holding the active JTI for a user login.
func (r *CacheKeyStruct) UserLoginKey(userID int64) string {
	return fmt.Sprintf("login:%d", userID)
}

// PasswordResetKey returns the cache key for a pending password reset token.
func (r *CacheKeyStruct) PasswordResetKey(token string) string {
	return fmt.Sprintf("pwreset:%s", token)
}

// DailyStatsKey returns the hash key holding activity counters for a day.
func (r *CacheKeyStruct) DailyStatsKey(day time.Time) string {
	return fmt.Sprintf("stats:%s", day.Format("2006-01-02"))
}

var CacheKey = NewCacheKeyStruct()
