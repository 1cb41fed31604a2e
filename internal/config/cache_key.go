package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's login session JTI.
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:student:%d", studentID)
}

// AttemptDeadlineKey returns the cache key holding an attempt's ends_at
// as a Unix timestamp. Seeded at Start, read by the clock endpoint.
func (r *CacheKeyStruct) AttemptDeadlineKey(examID string, studentID int) string {
	return fmt.Sprintf("student:%d:exam:%s:deadline", studentID, examID)
}

var CacheKey = NewCacheKeyStruct()
