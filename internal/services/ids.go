package services

import (
	"strconv"
	"sync/atomic"
	"time"
)

// lastStamp backs nextStamp. Session and message ids are millisecond
// timestamps, bumped forward when two are minted in the same millisecond.
var lastStamp atomic.Int64

func nextStamp() int64 {
	for {
		prev := lastStamp.Load()
		next := time.Now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		if lastStamp.CompareAndSwap(prev, next) {
			return next
		}
	}
}

func timestampID() string {
	return strconv.FormatInt(nextStamp(), 10)
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// nextUpdatedAt keeps updatedAt strictly increasing across mutations
func nextUpdatedAt(prev int64) int64 {
	if next := nextStamp(); next > prev {
		return next
	}
	return prev + 1
}
