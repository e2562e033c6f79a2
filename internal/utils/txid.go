package utils

import (
	"strconv"
	"sync"
	"time"
)

var (
	txidMu     sync.Mutex
	txidLastMS int64
)

// NewTransactionID returns an externally visible transaction id of the form
// "PU" followed by a millisecond timestamp. Two calls within the same
// millisecond would collide, so the generator bumps the value until it is
// strictly greater than the last one handed out.
func NewTransactionID() string {
	txidMu.Lock()
	defer txidMu.Unlock()

	ms := time.Now().UnixMilli()
	if ms <= txidLastMS {
		ms = txidLastMS + 1
	}
	txidLastMS = ms

	return "PU" + strconv.FormatInt(ms, 10)
}
