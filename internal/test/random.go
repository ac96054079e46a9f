package test

import (
	"math/rand"
	"sync"
	"time"
)

const alphanumerics = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var source = struct {
	sync.Mutex
	*rand.Rand
}{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}

// RandomASCIIString returns an alphanumeric string whose length falls within
// [minLen, maxLen]. Equal bounds give a fixed length.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}

	source.Lock()
	defer source.Unlock()

	length := minLen
	if maxLen > minLen {
		length += source.Intn(maxLen - minLen + 1)
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphanumerics[source.Intn(len(alphanumerics))]
	}
	return string(buf)
}
