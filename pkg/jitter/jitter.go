// Package jitter добавляет случайность в интервалы повторов (backoff),
// чтобы фоновые задачи не повторяли запросы к хранилищу синхронно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter - стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Backoff описывает политику повторов: base удваивается с каждой попыткой, но не больше Max.
type Backoff struct {
	Base     time.Duration
	Max      time.Duration
	Attempts int
	Factor   float64
}

// Delay возвращает задержку перед попыткой attempt (нумерация с нуля).
func (b Backoff) Delay(attempt int) time.Duration {
	return ExponentialBackoff(b.Base, b.Max, attempt, b.Factor)
}

// Duration возвращает d с джиттером в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	j := globalRand.Float64() * jitterFactor * float64(d)
	randMutex.Unlock()
	return d + time.Duration(j)
}

// DurationWithSeed - то же, что Duration, но с переданным генератором.
func DurationWithSeed(d time.Duration, jitterFactor float64, rng *rand.Rand) time.Duration {
	return d + time.Duration(rng.Float64()*jitterFactor*float64(d))
}

// ExponentialBackoff вычисляет экспоненциальную задержку с джиттером.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			backoff = max
			break
		}
	}
	return Duration(backoff, jitterFactor)
}
