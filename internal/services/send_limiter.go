package services

import (
	"sync"

	"golang.org/x/time/rate"
)

// SendLimiter throttles chat sends: one bucket for the whole server and one
// per client (websocket connection or IP)
type SendLimiter struct {
	globalLimiter    *rate.Limiter
	perClientRate    rate.Limit
	perClientBurst   int
	perClientLimiter *sync.Map // map[string]*rate.Limiter
}

// NewSendLimiter creates a limiter allowing globalRate sends/s overall and
// perClientRate sends/s for each client key
func NewSendLimiter(globalRate, perClientRate float64) *SendLimiter {
	burst := int(perClientRate * 2)
	if burst < 1 {
		burst = 1
	}
	return &SendLimiter{
		globalLimiter:    rate.NewLimiter(rate.Limit(globalRate), int(globalRate*2)+1),
		perClientRate:    rate.Limit(perClientRate),
		perClientBurst:   burst,
		perClientLimiter: &sync.Map{},
	}
}

// Allow reports whether a send from client may proceed now
func (l *SendLimiter) Allow(client string) bool {
	if !l.clientLimiter(client).Allow() {
		return false
	}
	return l.globalLimiter.Allow()
}

// Forget drops the bucket of a client that went away
func (l *SendLimiter) Forget(client string) {
	l.perClientLimiter.Delete(client)
}

func (l *SendLimiter) clientLimiter(client string) *rate.Limiter {
	if limiter, ok := l.perClientLimiter.Load(client); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := l.perClientLimiter.LoadOrStore(client, rate.NewLimiter(l.perClientRate, l.perClientBurst))
	return limiter.(*rate.Limiter)
}
