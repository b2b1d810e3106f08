// Package resilience groups the fault tolerance helpers used by the service.
//
//   - circuitbreaker: one breaker per notification channel, so a failing
//     transport stops being called until it recovers.
//   - retry: exponential backoff for startup connectivity checks.
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.ChannelConfig("webhook"))
//	err := cb.Do(func() error {
//	    return channel.Send(ctx, recipient, msg)
//	})
//
//	err = retry.WithBackoff(ctx, retry.DBConfig(), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
