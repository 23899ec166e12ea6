// Package resilience groups the fault tolerance helpers used by the newsletter
// source adapters.
//
// Upstream calls are wrapped twice: a bounded retry for transient failures
// (5xx, 429, timeouts) and a circuit breaker that stops calling a provider
// that keeps failing. The breaker sits inside the retry so that an open
// circuit is reported on the first attempt.
//
//	cb := circuitbreaker.New(circuitbreaker.CampaignAPIConfig())
//	err := retry.WithBackoff(ctx, retry.CampaignAPIConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) {
//	        return fetchCampaigns(ctx)
//	    })
//	    return err
//	})
package resilience
