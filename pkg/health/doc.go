// Package health serves liveness and readiness probes.
//
// A Checker runs named checks concurrently under a shared timeout:
//
//	checker := health.NewChecker(health.WithTimeout(3*time.Second))
//	checker.Add("postgres", db.Healthcheck(pool))
//	checker.Add("queue", queue.Healthcheck(q))
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", checker.ReadinessHandler())
//
// Probes get plain "OK" or "Service Unavailable". JSON reports are returned
// for Accept: application/json or ?format=json.
package health
