// Package notify delivers precompiled letters through the GOV.UK Notify API.
//
// The client authenticates every request with a short-lived HS256 token
// derived from the service API key:
//
//	client, err := notify.New(notify.Config{APIKey: os.Getenv("NOTIFY_API_KEY")})
//	resp, err := client.Send(ctx, dispatch.PostageSecond, "CH/000123", doc)
//
// Retries are off unless Config.RetryMax is set. Letter submission is not
// idempotent on the Notify side, so a retried request may print twice.
package notify
