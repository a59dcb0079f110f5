// Package redis connects go-redis clients from env-driven configuration,
// with startup retries and a health check closure. The dispatch engine uses
// it to back the cross-instance broadcast adapter.
package redis
