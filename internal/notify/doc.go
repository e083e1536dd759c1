// Package notify delivers email notifications for cycle outcomes. When email
// is disabled the service degrades to a no-op so callers never branch on
// configuration.
package notify
