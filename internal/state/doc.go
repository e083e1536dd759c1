// Package state persists the last-processed-video marker that keeps the
// watcher idempotent across restarts. The marker is written as pretty-printed
// JSON, remotely when an object-store backend is configured and locally
// otherwise, with the local file serving as fallback on remote failure.
package state
