// Package remote wraps the optional AWS capability: an S3 backend for the
// processing-state object and Secrets Manager hydration for credentials.
//
// Availability is decided once at startup — a backend either constructs or
// the process runs local-only. Nothing in the pipeline imports the AWS SDK
// directly; the state store sees only the narrow backend interface.
package remote
