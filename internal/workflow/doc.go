// Package workflow orchestrates the watch cycle: poll the channel, acquire a
// transcript for a new upload, persist the processed marker, summarize, and
// notify. The marker is written as soon as the transcript exists so a failed
// summary or email never causes a video to be processed twice.
package workflow
