package gribindex

import "time"

const (
	defaultAttempts   = 5
	defaultRetryDelay = time.Second
)

// Options control how index files are read.
type Options struct {
	// Attempts is the number of times a read is tried before an I/O error is
	// reported. Index files on network mounts are sometimes caught mid-write.
	Attempts int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
	// Timing logs how long each successful read took.
	Timing bool
}

// DefaultOptions returns five attempts one second apart.
func DefaultOptions() Options {
	return Options{Attempts: defaultAttempts, RetryDelay: defaultRetryDelay}
}

func (o Options) withDefaults() Options {
	if o.Attempts <= 0 {
		o.Attempts = defaultAttempts
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	}
	return o
}
