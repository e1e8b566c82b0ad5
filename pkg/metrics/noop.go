package metrics

import "time"

// NoopRecorder is a no-op implementation of Recorder, used when no
// metrics file is requested and in tests.
type NoopRecorder struct{}

func (n *NoopRecorder) RecordFetch(_ string, _ error, _ time.Duration) {}

func (n *NoopRecorder) RecordVerdict(_, _ string) {}

func (n *NoopRecorder) RecordRun(_ string, _ time.Duration) {}
