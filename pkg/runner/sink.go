package runner

import (
	"bytes"

	"conveyor/pkg/util/context"
)

// Sink receives step output line by line, as it is produced. Long-running
// steps stream through the sink instead of buffering until completion.
type Sink interface {
	Line(ctx context.Context, step string, line string)
}

// LogSink streams step output to the context logger.
type LogSink struct{}

// Line implements Sink.
func (LogSink) Line(ctx context.Context, step string, line string) {
	ctx.Logger().WithField("step", step).Info(line)
}

// lineWriter splits a raw output stream into lines and forwards them to the
// sink. Partial lines are kept until the next write or Flush.
type lineWriter struct {
	ctx  context.Context
	sink Sink
	step string
	buf  bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line, keep it buffered.
			w.buf.WriteString(line)
			break
		}
		w.sink.Line(w.ctx, w.step, line[:len(line)-1])
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *lineWriter) Flush() {
	if w.buf.Len() > 0 {
		w.sink.Line(w.ctx, w.step, w.buf.String())
		w.buf.Reset()
	}
}
