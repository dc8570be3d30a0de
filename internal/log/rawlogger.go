package log

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records the full text of rendered files for debugging templates.
type RawLogger interface {
	Log(path string, data []byte)
}

// rawLogger implements RawLogger with thread-safe output.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If w is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log writes a timestamped header line followed by data with every line
// prefixed by "| ".
func (r *rawLogger) Log(path string, data []byte) {
	if r.w == nil {
		return
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s: %d bytes\n",
		time.Now().Format("2006/01/02 15:04:05"),
		path,
		len(data))
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		buf.WriteString("| ")
		buf.Write(sc.Bytes())
		buf.WriteByte('\n')
	}

	r.mu.Lock()
	_, _ = r.w.Write(buf.Bytes())
	r.mu.Unlock()
}
