// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package log

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"

	"github.com/navwar/gomirror/pkg/ts"
)

const (
	FormatText  = "text"
	FormatJSONL = "jsonl"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSONL}

type SimpleLoggerInput struct {
	Writer io.Writer
	// Format is either "text" or "jsonl".  Defaults to "text".
	Format string
	// Layout is the layout of the timestamp prefix.  Defaults to the "Log" layout.
	Layout ts.Layout
	// Location is the time zone of the timestamp.  Defaults to local time.
	Location *time.Location
	Clock    clockwork.Clock
}

// SimpleLogger writes one timestamped line per message.
// Writes are serialized, so the logger can be shared by goroutines.
type SimpleLogger struct {
	mu       sync.Mutex
	writer   io.Writer
	format   string
	layout   ts.Layout
	location *time.Location
	clock    clockwork.Clock
}

// Log writes the message and the merged fields.
// In text format the line is "<timestamp> - <msg> key=value ...", with keys sorted.
// In jsonl format the line is a JSON object with "ts" and "msg" keys plus the fields.
func (l *SimpleLogger) Log(msg string, fields ...map[string]interface{}) error {
	timestamp := l.layout.Format(l.clock.Now().In(l.location))

	merged := map[string]interface{}{}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}

	var line []byte
	switch l.format {
	case FormatJSONL:
		merged["ts"] = timestamp
		merged["msg"] = msg
		b, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("error marshaling log line: %w", err)
		}
		line = append(b, '\n')
	default:
		line = formatText(timestamp, msg, merged)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.writer.Write(line); err != nil {
		return fmt.Errorf("error writing log line: %w", err)
	}
	return nil
}

func formatText(timestamp string, msg string, fields map[string]interface{}) []byte {
	var b bytes.Buffer
	b.WriteString(timestamp)
	b.WriteString(" - ")
	b.WriteString(msg)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[k]))
	}
	b.WriteByte('\n')
	return b.Bytes()
}

func formatValue(v interface{}) string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case error:
		s = x.Error()
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	if s == "" || strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func NewSimpleLogger(input *SimpleLoggerInput) *SimpleLogger {
	l := &SimpleLogger{
		writer:   input.Writer,
		format:   input.Format,
		layout:   input.Layout,
		location: input.Location,
		clock:    input.Clock,
	}
	if len(l.format) == 0 {
		l.format = FormatText
	}
	if len(l.layout) == 0 {
		l.layout = ts.NamedLayouts["Log"]
	}
	if l.location == nil {
		l.location = time.Local
	}
	if l.clock == nil {
		l.clock = clockwork.NewRealClock()
	}
	return l
}
