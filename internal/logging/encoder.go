// Package logging wires go.uber.org/zap into a fixed-column TSV record
// format for every pane event, plus daily file rotation and an errors-only
// tee, grounded on the zap dependency carried by DataDog-datadog-agent and
// perkeep-perkeep's own logging chains.
package logging

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// tsvColumns is the fixed 14-column record every log line carries. Fields
// with no value for a given event are written as the literal "NULL" so the
// column count never varies.
var tsvColumns = []string{
	"timestamp", "level", "target", "marker", "operation_type",
	"current_path", "target_path", "entries_count", "selected_index",
	"duration_us", "cache_hit", "area_width", "area_height", "message",
}

// tsvEncoder implements zapcore.Encoder, writing one tab-separated line per
// entry in the fixed column order above. Structured fields are matched to
// columns by name; anything else is dropped (every call site names its
// fields after the column it belongs to).
type tsvEncoder struct {
	zapcore.Encoder // embedded for EncodeEntry-unrelated methods (Clone via pool)
	pool            buffer.Pool
}

// NewTSVEncoder builds the encoder used by every pane log core.
func NewTSVEncoder() zapcore.Encoder {
	return &tsvEncoder{pool: buffer.NewPool()}
}

func (e *tsvEncoder) Clone() zapcore.Encoder {
	return &tsvEncoder{pool: e.pool}
}

// EncodeEntry renders one log record as a 14-column, tab-separated,
// newline-terminated line.
func (e *tsvEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	values := map[string]string{
		"timestamp": ent.Time.Format(time.RFC3339Nano),
		"level":     ent.Level.String(),
		"target":    ent.LoggerName,
		"message":   sanitizeTSV(ent.Message),
	}
	for _, f := range fields {
		values[f.Key] = fieldToString(f)
	}

	buf := e.pool.Get()
	for i, col := range tsvColumns {
		if i > 0 {
			buf.AppendByte('\t')
		}
		if v, ok := values[col]; ok && v != "" {
			buf.AppendString(v)
		} else {
			buf.AppendString("NULL")
		}
	}
	buf.AppendByte('\n')
	return buf, nil
}

func fieldToString(f zapcore.Field) string {
	switch f.Type {
	case zapcore.StringType:
		return sanitizeTSV(f.String)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return strconv.FormatInt(f.Integer, 10)
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return strconv.FormatUint(uint64(f.Integer), 10)
	case zapcore.BoolType:
		return strconv.FormatBool(f.Integer == 1)
	case zapcore.DurationType:
		return strconv.FormatInt(time.Duration(f.Integer).Microseconds(), 10)
	default:
		return sanitizeTSV(fmt.Sprint(f.Interface))
	}
}

// sanitizeTSV strips tabs and newlines so a field value can never split a
// record across columns or lines.
func sanitizeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
