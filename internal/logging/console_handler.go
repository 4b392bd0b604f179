package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

type prettyHandler struct {
	mu        sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
	infoCache map[string]map[string]string
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{writer: w, level: lvl, addSource: addSource, infoCache: make(map[string]map[string]string)}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	head := recordHeader{
		ts:      timestamp,
		level:   record.Level,
		message: strings.TrimSpace(record.Message),
	}
	if head.message == "" {
		head.message = "(no message)"
	}
	if h.addSource {
		head.source = recordSource(record)
	}

	// The subject attrs go to the header; player and stage stay in the
	// field list so debug output keeps the raw values.
	fields := make([]kv, 0, len(kvs))
	for _, attr := range kvs {
		switch attr.key {
		case FieldComponent:
			if head.component == "" {
				head.component = attrString(attr.value)
			}
			continue
		case FieldPlayer:
			if head.player == "" {
				head.player = attrString(attr.value)
			}
		case FieldStage:
			if head.stage == "" {
				head.stage = attrString(attr.value)
			}
		}
		fields = append(fields, attr)
	}

	var buf bytes.Buffer
	buf.Grow(256 + len(fields)*32)

	h.mu.Lock()
	defer h.mu.Unlock()
	if record.Level < slog.LevelInfo {
		h.writeDebug(&buf, head, dedupeKVsByKey(kvs))
	} else {
		h.writeInfo(&buf, head, dedupeKVsByKey(fields))
	}
	_, err := h.writer.Write(buf.Bytes())
	return err
}

// recordHeader is the first line of a console record.
type recordHeader struct {
	ts        time.Time
	level     slog.Level
	component string
	player    string
	stage     string
	message   string
	source    *slog.Source
}

func (h *prettyHandler) writeInfo(buf *bytes.Buffer, head recordHeader, attrs []kv) {
	head.write(buf)
	buf.WriteByte('\n')
	fields, hidden := selectInfoFields(attrs, infoAttrLimit, false)
	fields = h.filterRepeatedInfo(infoSummaryKey(head.component, head.player), fields, head.level)
	for _, field := range fields {
		buf.WriteString("    - ")
		buf.WriteString(field.label)
		buf.WriteString(": ")
		buf.WriteString(field.value)
		buf.WriteByte('\n')
	}
	switch {
	case hidden == 1:
		buf.WriteString("    + 1 more field hidden\n")
	case hidden > 1:
		buf.WriteString("    + " + strconv.Itoa(hidden) + " more fields hidden\n")
	}
}

func (h *prettyHandler) writeDebug(buf *bytes.Buffer, head recordHeader, attrs []kv) {
	head.write(buf)
	buf.WriteByte('\n')
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		buf.WriteString("    ")
		buf.WriteString(attr.key)
		buf.WriteString(": ")
		buf.WriteString(formatValue(attr.value))
		buf.WriteByte('\n')
	}
}

// write renders "15:04:05 INFO [component] "Player" (stage) – message [file:line]".
func (head recordHeader) write(buf *bytes.Buffer) {
	buf.WriteString(formatClock(head.ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(head.level))
	if head.component != "" {
		buf.WriteString(" [" + head.component + "]")
	}
	if subject := composeSubject(head.player, head.stage); subject != "" {
		buf.WriteByte(' ')
		buf.WriteString(subject)
	}
	buf.WriteString(" – ")
	buf.WriteString(head.message)
	if head.source != nil {
		buf.WriteString(" [" + filepath.Base(head.source.File) + ":" + strconv.Itoa(head.source.Line) + "]")
	}
}

func composeSubject(player, stage string) string {
	player = strings.TrimSpace(player)
	stage = strings.TrimSpace(stage)
	switch {
	case player != "" && stage != "":
		return strconv.Quote(player) + " (" + stage + ")"
	case player != "":
		return strconv.Quote(player)
	default:
		return stage
	}
}

// filterRepeatedInfo drops info fields whose value has not changed since the
// last record with the same summary key. Warnings always print in full and
// refresh the remembered values.
func (h *prettyHandler) filterRepeatedInfo(key string, fields []infoField, level slog.Level) []infoField {
	if key == "" || len(fields) == 0 {
		return fields
	}
	seen := h.ensureInfoCache(key)
	if level > slog.LevelInfo {
		for _, field := range fields {
			seen[field.label] = field.value
		}
		return fields
	}
	changed := fields[:0:0]
	for _, field := range fields {
		if prev, ok := seen[field.label]; ok && prev == field.value {
			continue
		}
		seen[field.label] = field.value
		changed = append(changed, field)
	}
	return changed
}

func (h *prettyHandler) ensureInfoCache(key string) map[string]string {
	if cache, ok := h.infoCache[key]; ok {
		return cache
	}
	cache := make(map[string]string)
	h.infoCache[key] = cache
	return cache
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) clone() *prettyHandler {
	clone := &prettyHandler{
		writer:    h.writer,
		level:     h.level,
		addSource: h.addSource,
		infoCache: h.infoCache,
	}
	if len(h.attrs) > 0 {
		clone.attrs = make([]slog.Attr, len(h.attrs))
		copy(clone.attrs, h.attrs)
	}
	if len(h.groups) > 0 {
		clone.groups = make([]string, len(h.groups))
		copy(clone.groups, h.groups)
	}
	return clone
}

type kv struct {
	key   string
	value slog.Value
}

func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	positions := make(map[string]int, len(attrs))
	deduped := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			deduped[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(deduped)
		deduped = append(deduped, attr)
	}
	return deduped
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	switch attr.Value.Kind() {
	case slog.KindGroup:
		values := attr.Value.Group()
		nextPrefix := prefix
		if attr.Key != "" {
			nextPrefix = appendPrefix(prefix, attr.Key)
		}
		flattenAttrs(dst, nextPrefix, values)
	default:
		key := attr.Key
		if len(prefix) > 0 {
			if key != "" {
				key = strings.Join(append(prefix, key), ".")
			} else {
				key = strings.Join(prefix, ".")
			}
		}
		if key == "" {
			key = attr.Key
		}
		*dst = append(*dst, kv{key: key, value: attr.Value})
	}
}

func appendPrefix(prefix []string, value string) []string {
	if len(prefix) == 0 {
		return []string{value}
	}
	out := make([]string, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = value
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// recordSource mirrors slog.Record.Source (Go 1.25+) for older toolchains.
func recordSource(r slog.Record) *slog.Source {
	if r.PC == 0 {
		return nil
	}
	fs := runtime.CallersFrames([]uintptr{r.PC})
	f, _ := fs.Next()
	return &slog.Source{Function: f.Function, File: f.File, Line: f.Line}
}
