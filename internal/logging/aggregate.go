package logging

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Export formats understood by WriteEntries.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Entry is one parsed record from pcbuild.log.
type Entry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	SessionID string         `json:"session_id,omitempty"`
	Guide     string         `json:"guide,omitempty"`
	Step      int            `json:"step"` // -1 when the record is not tied to a step
	StepID    string         `json:"step_id,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Filter selects entries. Zero-valued fields match everything; set fields
// are combined with AND.
type Filter struct {
	// Level keeps entries at or above this level.
	Level string
	// Since keeps entries at or after this time.
	Since time.Time
	// SessionID keeps entries whose session ID starts with this prefix.
	SessionID string
	Guide     string
	// Pattern is matched against the message and attribute values.
	Pattern *regexp.Regexp
}

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

var knownFields = []string{"time", "level", "msg", "session_id", "guide", "step", "step_id"}

// ReadEntries parses pcbuild.log in dir together with its rotated backups,
// oldest first. Lines that are not JSON records are skipped.
func ReadEntries(dir string) ([]Entry, error) {
	current := filepath.Join(dir, LogFileName)
	files, err := logFiles(current)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no log file found in %s: %w", dir, os.ErrNotExist)
	}

	var entries []Entry
	for _, path := range files {
		got, err := readFile(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, got...)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, nil
}

// logFiles lists existing backups from highest number (oldest) down, then
// the live file.
func logFiles(current string) ([]string, error) {
	matches, err := filepath.Glob(current + ".*")
	if err != nil {
		return nil, err
	}
	type backup struct {
		n    int
		path string
	}
	var backups []backup
	for _, m := range matches {
		n, err := strconv.Atoi(strings.TrimPrefix(m, current+"."))
		if err != nil || n < 1 {
			continue
		}
		backups = append(backups, backup{n, m})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].n > backups[j].n })

	files := make([]string, 0, len(backups)+1)
	for _, b := range backups {
		files = append(files, b.path)
	}
	if _, err := os.Stat(current); err == nil {
		files = append(files, current)
	}
	return files, nil
}

func readFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := ParseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// ParseEntry decodes one JSON log line.
func ParseEntry(line string) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	entry := Entry{Step: -1}
	if s, ok := raw["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			entry.Time = t
		}
	}
	entry.Level, _ = raw["level"].(string)
	entry.Message, _ = raw["msg"].(string)
	entry.SessionID, _ = raw["session_id"].(string)
	entry.Guide, _ = raw["guide"].(string)
	entry.StepID, _ = raw["step_id"].(string)
	if n, ok := raw["step"].(float64); ok {
		entry.Step = int(n)
	}

	for k, v := range raw {
		if slices.Contains(knownFields, k) {
			continue
		}
		if entry.Attrs == nil {
			entry.Attrs = make(map[string]any)
		}
		entry.Attrs[k] = v
	}
	return entry, nil
}

// Match reports whether e passes every criterion set on f.
func (f Filter) Match(e Entry) bool {
	if f.Level != "" {
		if levelOrder[strings.ToUpper(e.Level)] < levelOrder[ParseLevel(f.Level)] {
			return false
		}
	}
	if !f.Since.IsZero() && e.Time.Before(f.Since) {
		return false
	}
	if f.SessionID != "" && !strings.HasPrefix(e.SessionID, f.SessionID) {
		return false
	}
	if f.Guide != "" && e.Guide != f.Guide {
		return false
	}
	if f.Pattern != nil {
		if f.Pattern.MatchString(e.Message) {
			return true
		}
		for _, v := range e.Attrs {
			if f.Pattern.MatchString(fmt.Sprint(v)) {
				return true
			}
		}
		return false
	}
	return true
}

// FilterEntries returns the entries f matches, preserving order.
func FilterEntries(entries []Entry, f Filter) []Entry {
	var out []Entry
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Tail returns the last n entries, or all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

// ValidFormats lists the formats WriteEntries accepts.
func ValidFormats() []string {
	return []string{FormatText, FormatJSON, FormatCSV}
}

// WriteEntries renders entries to w in the given format.
func WriteEntries(w io.Writer, entries []Entry, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		for _, e := range entries {
			if _, err := fmt.Fprintln(w, FormatEntry(e)); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []Entry{}
		}
		return enc.Encode(entries)
	case FormatCSV:
		return writeCSV(w, entries)
	default:
		return fmt.Errorf("unsupported format %q (use %s)", format, strings.Join(ValidFormats(), ", "))
	}
}

// FormatEntry renders e as a single human-readable line.
func FormatEntry(e Entry) string {
	var sb strings.Builder
	sb.WriteString(e.Time.Local().Format("2006-01-02 15:04:05.000"))
	fmt.Fprintf(&sb, " %-5s %s", strings.ToUpper(e.Level), e.Message)
	if e.SessionID != "" {
		sb.WriteString(" session=" + shorten(e.SessionID))
	}
	if e.Guide != "" {
		sb.WriteString(" guide=" + e.Guide)
	}
	if e.Step >= 0 {
		fmt.Fprintf(&sb, " step=%d", e.Step)
		if e.StepID != "" {
			sb.WriteString("(" + e.StepID + ")")
		}
	}
	for _, k := range sortedKeys(e.Attrs) {
		fmt.Fprintf(&sb, " %s=%v", k, e.Attrs[k])
	}
	return sb.String()
}

func writeCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "level", "msg", "session_id", "guide", "step", "step_id", "attrs"}); err != nil {
		return err
	}
	for _, e := range entries {
		step := ""
		if e.Step >= 0 {
			step = strconv.Itoa(e.Step)
		}
		attrs := ""
		if len(e.Attrs) > 0 {
			data, err := json.Marshal(e.Attrs)
			if err != nil {
				return err
			}
			attrs = string(data)
		}
		if err := cw.Write([]string{
			e.Time.Format(time.RFC3339Nano), e.Level, e.Message,
			e.SessionID, e.Guide, step, e.StepID, attrs,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
