package manifest

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// The JSONL codec writes one self-contained JSON object per line, sorted by
// id, with a fixed field order. Re-running the writer over equal collections
// therefore produces byte-identical files.

// WriteRecordings serializes a recording collection to path. Paths ending in
// .gz are gzip-compressed. The file is published atomically.
func WriteRecordings(path string, set *RecordingSet) error {
	var buf bytes.Buffer
	for _, rec := range set.All() {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode recording %s: %w", rec.ID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return writeAtomic(path, buf.Bytes())
}

// WriteSupervisions serializes a supervision collection to path.
func WriteSupervisions(path string, set *SupervisionSet) error {
	var buf bytes.Buffer
	for _, seg := range set.All() {
		line, err := json.Marshal(seg)
		if err != nil {
			return fmt.Errorf("encode supervision %s: %w", seg.ID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return writeAtomic(path, buf.Bytes())
}

// ReadRecordings loads a recording collection previously written by
// WriteRecordings.
func ReadRecordings(path string) (*RecordingSet, error) {
	set := NewRecordingSet()
	err := eachLine(path, func(line []byte) error {
		var rec Recording
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("decode recording: %w", err)
		}
		return set.Add(rec)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ReadSupervisions loads a supervision collection previously written by
// WriteSupervisions.
func ReadSupervisions(path string) (*SupervisionSet, error) {
	set := NewSupervisionSet()
	err := eachLine(path, func(line []byte) error {
		var seg SupervisionSegment
		if err := json.Unmarshal(line, &seg); err != nil {
			return fmt.Errorf("decode supervision: %w", err)
		}
		return set.Add(seg)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func eachLine(path string, fn func([]byte) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("open gzip manifest: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func writeAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	var writer io.Writer = tmp
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		// Fixed header fields keep gzip output reproducible across runs.
		gz = gzip.NewWriter(tmp)
		writer = gz
	}
	if _, err := writer.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("finish gzip manifest: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("publish manifest: %w", err)
	}
	return nil
}
