package execlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// ReadAll reads and parses every event from the JSONL file at path.
// Malformed lines are skipped rather than failing the whole read, so a
// truncated or concurrently-written log does not become unreadable.
// Returns an empty slice if the file does not exist.
func ReadAll(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("execlog: opening %s: %w", path, err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("execlog: scanning %s: %w", path, err)
	}
	return events, nil
}

// ReadForRun reads and filters ReadAll's output to a single run id, useful
// when a log file aggregates multiple runs (e.g. a monitor's shared log).
func ReadForRun(path, runID string) ([]Event, error) {
	all, err := ReadAll(path)
	if err != nil {
		return nil, err
	}
	var filtered []Event
	for _, ev := range all {
		if ev.RunID == runID {
			filtered = append(filtered, ev)
		}
	}
	return filtered, nil
}
