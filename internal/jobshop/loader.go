package jobshop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Format selects the textual layout of an instance file.
type Format int

const (
	// FormatAuto picks the layout from the number of data rows.
	FormatAuto Format = iota
	// FormatPairs is one row per job of alternating "machine duration"
	// pairs, machines 0-based.
	FormatPairs
	// FormatTaillard is a block of duration rows followed by a block of
	// 1-based machine rows.
	FormatTaillard
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatPairs:
		return "pairs"
	case FormatTaillard:
		return "taillard"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "pairs", "jsplib":
		return FormatPairs, nil
	case "taillard":
		return FormatTaillard, nil
	}
	return FormatAuto, fmt.Errorf("unknown instance format %q; available: auto, pairs, taillard", s)
}

// Load reads an instance file.
func Load(path string, format Format) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	inst, err := Parse(name, f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

type row struct {
	line   int
	values []int
}

// Parse reads an instance: a "jobs machines" header line followed by the
// rows of the given format. Blank lines and lines starting with '#' are
// skipped.
func Parse(name string, r io.Reader, format Format) (*Instance, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedInstance)
	}

	header := rows[0]
	if len(header.values) < 2 {
		return nil, fmt.Errorf("%w: line %d: header must hold jobs and machines", ErrMalformedInstance, header.line)
	}
	jobs, machines := header.values[0], header.values[1]
	if jobs <= 0 || machines <= 0 {
		return nil, fmt.Errorf("%w: line %d: jobs and machines must be > 0 (got %d, %d)", ErrMalformedInstance, header.line, jobs, machines)
	}
	data := rows[1:]

	if format == FormatAuto {
		switch len(data) {
		case jobs:
			format = FormatPairs
		case 2 * jobs:
			format = FormatTaillard
		default:
			return nil, fmt.Errorf("%w: %d data rows fit neither %d jobs nor 2x%d rows", ErrMalformedInstance, len(data), jobs, jobs)
		}
	}

	var js []Job
	switch format {
	case FormatPairs:
		js, err = parsePairs(data, jobs, machines)
	case FormatTaillard:
		js, err = parseTaillard(data, jobs, machines)
	default:
		return nil, fmt.Errorf("unknown instance format %v", format)
	}
	if err != nil {
		return nil, err
	}
	return NewInstance(name, machines, js)
}

func readRows(r io.Reader) ([]row, error) {
	var rows []row
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		values := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: field %d: %v", ErrMalformedInstance, line, i+1, err)
			}
			values[i] = v
		}
		rows = append(rows, row{line: line, values: values})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func parsePairs(data []row, jobs, machines int) ([]Job, error) {
	if len(data) != jobs {
		return nil, fmt.Errorf("%w: expected %d job rows, got %d", ErrMalformedInstance, jobs, len(data))
	}
	js := make([]Job, jobs)
	for j, r := range data {
		if len(r.values) != 2*machines {
			return nil, fmt.Errorf("%w: line %d: expected %d machine/duration pairs, got %d fields", ErrMalformedInstance, r.line, machines, len(r.values))
		}
		ms := make([]int, machines)
		durations := make([]int, machines)
		for s := 0; s < machines; s++ {
			ms[s] = r.values[2*s]
			durations[s] = r.values[2*s+1]
		}
		js[j] = NewJob(j, ms, durations)
	}
	return js, nil
}

func parseTaillard(data []row, jobs, machines int) ([]Job, error) {
	if len(data) != 2*jobs {
		return nil, fmt.Errorf("%w: expected %d duration rows and %d machine rows, got %d rows", ErrMalformedInstance, jobs, jobs, len(data))
	}
	js := make([]Job, jobs)
	for j := 0; j < jobs; j++ {
		times, order := data[j], data[jobs+j]
		if len(times.values) != machines {
			return nil, fmt.Errorf("%w: line %d: expected %d durations, got %d", ErrMalformedInstance, times.line, machines, len(times.values))
		}
		if len(order.values) != machines {
			return nil, fmt.Errorf("%w: line %d: expected %d machines, got %d", ErrMalformedInstance, order.line, machines, len(order.values))
		}
		ms := make([]int, machines)
		for s, m := range order.values {
			if m < 1 || m > machines {
				return nil, fmt.Errorf("%w: line %d: machine %d out of range [1,%d]", ErrMalformedInstance, order.line, m, machines)
			}
			ms[s] = m - 1
		}
		js[j] = NewJob(j, ms, times.values)
	}
	return js, nil
}
