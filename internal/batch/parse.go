// Package batch projects many business profiles read from a JSONL file.
package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/smartflow-ai/smartflow/internal/model"
)

// Entry is one profile to project, as read from a line of input.
//
//	{"name":"Main St Bakery","plan":"growth","profile":{"business_type":"restaurant","monthly_revenue":18000}}
type Entry struct {
	Line    int                   `json:"-"`
	Name    string                `json:"name,omitempty"`
	Plan    string                `json:"plan,omitempty"`
	Profile model.BusinessProfile `json:"profile"`
}

// ParseResult holds the output of parsing one input.
type ParseResult struct {
	Entries     []Entry
	ParseErrors int
	BadLines    []int
	Err         error
}

var commentPrefix = []byte("#")

// ParseFile reads a JSONL file of entries.
func ParseFile(path string) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads JSONL entries from r. Blank lines and lines starting with #
// are skipped; malformed lines are counted, not fatal.
func Parse(r io.Reader) ParseResult {
	var res ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || bytes.HasPrefix(line, commentPrefix) {
			continue
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			res.ParseErrors++
			res.BadLines = append(res.BadLines, lineNo)
			continue
		}
		e.Line = lineNo
		res.Entries = append(res.Entries, e)
	}
	res.Err = scanner.Err()
	return res
}
