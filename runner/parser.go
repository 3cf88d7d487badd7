package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/TinkerBoard2-Android/tools-asuite/types"
)

// maxLineSize bounds a single event line; stack traces in the details field
// can get large.
const maxLineSize = 1024 * 1024

// Parser decodes the newline-delimited JSON outcome stream emitted by a
// test-execution driver. One JSON object per line; blank lines are skipped.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the whole stream and returns the decoded outcomes in order.
// A line that is not valid JSON fails the parse with its line number; a
// partial prefix of outcomes is returned alongside the error so callers can
// still report what was seen.
func (p *Parser) Parse(r io.Reader) ([]*types.TestOutcome, error) {
	var outcomes []*types.TestOutcome
	err := p.ParseFunc(r, func(o *types.TestOutcome) error {
		outcomes = append(outcomes, o)
		return nil
	})
	return outcomes, err
}

// ParseFunc streams outcomes to fn as they are decoded, so callers can feed
// an aggregator without buffering the whole run. fn errors abort the scan.
func (p *Parser) ParseFunc(r io.Reader, fn func(*types.TestOutcome) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var outcome types.TestOutcome
		if err := json.Unmarshal([]byte(line), &outcome); err != nil {
			return fmt.Errorf("line %d: invalid outcome event: %w", lineNo, err)
		}
		if err := fn(&outcome); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading outcome stream: %w", err)
	}
	return nil
}
