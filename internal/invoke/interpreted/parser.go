// internal/invoke/interpreted/parser.go
package interpreted

import (
	"regexp"
	"strconv"
	"strings"

	"raceward/internal/core/domain"
)

// Interpreter diagnostics come as a header line followed by a location line:
//
//	error: Undefined Behavior: Data race detected between (1) write on thread `t1` and (2) read on thread `t2`
//	  --> src/vec.rs:142:9
var (
	ubHeaderRe  = regexp.MustCompile(`^error: Undefined Behavior: (.+)$`)
	locationRe  = regexp.MustCompile(`^\s*-->\s*(.+?):(\d+)(?::\d+)?\s*$`)
	testPanicRe = regexp.MustCompile(`^thread '[^']+' panicked at `)
)

// parser turns interpreter output lines into findings. It is an
// common.OutputHandler fed one diagnostic line at a time, in order.
type parser struct {
	excludeExpectedPanics bool

	findings       []*domain.Finding
	pendingDetail  string
	toolCrashed    bool
	sawTestFailure bool
}

func newParser(excludeExpectedPanics bool) *parser {
	return &parser{
		excludeExpectedPanics: excludeExpectedPanics,
		findings:              []*domain.Finding{},
	}
}

// ProcessLine implements common.OutputHandler.
func (p *parser) ProcessLine(line []byte) error {
	text := strings.TrimRight(string(line), "\r")

	if m := ubHeaderRe.FindStringSubmatch(text); m != nil {
		p.pendingDetail = m[1]
		return nil
	}

	if p.pendingDetail != "" {
		if m := locationRe.FindStringSubmatch(text); m != nil {
			lineNo, err := strconv.Atoi(m[2])
			if err == nil && lineNo > 0 {
				sig := domain.Signature{
					File:  m[1],
					Line:  lineNo,
					Shape: classifyShape(p.pendingDetail),
				}
				p.findings = append(p.findings, domain.NewFinding(domain.AnalysisModeInterpreted, sig, p.pendingDetail))
			}
			p.pendingDetail = ""
			return nil
		}
	}

	if strings.Contains(text, "error: internal compiler error") ||
		strings.HasPrefix(text, "thread 'rustc' panicked") {
		p.toolCrashed = true
		return nil
	}

	// A panicking test case is only a tool crash when the harness was not
	// told to exclude expected panics: tests intentionally asserting a panic
	// must not be misclassified as interpreter crashes.
	if testPanicRe.MatchString(text) {
		if !p.excludeExpectedPanics {
			p.toolCrashed = true
		}
		return nil
	}

	if strings.HasPrefix(text, "test result: FAILED") || strings.HasPrefix(text, "error: test failed") {
		p.sawTestFailure = true
	}

	return nil
}

// Finalize implements common.OutputHandler.
func (p *parser) Finalize() error {
	// A header with no following location line is dropped; there is nothing
	// to attribute or suppress without a source position.
	p.pendingDetail = ""
	return nil
}

// Findings returns the parsed findings in report order.
func (p *parser) Findings() []*domain.Finding {
	return p.findings
}

// ToolCrashed reports whether the interpreter itself failed.
func (p *parser) ToolCrashed() bool {
	return p.toolCrashed
}

// SawTestFailure reports whether an ordinary (non-UB) test failure marker
// appeared in the output.
func (p *parser) SawTestFailure() bool {
	return p.sawTestFailure
}

// classifyShape maps the interpreter's free-text description onto the closed
// shape set used for suppression matching.
func classifyShape(detail string) domain.Shape {
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "data race"):
		return domain.ShapeDataRace
	case strings.Contains(lower, "out-of-bounds"):
		return domain.ShapeOutOfBounds
	case strings.Contains(lower, "dangling"), strings.Contains(lower, "freed"),
		strings.Contains(lower, "use after free"), strings.Contains(lower, "deallocated"):
		return domain.ShapeUseAfterFree
	case strings.Contains(lower, "aliasing"), strings.Contains(lower, "borrow"),
		strings.Contains(lower, "protector"), strings.Contains(lower, "permission"):
		return domain.ShapeInvalidAlias
	default:
		return domain.ShapeUndefinedBehavior
	}
}
