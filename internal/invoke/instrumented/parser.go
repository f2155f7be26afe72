// internal/invoke/instrumented/parser.go
package instrumented

import (
	"regexp"
	"strconv"
	"strings"

	"raceward/internal/core/domain"
)

// Race-detector reports arrive as multi-line blocks:
//
//	WARNING: ThreadSanitizer: data race (pid=12345)
//	  Write of size 8 at 0x7b0400000800 by thread T1:
//	    #0 push src/vec.rs:137 (corpus+0x4a2b1)
//	  ...
//	SUMMARY: ThreadSanitizer: data race src/vec.rs:137 in push
//
// The signature is taken from the report header (shape) and the first stack
// frame (location).
var (
	reportHeaderRe = regexp.MustCompile(`^WARNING: ThreadSanitizer: (.+?)(?: \(pid=\d+\))?$`)
	frameRe        = regexp.MustCompile(`^\s*#0 \S+ (.+?):(\d+)`)
	summaryRe      = regexp.MustCompile(`^SUMMARY: ThreadSanitizer:`)
)

// parser turns race-detector output into findings.
type parser struct {
	findings []*domain.Finding

	pendingDetail  string
	toolCrashed    bool
	sawTestFailure bool
}

func newParser() *parser {
	return &parser{findings: []*domain.Finding{}}
}

// ProcessLine implements common.OutputHandler.
func (p *parser) ProcessLine(line []byte) error {
	text := strings.TrimRight(string(line), "\r")

	if m := reportHeaderRe.FindStringSubmatch(text); m != nil {
		p.pendingDetail = m[1]
		return nil
	}

	if p.pendingDetail != "" {
		if m := frameRe.FindStringSubmatch(text); m != nil {
			lineNo, err := strconv.Atoi(m[2])
			if err == nil && lineNo > 0 {
				sig := domain.Signature{
					File:  m[1],
					Line:  lineNo,
					Shape: classifyShape(p.pendingDetail),
				}
				p.findings = append(p.findings, domain.NewFinding(domain.AnalysisModeInstrumented, sig, p.pendingDetail))
				p.pendingDetail = ""
			}
			return nil
		}
		if summaryRe.MatchString(text) {
			// Report ended before a parseable frame; nothing to attribute.
			p.pendingDetail = ""
			return nil
		}
		return nil
	}

	if strings.Contains(text, "ThreadSanitizer: internal error") ||
		strings.Contains(text, "FATAL: ThreadSanitizer") {
		p.toolCrashed = true
		return nil
	}

	if strings.HasPrefix(text, "test result: FAILED") || strings.Contains(text, "--- FAILED") {
		p.sawTestFailure = true
	}

	return nil
}

// Finalize implements common.OutputHandler.
func (p *parser) Finalize() error {
	p.pendingDetail = ""
	return nil
}

// Findings returns the parsed findings in report order.
func (p *parser) Findings() []*domain.Finding {
	return p.findings
}

// ToolCrashed reports whether the race detector itself failed.
func (p *parser) ToolCrashed() bool {
	return p.toolCrashed
}

// SawTestFailure reports whether an ordinary test failure marker appeared.
func (p *parser) SawTestFailure() bool {
	return p.sawTestFailure
}

// classifyShape maps the detector's report kind onto the closed shape set.
func classifyShape(detail string) domain.Shape {
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "data race"):
		return domain.ShapeDataRace
	case strings.Contains(lower, "use-after-free"), strings.Contains(lower, "use after free"):
		return domain.ShapeUseAfterFree
	case strings.Contains(lower, "out-of-bounds"):
		return domain.ShapeOutOfBounds
	default:
		return domain.ShapeUndefinedBehavior
	}
}
