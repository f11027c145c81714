// Package tableparse turns the delimiter-separated table text of one
// classified statement region into an ordered list of typed line items with
// section hierarchy and per-period values.
package tableparse

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/pkg/numeric"
)

const maxIndentLevel = 10

// headerStoplist holds header cells that name the row-label column rather
// than a reporting period.
var headerStoplist = map[string]bool{
	"account":     true,
	"description": true,
	"item":        true,
}

// totalKeywords mark a row as a total/subtotal line by case-insensitive
// substring match on its name.
var totalKeywords = []string{
	"total",
	"subtotal",
	"sum",
	"net",
	"gross",
	"operating income",
	"net income",
}

// ParseError reports a table text that yielded nothing parseable.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tableparse: %s", e.Message)
}

// Parser converts delimiter-separated table text into a ParsedStatement.
// It holds only configuration; all per-parse state lives in a per-call
// context, so one Parser may serve concurrent parses.
type Parser struct {
	delimiter string
}

// NewParser returns a parser using the default '|' field delimiter.
func NewParser() *Parser {
	return &Parser{delimiter: "|"}
}

// NewParserWithDelimiter returns a parser using a custom field delimiter.
func NewParserWithDelimiter(delimiter string) *Parser {
	if delimiter == "" {
		delimiter = "|"
	}
	return &Parser{delimiter: delimiter}
}

// parseContext carries the section stack for a single Parse call. Threading
// it through the loop instead of holding it on the Parser keeps concurrent
// parses from leaking hierarchy state into each other.
type parseContext struct {
	sectionStack []string
}

func (ctx *parseContext) push(section string) {
	ctx.sectionStack = append(ctx.sectionStack, section)
}

func (ctx *parseContext) pop() {
	if len(ctx.sectionStack) > 0 {
		ctx.sectionStack = ctx.sectionStack[:len(ctx.sectionStack)-1]
	}
}

func (ctx *parseContext) current() string {
	if len(ctx.sectionStack) == 0 {
		return ""
	}
	return ctx.sectionStack[len(ctx.sectionStack)-1]
}

func (ctx *parseContext) depth() int {
	return len(ctx.sectionStack)
}

// Parse converts the table text into a ParsedStatement. A row participates
// only if it contains the delimiter at least twice; the first such row is
// the header row. Zero delimiter-separated rows is a hard failure.
func (p *Parser) Parse(text string) (statement.ParsedStatement, error) {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.Count(line, p.delimiter) < 2 {
			continue
		}
		rows = append(rows, strings.Split(line, p.delimiter))
	}
	if len(rows) == 0 {
		return statement.ParsedStatement{}, &ParseError{Message: "no delimiter-separated rows found"}
	}

	periods := parseHeader(rows[0])
	ctx := &parseContext{}

	items := make([]statement.LineItem, 0, len(rows)-1)
	order := 0
	for _, row := range rows[1:] {
		item, ok := p.parseRow(ctx, row, periods, order)
		if !ok {
			continue
		}
		items = append(items, item)
		order++
	}

	return statement.ParsedStatement{Periods: periods, LineItems: items}, nil
}

// parseHeader extracts the period labels from the header row. The first
// cell is the row-label column and is discarded; empty cells and stoplist
// labels are skipped.
func parseHeader(cells []string) []string {
	periods := make([]string, 0, len(cells)-1)
	for _, cell := range cells[1:] {
		label := strings.TrimSpace(cell)
		if label == "" || headerStoplist[strings.ToLower(label)] {
			continue
		}
		periods = append(periods, label)
	}
	return periods
}

// parseRow converts one data row into a LineItem, updating the section
// stack. Returns ok=false for rows with an empty name.
func (p *Parser) parseRow(ctx *parseContext, cells []string, periods []string, order int) (statement.LineItem, bool) {
	// The name keeps its leading whitespace verbatim; it feeds the indent
	// computation below.
	name := strings.TrimRight(cells[0], " \t")
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return statement.LineItem{}, false
	}

	values := make([]string, 0, len(periods))
	for _, cell := range cells[1:] {
		if len(values) == len(periods) {
			break
		}
		values = append(values, strings.TrimSpace(cell))
	}

	isHeader := isSectionHeader(values)
	isTotal := isTotalLine(trimmedName)

	item := statement.LineItem{
		Name:  name,
		Order: order,
	}

	switch {
	case isHeader:
		item.IsSectionHeader = true
		item.Section = ctx.current()
		ctx.push(trimmedName)
		item.IndentLevel = headerIndent(ctx.depth())
	default:
		item.IsTotal = isTotal
		item.Section = ctx.current()
		item.IndentLevel = dataIndent(ctx.depth(), name)
		item.Values = make(map[string]string, len(periods))
		for i, label := range periods {
			if i < len(values) {
				item.Values[label] = values[i]
			} else {
				item.Values[label] = ""
			}
		}
		if isTotal {
			// A total closes the section it sums; subsequent rows belong to
			// the enclosing section.
			ctx.pop()
		}
	}

	return item, true
}

// isSectionHeader reports whether the row carries no numeric values at all.
func isSectionHeader(values []string) bool {
	for _, v := range values {
		if numeric.IsNumeric(v) {
			return false
		}
	}
	return true
}

// isTotalLine reports whether the name marks a total/subtotal row.
func isTotalLine(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range totalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// headerIndent is the indent of a section header: one less than the stack
// depth it opens at, floored at zero.
func headerIndent(stackDepth int) int {
	if stackDepth < 1 {
		return 0
	}
	return stackDepth - 1
}

// dataIndent combines the section depth with the row's own leading
// whitespace (four spaces per level), capped.
func dataIndent(stackDepth int, name string) int {
	leading := 0
	for _, r := range name {
		if r == ' ' || r == '\t' {
			leading++
			continue
		}
		break
	}
	indent := stackDepth + leading/4
	if indent > maxIndentLevel {
		return maxIndentLevel
	}
	return indent
}
