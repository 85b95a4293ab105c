// Package report implements diagnostic logging: positions, diagnostic
// kinds, and a Logger that renders them with colored banners and a
// caret-underlined source excerpt. Reporting is not fatal: every
// diagnostic is counted and displayed, and callers keep going after one.
package report

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// Position identifies a single point in a source file.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Kind enumerates every diagnostic this compiler can emit.
type Kind int

const (
	LexError Kind = iota
	ParseError
	UndeclaredName
	DuplicateName
	TypeMismatch
	NotAnLvalue
	ArityMismatch
	ProcNotExpr
	MissingReturn
	ArrayIndexType
	BadArraySize
	InternalError
)

var kindNames = map[Kind]string{
	LexError:       "LexError",
	ParseError:     "ParseError",
	UndeclaredName: "UndeclaredName",
	DuplicateName:  "DuplicateName",
	TypeMismatch:   "TypeMismatch",
	NotAnLvalue:    "NotAnLvalue",
	ArityMismatch:  "ArityMismatch",
	ProcNotExpr:    "ProcNotExpr",
	MissingReturn:  "MissingReturn",
	ArrayIndexType: "ArrayIndexType",
	BadArraySize:   "BadArraySize",
	InternalError:  "InternalError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UnknownError"
}

// Diagnostic is a single reported error, tied to a source position.
type Diagnostic struct {
	FilePath string
	Pos      Position
	Kind     Kind
	Message  string
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s:%s: %s: %s", d.FilePath, d.Pos, d.Kind, d.Message)
}

// -----------------------------------------------------------------------------

// Log levels, mirroring the teacher's four-level scheme.
const (
	LevelSilent = iota
	LevelError
	LevelWarning
	LevelVerbose
)

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorFG      = pterm.FgRed
	infoFG       = pterm.FgLightGreen
)

var levelNames = map[string]int{
	"silent":  LevelSilent,
	"error":   LevelError,
	"warn":    LevelWarning,
	"verbose": LevelVerbose,
}

// ParseLevel maps a config-file level name to its numeric Level, defaulting
// to LevelVerbose for an unrecognized name.
func ParseLevel(name string) int {
	if lvl, ok := levelNames[name]; ok {
		return lvl
	}
	return LevelVerbose
}

// Logger accumulates and displays diagnostics. Every analysis/codegen
// package in this module is handed one through its constructor rather than
// reaching for a package-level singleton.
type Logger struct {
	Level    int
	filePath string
	source   []byte

	errorCount int
}

// NewLogger creates a Logger for the given file path and level. source may
// be nil if the caller has no line-excerpt rendering available (e.g. stdin
// without buffering); in that case diagnostics print without a code
// excerpt.
func NewLogger(filePath string, level int, source []byte) *Logger {
	return &Logger{Level: level, filePath: filePath, source: source}
}

// ErrorCount returns the number of diagnostics reported so far.
func (l *Logger) ErrorCount() int {
	return l.errorCount
}

// Errorf reports a diagnostic at pos and returns false, so call sites can
// write `return l.Errorf(...)` to both report and abort the current rule in
// one statement. Errorf does not stop compilation; the caller decides how
// far to unwind, and later diagnostics are still reported.
func (l *Logger) Errorf(pos Position, kind Kind, format string, args ...interface{}) bool {
	d := &Diagnostic{
		FilePath: l.filePath,
		Pos:      pos,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
	}
	l.errorCount++
	if l.Level > LevelSilent {
		l.display(d)
	}
	return false
}

func (l *Logger) display(d *Diagnostic) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, errorStyleBG.Sprint(d.Kind.String()+" Error"))
	fmt.Fprintln(os.Stderr, d.String())

	if l.source != nil {
		l.displaySelection(d.Pos)
	}
}

// displaySelection prints the offending line with a caret underneath the
// reported column, in the style of the teacher's code-selection banner.
func (l *Logger) displaySelection(pos Position) {
	sc := bufio.NewScanner(strings.NewReader(string(l.source)))
	sc.Split(bufio.ScanLines)

	var line string
	for n := 1; sc.Scan(); n++ {
		if n == pos.Line {
			line = sc.Text()
			break
		}
	}
	if line == "" {
		return
	}

	width := len(strconv.Itoa(pos.Line)) + 1
	lineNumFmt := "%-" + strconv.Itoa(width) + "v"

	fmt.Println()
	infoFG.Print(fmt.Sprintf(lineNumFmt, pos.Line))
	fmt.Print("|  ")
	fmt.Println(line)

	fmt.Print(strings.Repeat(" ", width), "|  ")
	col := pos.Col - 1
	if col < 0 {
		col = 0
	}
	fmt.Print(strings.Repeat(" ", col))
	errorFG.Println("^")
	fmt.Println()
}

// PlainMessage prints an unpositioned informational line at or above level.
func (l *Logger) PlainMessage(minLevel int, msg string) {
	if l.Level >= minLevel {
		infoFG.Println(msg)
	}
}
