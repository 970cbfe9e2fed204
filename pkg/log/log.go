// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/findings"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 45 // Base width for filename
	statusWidth  = 14 // Width for status text
	findingWidth = 18 // Width for finding kind
)

// 🎯 FileOperation is one processed file as shown on the console
type FileOperation struct {
	Path         string
	Status       status.FileStatus
	Replacements int
	Mismatches   int
	DryRun       bool
	Err          error
}

// FileOperationFromResult converts a batch result for display
func FileOperationFromResult(res operation.FileResult) FileOperation {
	op := FileOperation{
		Path:         res.Path,
		Status:       res.Status,
		Replacements: res.Replacements(),
		DryRun:       res.DryRun,
		Err:          res.Err,
	}
	if res.Result != nil {
		op.Mismatches = len(res.Result.Mismatches)
	}
	return op
}

// 📦 RunOperation describes one command run for the header line
type RunOperation struct {
	Command string
	Root    string
	Sets    []string
	DryRun  bool
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *RunOperation
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func statusText(op FileOperation) string {
	switch op.Status {
	case status.StatusChanged:
		if op.DryRun {
			return "would rewrite"
		}
		return "rewritten"
	case status.StatusErrored:
		return "failed"
	case status.StatusUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Status == status.StatusErrored:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.Mismatches > 0:
		symbol = '!'
		symbolColor = color.FgYellow
	case op.Status == status.StatusChanged:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	detail := ""
	switch {
	case op.Err != nil:
		detail = op.Err.Error()
	case op.Replacements > 0:
		detail = fmt.Sprintf("%d replacements", op.Replacements)
		if op.Replacements == 1 {
			detail = "1 replacement"
		}
	}
	if op.Mismatches > 0 {
		if detail != "" {
			detail += ", "
		}
		detail += fmt.Sprintf("%d unclosed regions", op.Mismatches)
	}

	line := fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		fmt.Sprintf("%-*s", statusWidth, statusText(op)))
	if detail != "" {
		line += " " + color.New(color.Faint).Sprint(detail)
	}
	return strings.TrimRight(line, " ")
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	ev := l.zlog.Info()
	if op.Err != nil {
		ev = l.zlog.Error().Err(op.Err)
	}
	ev.Str("file", op.Path).
		Str("status", op.Status.String()).
		Int("replacements", op.Replacements).
		Int("mismatches", op.Mismatches).
		Bool("dry_run", op.DryRun).
		Msg("file processed")
}

// 📝 LogResult logs a batch result
func (l *Logger) LogResult(ctx context.Context, res operation.FileResult) {
	l.LogFileOperation(ctx, FileOperationFromResult(res))
}

// 🔎 LogFinding logs one advisory finding
func (l *Logger) LogFinding(ctx context.Context, f findings.Finding) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kindColor := color.FgYellow
	if f.Kind == findings.KindRegionMismatch || f.Kind == findings.KindUnbalancedQuotes {
		kindColor = color.FgRed
	}

	location := f.Path
	if f.Line > 0 {
		location = fmt.Sprintf("%s:%d", f.Path, f.Line)
	}

	line := fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", findingWidth, f.Kind)),
		location,
		color.New(color.Faint).Sprint(findingDetail(f)))
	fmt.Fprintln(l.console, strings.TrimRight(line, " "))

	l.zlog.Warn().
		Str("kind", string(f.Kind)).
		Str("file", f.Path).
		Int("line", f.Line).
		Str("module", f.Module).
		Msg(f.Detail)
}

func findingDetail(f findings.Finding) string {
	if f.Module == "" {
		return f.Detail
	}
	return fmt.Sprintf("%q %s", f.Module, f.Detail)
}

// 📝 StartRun prints the header of a command run
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	mode := "apply"
	if op.DryRun {
		mode = "dry run"
	}

	fmt.Fprintf(l.console, "[%s %s]\n",
		op.Command,
		color.New(color.FgCyan).Sprint(op.Root))

	if len(op.Sets) > 0 {
		fmt.Fprintf(l.console, "%s %s %s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(strings.Join(op.Sets, ", ")),
			color.New(color.Faint).Sprint("•"),
			color.New(color.FgYellow).Sprint(mode))
	}

	l.zlog.Info().
		Str("command", op.Command).
		Str("root", op.Root).
		Strs("sets", op.Sets).
		Bool("dry_run", op.DryRun).
		Msg("starting run")
}

// 📝 EndRun ends the current run
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	l.zlog.Info().
		Str("command", l.currentOp.Command).
		Int("files", len(l.operations)).
		Msg("run complete")

	l.currentOp = nil
	l.operations = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("rewriterc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// Print writes raw text to the console
func (l *Logger) Print(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, s)
}
