// Package runner executes a task contract's validation commands and
// reports per-command outcomes. It is the completion gate behind
// "done --validate".
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nibzard/brainfile-go/internal/board"
)

// scanBufferSize is the initial line buffer; maxScanTokenSize caps a
// single output line.
const (
	scanBufferSize   = 64 * 1024
	maxScanTokenSize = 1024 * 1024
)

// CommandResult is the outcome of one validation command.
type CommandResult struct {
	Command  string
	ExitCode int
	Passed   bool
	Duration time.Duration
	// Output holds the command's combined stdout and stderr lines.
	Output string
}

// Report is the outcome of running a task's validation commands.
// Passed is true only when every command ran and exited zero.
type Report struct {
	Results []CommandResult
	Passed  bool
}

// Runner runs validation commands through the shell, streaming their
// output to a logger as it arrives.
type Runner struct {
	logger *log.Logger
	// Timeout bounds each command. Zero means no per-command limit.
	Timeout time.Duration
}

// New returns a runner logging to logger, or the standard logger when
// nil.
func New(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Runner{logger: logger}
}

// Commands returns a task's validation commands, if any.
func Commands(task board.Task) []string {
	if task.Contract == nil || task.Contract.Validation == nil {
		return nil
	}
	return task.Contract.Validation.Commands
}

// Run executes every validation command of the task's contract in dir.
// All commands run even after a failure so the report shows the full
// picture; cancellation stops the sequence.
func (r *Runner) Run(ctx context.Context, task board.Task, dir string) Report {
	commands := Commands(task)
	report := Report{Passed: true}
	if len(commands) == 0 {
		return report
	}

	for _, command := range commands {
		if ctx.Err() != nil {
			report.Passed = false
			break
		}
		result := r.runCommand(ctx, command, dir)
		report.Results = append(report.Results, result)
		if !result.Passed {
			report.Passed = false
		}
	}
	return report
}

func (r *Runner) runCommand(ctx context.Context, command, dir string) CommandResult {
	entry := r.logger.WithField("command", command)
	entry.Info("Running validation command")

	cmdCtx := ctx
	var cancel context.CancelFunc
	if r.Timeout > 0 {
		cmdCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	cmd := exec.CommandContext(cmdCtx, "sh", "-c", command)
	cmd.Dir = dir
	// Grandchildren can hold the pipes open after the shell dies;
	// WaitDelay keeps Wait from blocking on them forever.
	cmd.WaitDelay = 5 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return failedResult(command, start, fmt.Sprintf("create stdout pipe: %v", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return failedResult(command, start, fmt.Sprintf("create stderr pipe: %v", err))
	}

	if err := cmd.Start(); err != nil {
		return failedResult(command, start, fmt.Sprintf("start command: %v", err))
	}

	var mu sync.Mutex
	var lines []string
	record := func(line string) {
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		streamLines(stdout, record, entry.Info)
	}()
	go func() {
		defer wg.Done()
		streamLines(stderr, record, entry.Warn)
	}()
	wg.Wait()

	runErr := cmd.Wait()
	duration := time.Since(start)
	exitCode := exitCodeFromError(runErr)

	if cmdCtx.Err() != nil {
		entry.WithField("duration", duration).Error("Validation command canceled")
	} else if runErr != nil {
		entry.WithField("exitCode", exitCode).Warn("Validation command failed")
	} else {
		entry.WithField("duration", duration).Info("Validation command passed")
	}

	return CommandResult{
		Command:  command,
		ExitCode: exitCode,
		Passed:   runErr == nil,
		Duration: duration,
		Output:   strings.Join(lines, "\n"),
	}
}

func failedResult(command string, start time.Time, message string) CommandResult {
	return CommandResult{
		Command:  command,
		ExitCode: -1,
		Duration: time.Since(start),
		Output:   message,
	}
}

// streamLines forwards non-blank lines to record and the logger.
func streamLines(r io.Reader, record func(string), logLine func(...any)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, scanBufferSize), maxScanTokenSize)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		record(line)
		logLine(line)
	}
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Summarize renders a one-line report summary, like "2/3 checks
// passed".
func Summarize(report Report) string {
	passed := 0
	for _, result := range report.Results {
		if result.Passed {
			passed++
		}
	}
	return fmt.Sprintf("%d/%d checks passed", passed, len(report.Results))
}
