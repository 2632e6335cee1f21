package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nibzard/brainfile-go/internal/taskfile"
)

// Path returns the ledger file path for a logs directory.
func Path(logsDir string) string {
	return filepath.Join(logsDir, FileName)
}

// Append writes one record to the ledger, creating it as needed, and
// returns the ledger path.
func Append(logsDir string, record Record) (string, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating logs directory: %w", err)
	}

	line, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encoding ledger record %s: %w", record.ID, err)
	}

	ledgerPath := Path(logsDir)
	f, err := os.OpenFile(ledgerPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return "", fmt.Errorf("appending to ledger: %w", err)
	}
	return ledgerPath, nil
}

// Reader loads ledger records, reporting malformed lines and legacy
// fallbacks through its logger instead of failing the read.
type Reader struct {
	logger *log.Logger

	mu           sync.Mutex
	warnedLegacy map[string]bool
}

// NewReader returns a Reader. A nil logger falls back to the standard
// logger.
func NewReader(logger *log.Logger) *Reader {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Reader{logger: logger, warnedLegacy: make(map[string]bool)}
}

// Read returns all ledger records. When ledger.jsonl is missing but
// markdown logs exist, records are derived from those files instead,
// with a warning the first time per directory.
func (r *Reader) Read(logsDir string) []Record {
	ledgerPath := Path(logsDir)
	content, err := os.ReadFile(ledgerPath)
	if err != nil {
		return r.readLegacyMarkdown(logsDir)
	}

	var records []Record
	for i, rawLine := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if record, ok := r.parseLine(line, i+1, ledgerPath); ok {
			records = append(records, record)
		}
	}
	return records
}

func (r *Reader) parseLine(line string, lineNumber int, ledgerPath string) (Record, bool) {
	var record Record
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		r.logger.WithError(err).Warnf("Failed to parse ledger line %d in %s", lineNumber, ledgerPath)
		return Record{}, false
	}
	if record.ID == "" || record.Title == "" || record.Type == "" {
		r.logger.Warnf("Ignoring invalid ledger line %d in %s", lineNumber, ledgerPath)
		return Record{}, false
	}
	return record, true
}

// readLegacyMarkdown converts pre-ledger markdown logs on the fly.
func (r *Reader) readLegacyMarkdown(logsDir string) []Record {
	docs := taskfile.ReadDir(logsDir)
	if len(docs) == 0 {
		return nil
	}

	if r.shouldWarnLegacy(logsDir) {
		r.logger.Warnf("%s not found in %s; falling back to legacy markdown logs", FileName, logsDir)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		completedAt := doc.Task.CompletedAt
		if completedAt == "" {
			completedAt = doc.Task.UpdatedAt
		}
		if completedAt == "" {
			completedAt = doc.Task.CreatedAt
		}
		if completedAt == "" {
			completedAt = EpochISO
		}
		records = append(records, BuildRecord(doc.Task, doc.Body, BuildOptions{CompletedAt: completedAt}))
	}
	return records
}

func (r *Reader) shouldWarnLegacy(logsDir string) bool {
	key, err := filepath.Abs(logsDir)
	if err != nil {
		key = logsDir
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.warnedLegacy[key] {
		return false
	}
	r.warnedLegacy[key] = true
	return true
}
