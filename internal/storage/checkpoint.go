package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	checkpointTimeLayout = "20060102-150405.000000"
	maxAutoCheckpoints   = 5
)

// CheckpointManager snapshots the database file next to it, under
// <db dir>/checkpoints.
type CheckpointManager struct {
	db             *sql.DB
	dbPath         string
	checkpointsDir string
}

// CheckpointMetadata is stored as <id>.meta.json beside each snapshot.
type CheckpointMetadata struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
	IsAuto        bool           `json:"is_auto"`
}

// CheckpointInfo represents information about a checkpoint for listing.
type CheckpointInfo struct {
	CreatedAt     time.Time
	ID            string
	Description   string
	FileSize      int64
	Accounts      int
	Transactions  int
	SchemaVersion int
	IsAuto        bool
}

// Checkpoint errors.
var (
	ErrCheckpointNotFound  = errors.New("checkpoint not found")
	ErrCheckpointCorrupted = errors.New("checkpoint integrity check failed")
	ErrCheckpointExists    = errors.New("checkpoint already exists")
	ErrInvalidCheckpointID = errors.New("invalid checkpoint ID: cannot contain path separators")
)

// Checkpoints returns a manager for this database's snapshots.
func (s *SQLiteStorage) Checkpoints() (*CheckpointManager, error) {
	if s.dbPath == memoryPath {
		return nil, errors.New("in-memory databases cannot be checkpointed")
	}
	return NewCheckpointManager(s.db, s.dbPath)
}

// NewCheckpointManager creates a new checkpoint manager.
func NewCheckpointManager(db *sql.DB, dbPath string) (*CheckpointManager, error) {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	checkpointsDir := filepath.Join(filepath.Dir(absPath), "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &CheckpointManager{
		db:             db,
		dbPath:         absPath,
		checkpointsDir: checkpointsDir,
	}, nil
}

// Dir returns the directory snapshots are written to.
func (cm *CheckpointManager) Dir() string {
	return cm.checkpointsDir
}

// Create snapshots the database under tag. An empty tag gets a
// timestamped name.
func (cm *CheckpointManager) Create(ctx context.Context, tag, description string) (*CheckpointInfo, error) {
	if tag == "" {
		tag = "checkpoint-" + time.Now().Format(checkpointTimeLayout)
	}
	return cm.create(ctx, tag, description, false)
}

// AutoCheckpoint snapshots the database before a destructive operation
// and prunes all but the newest automatic snapshots.
func (cm *CheckpointManager) AutoCheckpoint(ctx context.Context, operation string) (*CheckpointInfo, error) {
	tag := fmt.Sprintf("auto-%s-%s", operation, time.Now().Format(checkpointTimeLayout))
	info, err := cm.create(ctx, tag, "Automatic checkpoint before "+operation, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create auto-checkpoint: %w", err)
	}

	if err := cm.cleanupOldAutoCheckpoints(ctx); err != nil {
		slog.Warn("failed to clean up old auto-checkpoints", "error", err)
	}
	return info, nil
}

func (cm *CheckpointManager) create(ctx context.Context, tag, description string, auto bool) (*CheckpointInfo, error) {
	if err := validateCheckpointID(tag); err != nil {
		return nil, err
	}

	checkpointPath := cm.snapshotPath(tag)
	if _, err := os.Stat(checkpointPath); err == nil {
		return nil, ErrCheckpointExists
	}

	var schemaVersion int
	if err := cm.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&schemaVersion); err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	rowCounts := cm.collectRowCounts(ctx)

	if err := cm.backupDatabase(ctx, checkpointPath); err != nil {
		return nil, fmt.Errorf("failed to backup database: %w", err)
	}

	stat, err := os.Stat(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat checkpoint: %w", err)
	}

	metadata := CheckpointMetadata{
		ID:            tag,
		CreatedAt:     time.Now(),
		Description:   description,
		FileSize:      stat.Size(),
		RowCounts:     rowCounts,
		SchemaVersion: schemaVersion,
		IsAuto:        auto,
	}

	if err := cm.saveMetadata(tag, metadata); err != nil {
		if rmErr := os.Remove(checkpointPath); rmErr != nil {
			slog.Error("failed to remove checkpoint file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	info := metadata.info()
	return &info, nil
}

// List returns all checkpoints, newest first.
func (cm *CheckpointManager) List(_ context.Context) ([]CheckpointInfo, error) {
	entries, err := os.ReadDir(cm.checkpointsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints directory: %w", err)
	}

	checkpoints := make([]CheckpointInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadata, err := cm.loadMetadata(strings.TrimSuffix(entry.Name(), ".meta.json"))
		if err != nil {
			slog.Debug("skipping unreadable checkpoint metadata", "file", entry.Name(), "error", err)
			continue
		}
		checkpoints = append(checkpoints, metadata.info())
	}

	sort.Slice(checkpoints, func(i, j int) bool {
		return checkpoints[i].CreatedAt.After(checkpoints[j].CreatedAt)
	})

	return checkpoints, nil
}

// Restore replaces the database with a checkpoint. It closes the
// manager's connection; callers must reopen the storage afterwards.
func (cm *CheckpointManager) Restore(_ context.Context, checkpointID string) error {
	snapshot, err := cm.requireSnapshot(checkpointID)
	if err != nil {
		return err
	}
	if _, err := cm.loadMetadata(checkpointID); err != nil {
		return fmt.Errorf("checkpoint %s has unreadable metadata: %w", checkpointID, err)
	}
	if err := verifyCheckpointIntegrity(snapshot); err != nil {
		return fmt.Errorf("%w: %w", ErrCheckpointCorrupted, err)
	}

	if err := cm.db.Close(); err != nil {
		return fmt.Errorf("failed to close database before restore: %w", err)
	}

	safety := cm.dbPath + ".restore-backup"
	if err := copyFile(cm.dbPath, safety); err != nil {
		return fmt.Errorf("failed to keep a copy of the current database: %w", err)
	}

	// Leftover WAL frames would be replayed over the restored file.
	for _, side := range []string{cm.dbPath + "-wal", cm.dbPath + "-shm"} {
		if err := os.Remove(side); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to remove database side file", "file", side, "error", err)
		}
	}

	if err := copyFile(snapshot, cm.dbPath); err != nil {
		if rollbackErr := copyFile(safety, cm.dbPath); rollbackErr != nil {
			slog.Error("failed to put the previous database back", "backup", safety, "error", rollbackErr)
		}
		return fmt.Errorf("failed to restore checkpoint %s: %w", checkpointID, err)
	}

	if err := os.Remove(safety); err != nil {
		slog.Warn("failed to remove restore backup", "file", safety, "error", err)
	}
	return nil
}

// Delete removes a checkpoint and its metadata.
func (cm *CheckpointManager) Delete(_ context.Context, checkpointID string) error {
	snapshot, err := cm.requireSnapshot(checkpointID)
	if err != nil {
		return err
	}
	if err := os.Remove(snapshot); err != nil {
		return fmt.Errorf("failed to remove checkpoint %s: %w", checkpointID, err)
	}
	if err := os.Remove(cm.metadataPath(checkpointID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Debug("failed to remove checkpoint metadata", "checkpoint", checkpointID, "error", err)
	}
	return nil
}

func (m CheckpointMetadata) info() CheckpointInfo {
	return CheckpointInfo{
		ID:            m.ID,
		CreatedAt:     m.CreatedAt,
		Description:   m.Description,
		FileSize:      m.FileSize,
		Accounts:      m.RowCounts["accounts"],
		Transactions:  m.RowCounts["emission_transactions"],
		SchemaVersion: m.SchemaVersion,
		IsAuto:        m.IsAuto,
	}
}

func validateCheckpointID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\'";`) || strings.Contains(id, "..") {
		return ErrInvalidCheckpointID
	}
	return nil
}

// requireSnapshot validates id and returns the path of an existing snapshot.
func (cm *CheckpointManager) requireSnapshot(id string) (string, error) {
	if err := validateCheckpointID(id); err != nil {
		return "", err
	}
	path := cm.snapshotPath(id)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrCheckpointNotFound
		}
		return "", fmt.Errorf("failed to access checkpoint %s: %w", id, err)
	}
	return path, nil
}

func (cm *CheckpointManager) snapshotPath(id string) string {
	return filepath.Join(cm.checkpointsDir, id+".db")
}

func (cm *CheckpointManager) metadataPath(id string) string {
	return filepath.Join(cm.checkpointsDir, id+".meta.json")
}

// countQueries are fixed per table so no name is ever interpolated.
var countQueries = map[string]string{
	"accounts":              "SELECT COUNT(*) FROM accounts",
	"budgets":               "SELECT COUNT(*) FROM budgets",
	"emission_transactions": "SELECT COUNT(*) FROM emission_transactions",
}

func (cm *CheckpointManager) collectRowCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int, len(countQueries))
	for table, query := range countQueries {
		var n int
		// Missing tables on an unmigrated database count as zero.
		_ = cm.db.QueryRowContext(ctx, query).Scan(&n)
		counts[table] = n
	}
	return counts
}

func (cm *CheckpointManager) backupDatabase(ctx context.Context, dest string) error {
	if _, err := cm.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to flush WAL: %w", err)
	}
	if !filepath.IsAbs(dest) || strings.ContainsAny(dest, `'";`) {
		return fmt.Errorf("refusing to vacuum into %q", dest)
	}
	// #nosec G201 - dest is checked above
	if _, err := cm.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", dest)); err != nil {
		slog.Debug("VACUUM INTO unavailable, falling back to file copy", "error", err)
		return copyFile(cm.dbPath, dest)
	}
	return nil
}

// copyFile writes src to dst through a temporary file and a rename.
func copyFile(src, dst string) (err error) {
	// #nosec G304 - src is the database or one of its snapshots
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp := dst + ".tmp"
	// #nosec G304 - tmp sits beside an internal path
	out, err := os.Create(filepath.Clean(tmp))
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

func (cm *CheckpointManager) saveMetadata(id string, metadata CheckpointMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	path := cm.metadataPath(id)
	if err := os.WriteFile(path+".tmp", data, 0o600); err != nil {
		return err
	}
	return os.Rename(path+".tmp", path)
}

func (cm *CheckpointManager) loadMetadata(id string) (*CheckpointMetadata, error) {
	// #nosec G304 - id has been validated
	data, err := os.ReadFile(cm.metadataPath(id))
	if err != nil {
		return nil, err
	}
	metadata := &CheckpointMetadata{}
	if err := json.Unmarshal(data, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

func verifyCheckpointIntegrity(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var verdict string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&verdict); err != nil {
		return err
	}
	if verdict != "ok" {
		return errors.New(verdict)
	}
	return nil
}

// cleanupOldAutoCheckpoints keeps only the newest maxAutoCheckpoints
// automatic snapshots. Manual checkpoints are never pruned.
func (cm *CheckpointManager) cleanupOldAutoCheckpoints(ctx context.Context) error {
	all, err := cm.List(ctx)
	if err != nil {
		return err
	}

	kept := 0
	for _, cp := range all {
		if !cp.IsAuto {
			continue
		}
		if kept < maxAutoCheckpoints {
			kept++
			continue
		}
		if err := cm.Delete(ctx, cp.ID); err != nil {
			slog.Debug("failed to prune auto-checkpoint", "checkpoint", cp.ID, "error", err)
		}
	}
	return nil
}
