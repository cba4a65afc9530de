package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/clihub/clihub/internal/paths"
)

// backupPrefix names automatic database snapshot files.
const backupPrefix = "db_backup_"

// backupTimeFormat is the UTC timestamp embedded in backup filenames.
const backupTimeFormat = "20060102_150405"

// BackupInfo describes one snapshot file in the backups directory.
type BackupInfo struct {
	ID      string
	Path    string
	Size    int64
	ModTime time.Time
}

// BackupDatabaseFile copies a consistent snapshot of the live database
// into the backups directory and prunes old snapshots past the
// retention cap. Returns the backup id.
func (s *Store) BackupDatabaseFile() (string, error) {
	if s.Path() == "" {
		return "", errors.New("cannot back up an in-memory database")
	}

	if err := paths.EnsureDir(s.backupsDir, paths.DefaultDirPerm); err != nil {
		return "", errors.Wrap(err, "creating backups directory")
	}

	id := time.Now().UTC().Format(backupTimeFormat)
	target := filepath.Join(s.backupsDir, backupPrefix+id+".db")
	for i := 1; ; i++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		target = filepath.Join(s.backupsDir, fmt.Sprintf("%s%s_%d.db", backupPrefix, id, i))
	}

	s.mu.Lock()
	// VACUUM INTO produces a consistent single-file snapshot. The path
	// cannot be bound as a parameter, so it is quote-escaped inline.
	stmt := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(target, "'", "''"))
	_, err := s.db.Exec(stmt)
	s.mu.Unlock()
	if err != nil {
		return "", errors.Wrap(err, "writing database snapshot")
	}

	if err := s.pruneBackups(); err != nil {
		s.log.Warn("pruning old backups failed", "error", err)
	}

	s.log.Info("database backed up", "path", target)
	return strings.TrimSuffix(filepath.Base(target), ".db"), nil
}

// ListBackups returns the snapshot files, newest first.
func (s *Store) ListBackups() ([]BackupInfo, error) {
	infos, err := s.backupFiles()
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ModTime.After(infos[j].ModTime)
	})
	return infos, nil
}

// pruneBackups deletes the oldest snapshots beyond the retention cap.
// The newest files always survive.
func (s *Store) pruneBackups() error {
	infos, err := s.backupFiles()
	if err != nil {
		return err
	}
	if len(infos) <= s.retention {
		return nil
	}

	// Oldest first.
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ModTime.Before(infos[j].ModTime)
	})

	for _, info := range infos[:len(infos)-s.retention] {
		if err := os.Remove(info.Path); err != nil {
			return errors.Wrapf(err, "removing %s", info.Path)
		}
		s.log.Debug("pruned old backup", "path", info.Path)
	}
	return nil
}

func (s *Store) backupFiles() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backups directory")
	}

	var infos []BackupInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, ".db") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return nil, errors.Wrapf(err, "inspecting %s", name)
		}
		infos = append(infos, BackupInfo{
			ID:      strings.TrimSuffix(name, ".db"),
			Path:    filepath.Join(s.backupsDir, name),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	return infos, nil
}
