package sdkconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

var (
	ErrLocked          = errors.New("another run holds the sdkconfig override")
	ErrNoTestConfig    = errors.New("sdkconfig.test does not exist")
	ErrRestoreMismatch = errors.New("restored sdkconfig differs from the original")
	ErrBackupExists    = errors.New("sdkconfig.backup already exists; move it away before running the smoke test")
)

// Journal states written to sdkconfig.override while an override is active.
const (
	journalBackup = "backup" // the original sdkconfig is in sdkconfig.backup
	journalNone   = "none"   // the project had no sdkconfig
)

// Override holds the test configuration in place of sdkconfig until Release.
// The journal file lets Recover undo an override whose process was killed.
type Override struct {
	root     string
	lock     *flock.Flock
	original []byte // blake3 digest, nil when there was no sdkconfig
	released bool
	log      *zap.Logger
}

func path(root, name string) string {
	return filepath.Join(root, name)
}

// Acquire moves sdkconfig aside and sdkconfig.test into its place.
// Callers must defer Release.
func Acquire(root string, log *zap.Logger) (*Override, error) {
	if log == nil {
		log = zap.NewNop()
	}
	lock := flock.New(path(root, FileLock))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring %s: %w", FileLock, err)
	}
	if !locked {
		return nil, ErrLocked
	}

	o := &Override{root: root, lock: lock, log: log}
	if err := o.acquire(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return o, nil
}

func (o *Override) acquire() error {
	if _, err := recoverOverride(o.root, o.log); err != nil {
		return err
	}
	if _, err := os.Stat(path(o.root, FileTest)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoTestConfig
		}
		return fmt.Errorf("stat %s: %w", FileTest, err)
	}

	state := journalNone
	digest, err := hashFile(path(o.root, FileConfig))
	switch {
	case err == nil:
		state = journalBackup
		o.original = digest
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("hashing %s: %w", FileConfig, err)
	}
	if state == journalBackup && exists(path(o.root, FileBackup)) {
		return ErrBackupExists
	}

	if err := os.WriteFile(path(o.root, FileJournal), []byte(state), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", FileJournal, err)
	}
	if state == journalBackup {
		if err := os.Rename(path(o.root, FileConfig), path(o.root, FileBackup)); err != nil {
			_ = os.Remove(path(o.root, FileJournal))
			return fmt.Errorf("backing up %s: %w", FileConfig, err)
		}
	}
	if err := os.Rename(path(o.root, FileTest), path(o.root, FileConfig)); err != nil {
		_, _ = recoverOverride(o.root, o.log)
		return fmt.Errorf("installing %s: %w", FileTest, err)
	}

	o.log.Debug("sdkconfig override acquired", zap.String("root", o.root), zap.String("state", state))
	return nil
}

// Release moves the test configuration back to sdkconfig.test and restores
// the original sdkconfig. It is safe to call more than once.
func (o *Override) Release() error {
	if o.released {
		return nil
	}
	o.released = true
	defer func() { _ = o.lock.Unlock() }()

	var errs []error
	if err := os.Rename(path(o.root, FileConfig), path(o.root, FileTest)); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("saving %s: %w", FileTest, err))
	}
	if o.original != nil {
		if err := os.Rename(path(o.root, FileBackup), path(o.root, FileConfig)); err != nil {
			// Keep the journal so Recover can retry.
			return errors.Join(append(errs, fmt.Errorf("restoring %s: %w", FileConfig, err))...)
		}
		digest, err := hashFile(path(o.root, FileConfig))
		if err != nil {
			errs = append(errs, fmt.Errorf("hashing restored %s: %w", FileConfig, err))
		} else if !bytes.Equal(digest, o.original) {
			errs = append(errs, ErrRestoreMismatch)
		}
	}
	if err := os.Remove(path(o.root, FileJournal)); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("removing %s: %w", FileJournal, err))
	}

	o.log.Debug("sdkconfig override released", zap.String("root", o.root), zap.Int("errors", len(errs)))
	return errors.Join(errs...)
}

// Recover undoes an override left behind by an interrupted run. It reports
// whether anything was restored.
func Recover(root string, log *zap.Logger) (bool, error) {
	if log == nil {
		log = zap.NewNop()
	}
	lock := flock.New(path(root, FileLock))
	locked, err := lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquiring %s: %w", FileLock, err)
	}
	if !locked {
		return false, ErrLocked
	}
	defer func() { _ = lock.Unlock() }()
	return recoverOverride(root, log)
}

func recoverOverride(root string, log *zap.Logger) (bool, error) {
	state := ""
	data, err := os.ReadFile(path(root, FileJournal)) //nolint:gosec // project file
	switch {
	case err == nil:
		state = strings.TrimSpace(string(data))
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("reading %s: %w", FileJournal, err)
	}

	hasBackup := exists(path(root, FileBackup))
	hasConfig := exists(path(root, FileConfig))

	switch {
	case state == "" && !hasBackup:
		return false, nil
	case state == "" && hasConfig:
		// No journal: sdkconfig.backup may be the user's own file.
		log.Warn("leaving sdkconfig.backup alone, sdkconfig exists and no override journal found",
			zap.String("root", root))
		return false, nil
	case state == journalNone || (state == journalBackup && hasBackup):
		// sdkconfig currently holds the test configuration.
		if err := os.Remove(path(root, FileConfig)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("removing test %s: %w", FileConfig, err)
		}
	}
	if hasBackup {
		if err := os.Rename(path(root, FileBackup), path(root, FileConfig)); err != nil {
			return false, fmt.Errorf("restoring %s: %w", FileConfig, err)
		}
	}
	if err := os.Remove(path(root, FileJournal)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("removing %s: %w", FileJournal, err)
	}

	log.Info("recovered sdkconfig from interrupted run", zap.String("root", root), zap.String("state", state))
	return true, nil
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// Cleanup recovers any leftover override and removes the temporary files.
// sdkconfig.backup is only ever removed by restoring it. Nothing is touched
// while another run holds the lock.
func Cleanup(root string, log *zap.Logger) error {
	var errs []error
	if _, err := Recover(root, log); err != nil {
		if errors.Is(err, ErrLocked) {
			return err
		}
		errs = append(errs, err)
	}
	for _, name := range []string{FileTest, FileLock} {
		if err := os.Remove(path(root, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func hashFile(name string) ([]byte, error) {
	f, err := os.Open(name) //nolint:gosec // project file
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
