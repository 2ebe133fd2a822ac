package sdkconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/bspcheck/pkg/board"
)

func read(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	return string(data)
}

func write(t *testing.T, root, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0o600))
}

func assertMissing(t *testing.T, root, name string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(root, name))
	assert.True(t, os.IsNotExist(err), "%s should not exist", name)
}

func TestCompose(t *testing.T) {
	p := board.Default()

	got := Compose("CONFIG_FOO=y", p, nil)

	assert.True(t, strings.HasPrefix(got, "CONFIG_FOO=y\n\n# Desktop SparkBot 桌面机器人 smoke test configuration\n"))
	assert.Contains(t, got, "CONFIG_BOARD_TYPE_DESKTOP_SPARKBOT=y\n")
	assert.Contains(t, got, "CONFIG_IDF_TARGET=\"esp32s3\"\n")
	assert.Contains(t, got, "CONFIG_SPIRAM_MODE_OCT=y\n")
	assert.Contains(t, got, "CONFIG_LV_GIF_CACHE_DECODE_DATA=y\n")
	assert.NotContains(t, got, "config.json")
}

func TestCompose_Manifest(t *testing.T) {
	p := board.Default()
	m := &board.Manifest{Target: "esp32p4", SdkconfigAppend: []string{"CONFIG_X=y"}}

	got := Compose("", p, m)

	assert.True(t, strings.HasPrefix(got, "\n# Desktop SparkBot"))
	assert.Contains(t, got, "CONFIG_IDF_TARGET=\"esp32p4\"\n")
	assert.True(t, strings.HasSuffix(got, "# from board config.json\nCONFIG_X=y\n"))
}

func TestCompose_DefaultTarget(t *testing.T) {
	p := board.Default()
	p.Target = ""

	assert.Contains(t, Compose("", p, &board.Manifest{}), "CONFIG_IDF_TARGET=\"esp32s3\"\n")
}

func TestReadDefaults(t *testing.T) {
	root := t.TempDir()

	got, err := ReadDefaults(root)
	require.NoError(t, err)
	assert.Empty(t, got)

	write(t, root, FileDefaults, "CONFIG_A=y\n")
	got, err = ReadDefaults(root)
	require.NoError(t, err)
	assert.Equal(t, "CONFIG_A=y\n", got)
}

func TestOverride_RestoresOriginal(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileConfig, "original\n")
	_, err := WriteTest(root, "test\n")
	require.NoError(t, err)

	o, err := Acquire(root, nil)
	require.NoError(t, err)

	assert.Equal(t, "test\n", read(t, root, FileConfig))
	assert.Equal(t, "original\n", read(t, root, FileBackup))
	assert.Equal(t, journalBackup, read(t, root, FileJournal))

	require.NoError(t, o.Release())
	require.NoError(t, o.Release())

	assert.Equal(t, "original\n", read(t, root, FileConfig))
	assert.Equal(t, "test\n", read(t, root, FileTest))
	assertMissing(t, root, FileBackup)
	assertMissing(t, root, FileJournal)
}

func TestOverride_NoOriginal(t *testing.T) {
	root := t.TempDir()
	_, err := WriteTest(root, "test\n")
	require.NoError(t, err)

	o, err := Acquire(root, nil)
	require.NoError(t, err)
	assert.Equal(t, "test\n", read(t, root, FileConfig))

	require.NoError(t, o.Release())
	assertMissing(t, root, FileConfig)
	assert.Equal(t, "test\n", read(t, root, FileTest))
}

func TestOverride_DetectsModifiedRestore(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileConfig, "original\n")
	_, err := WriteTest(root, "test\n")
	require.NoError(t, err)

	o, err := Acquire(root, nil)
	require.NoError(t, err)
	write(t, root, FileBackup, "tampered\n")

	assert.ErrorIs(t, o.Release(), ErrRestoreMismatch)
}

func TestAcquire_NoTestConfig(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileConfig, "original\n")

	_, err := Acquire(root, nil)

	assert.ErrorIs(t, err, ErrNoTestConfig)
	assert.Equal(t, "original\n", read(t, root, FileConfig))
	assertMissing(t, root, FileJournal)
}

func TestAcquire_Locked(t *testing.T) {
	root := t.TempDir()
	_, err := WriteTest(root, "test\n")
	require.NoError(t, err)

	o, err := Acquire(root, nil)
	require.NoError(t, err)
	defer func() { _ = o.Release() }()

	_, err = WriteTest(root, "second\n")
	require.NoError(t, err)
	_, err = Acquire(root, nil)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestAcquire_RefusesToOverwriteUserBackup(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileConfig, "CONFIG_CURRENT=y\n")
	write(t, root, FileBackup, "CONFIG_USER_KEPT_BACKUP=y\n")
	_, err := WriteTest(root, "test\n")
	require.NoError(t, err)

	_, err = Acquire(root, nil)
	require.ErrorIs(t, err, ErrBackupExists)
	require.NoError(t, Cleanup(root, nil))

	assert.Equal(t, "CONFIG_CURRENT=y\n", read(t, root, FileConfig))
	assert.Equal(t, "CONFIG_USER_KEPT_BACKUP=y\n", read(t, root, FileBackup))
	assertMissing(t, root, FileJournal)
}

func TestRecover_InterruptedWithBackup(t *testing.T) {
	root := t.TempDir()
	// State left behind when the process is killed inside an override.
	write(t, root, FileConfig, "test\n")
	write(t, root, FileBackup, "original\n")
	write(t, root, FileJournal, journalBackup)

	recovered, err := Recover(root, nil)

	require.NoError(t, err)
	assert.True(t, recovered)
	assert.Equal(t, "original\n", read(t, root, FileConfig))
	assertMissing(t, root, FileBackup)
	assertMissing(t, root, FileJournal)
}

func TestRecover_InterruptedWithoutOriginal(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileConfig, "test\n")
	write(t, root, FileJournal, journalNone)

	recovered, err := Recover(root, nil)

	require.NoError(t, err)
	assert.True(t, recovered)
	assertMissing(t, root, FileConfig)
}

func TestRecover_BackupWithoutJournal(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileBackup, "original\n")

	recovered, err := Recover(root, nil)

	require.NoError(t, err)
	assert.True(t, recovered)
	assert.Equal(t, "original\n", read(t, root, FileConfig))
}

func TestRecover_LeavesUserBackupAlone(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileConfig, "current\n")
	write(t, root, FileBackup, "users own backup\n")

	recovered, err := Recover(root, nil)

	require.NoError(t, err)
	assert.False(t, recovered)
	assert.Equal(t, "current\n", read(t, root, FileConfig))
	assert.Equal(t, "users own backup\n", read(t, root, FileBackup))
}

func TestRecover_Nothing(t *testing.T) {
	recovered, err := Recover(t.TempDir(), nil)

	require.NoError(t, err)
	assert.False(t, recovered)
}

func TestAcquire_RecoversFirst(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileConfig, "stale test\n")
	write(t, root, FileBackup, "original\n")
	write(t, root, FileJournal, journalBackup)
	_, err := WriteTest(root, "fresh test\n")
	require.NoError(t, err)

	o, err := Acquire(root, nil)
	require.NoError(t, err)
	assert.Equal(t, "fresh test\n", read(t, root, FileConfig))
	assert.Equal(t, "original\n", read(t, root, FileBackup))

	require.NoError(t, o.Release())
	assert.Equal(t, "original\n", read(t, root, FileConfig))
}

func TestCleanup(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileConfig, "original\n")
	_, err := WriteTest(root, "test\n")
	require.NoError(t, err)
	o, err := Acquire(root, nil)
	require.NoError(t, err)
	require.NoError(t, o.Release())

	require.NoError(t, Cleanup(root, nil))

	assert.Equal(t, "original\n", read(t, root, FileConfig))
	assertMissing(t, root, FileTest)
	assertMissing(t, root, FileBackup)
	assertMissing(t, root, FileLock)
}

func TestCleanup_AfterCrash(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileConfig, "test\n")
	write(t, root, FileBackup, "original\n")
	write(t, root, FileJournal, journalBackup)

	require.NoError(t, Cleanup(root, nil))

	assert.Equal(t, "original\n", read(t, root, FileConfig))
	assertMissing(t, root, FileBackup)
	assertMissing(t, root, FileTest)
}

func TestCleanup_LeavesLockedRunAlone(t *testing.T) {
	root := t.TempDir()
	_, err := WriteTest(root, "test\n")
	require.NoError(t, err)
	o, err := Acquire(root, nil)
	require.NoError(t, err)
	defer func() { _ = o.Release() }()

	assert.ErrorIs(t, Cleanup(root, nil), ErrLocked)
	assert.Equal(t, "test\n", read(t, root, FileConfig))
	assert.Equal(t, journalNone, read(t, root, FileJournal))
}
