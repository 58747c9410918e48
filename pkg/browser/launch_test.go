package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromeArgs(t *testing.T) {
	args := chromeArgs(launchSpec{
		execPath:   "/usr/bin/chromium",
		debugPort:  9222,
		profileDir: "/tmp/scout-profile-x",
		headless:   true,
	})

	assert.Contains(t, args, "--remote-debugging-port=9222")
	assert.Contains(t, args, "--remote-debugging-address=127.0.0.1")
	assert.Contains(t, args, "--user-data-dir=/tmp/scout-profile-x")
	assert.Contains(t, args, "--headless=new")
	assert.Contains(t, args, "--no-first-run")
	assert.Equal(t, "about:blank", args[len(args)-1])
}

func TestChromeArgsHeadful(t *testing.T) {
	args := chromeArgs(launchSpec{debugPort: 9222, profileDir: "/tmp/p"})
	assert.NotContains(t, args, "--headless=new")
}

func TestLaunchProcessMissingBinaryCleansProfileDir(t *testing.T) {
	profileDir := filepath.Join(t.TempDir(), "profile")
	require.NoError(t, os.MkdirAll(profileDir, 0o700))

	_, _, err := launchProcess(launchSpec{
		execPath:   filepath.Join(t.TempDir(), "no-such-binary"),
		debugPort:  9222,
		profileDir: profileDir,
	})
	assert.ErrorIs(t, err, ErrLaunchFailed)
	assert.NoDirExists(t, profileDir)
}
