package browser

import (
	"os"
	"os/exec"
	"runtime"
	"sync"
)

// envExecutablePath overrides discovery entirely when set.
const envExecutablePath = "SCOUT_CHROME_PATH"

var (
	locateMu   sync.Mutex
	cachedPath string
)

// FindExecutable discovers a usable Chrome or Chromium binary. The override
// environment variable wins, then well-known installation paths for the
// current platform, then names resolvable through PATH. The first successful
// discovery is cached for the lifetime of the process.
func FindExecutable() (string, error) {
	if override := os.Getenv(envExecutablePath); override != "" {
		if _, err := os.Stat(override); err == nil {
			return override, nil
		}
		return "", ErrExecutableNotFound
	}

	locateMu.Lock()
	defer locateMu.Unlock()

	if cachedPath != "" {
		return cachedPath, nil
	}

	if path, ok := firstExisting(candidatePaths(runtime.GOOS)); ok {
		cachedPath = path
		return path, nil
	}
	for _, name := range candidateNames(runtime.GOOS) {
		if path, err := exec.LookPath(name); err == nil {
			cachedPath = path
			return path, nil
		}
	}
	return "", ErrExecutableNotFound
}

// firstExisting returns the first path that exists and is a regular file.
func firstExisting(paths []string) (string, bool) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		return p, true
	}
	return "", false
}

// candidatePaths lists well-known absolute installation locations per
// platform, in preference order.
func candidatePaths(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			os.ExpandEnv(`${LOCALAPPDATA}\Google\Chrome\Application\chrome.exe`),
			`C:\Program Files\Chromium\Application\chrome.exe`,
		}
	default:
		return []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
			"/snap/bin/chromium",
			"/usr/local/bin/chrome",
		}
	}
}

// candidateNames lists bare binary names to resolve through PATH.
func candidateNames(goos string) []string {
	switch goos {
	case "windows":
		return []string{"chrome.exe", "chrome"}
	default:
		return []string{"google-chrome-stable", "google-chrome", "chromium-browser", "chromium", "chrome"}
	}
}

// resetLocateCache clears the cached discovery result. Tests only.
func resetLocateCache() {
	locateMu.Lock()
	cachedPath = ""
	locateMu.Unlock()
}
