package exec

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
)

// commandNotFoundPatterns detect "command not found" output from the shells
// a menu-bar host may wrap the plugin in. These require exit code 127.
var commandNotFoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bash: (\S+): command not found`),
	regexp.MustCompile(`(?i)zsh: command not found: (\S+)`),
	regexp.MustCompile(`(?i)sh: \d+: (\S+): not found`),
	regexp.MustCompile(`(?i)env: (\S+): No such file or directory`),
	regexp.MustCompile(`(?i)(\S+): command not found`),
}

// commonBinDirs are where pip, pipx and Homebrew usually put the meshtastic
// tool. Menu-bar hosts start plugins with a bare PATH that misses them.
var commonBinDirs = []string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"$HOME/.local/bin",
	"$HOME/Library/Python/3.12/bin",
	"$HOME/Library/Python/3.11/bin",
	"$HOME/.pyenv/shims",
}

// IsCommandNotFound checks if the output indicates a missing command.
// Returns the command name (if extractable) and whether it's a command-not-found error.
func IsCommandNotFound(stderr string, exitCode int) (string, bool) {
	if exitCode != 127 {
		return "", false
	}

	for _, pattern := range commandNotFoundPatterns {
		if matches := pattern.FindStringSubmatch(stderr); len(matches) > 1 {
			return matches[1], true
		}
	}

	return "", true
}

// HandleExecError returns a structured error with install hints when bin
// could not be found. Any other outcome returns nil.
func HandleExecError(bin string, stderr string, exitCode int) error {
	cmdName, notFound := IsCommandNotFound(stderr, exitCode)
	if !notFound {
		return nil
	}
	if cmdName == "" {
		cmdName = bin
	}

	suggestion := fmt.Sprintf(`'%s' wasn't found in the plugin's PATH.

Fixes:

1. Install the meshtastic CLI:
   pip3 install --upgrade "meshtastic[cli]"

2. Point meshtastic_bin at the full path in ~/.meshtastic-menubar.yml:
   meshtastic_bin: %s`, cmdName, suggestBinPath(cmdName))

	return errors.New(errors.ErrTransport,
		fmt.Sprintf("'%s' not found", cmdName),
		suggestion)
}

func suggestBinPath(name string) string {
	if found, ok := FindBinary(name); ok {
		return found
	}
	return "/opt/homebrew/bin/" + filepath.Base(name)
}

// FindBinary resolves name on PATH, then in the common install directories.
// Names containing a path separator are only checked for existence.
func FindBinary(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	if strings.ContainsRune(name, os.PathSeparator) {
		return name, isExecutable(name)
	}

	if p, err := exec.LookPath(name); err == nil {
		return p, true
	}

	for _, dir := range commonBinDirs {
		candidate := filepath.Join(os.ExpandEnv(dir), name)
		if isExecutable(candidate) {
			return candidate, true
		}
	}

	return "", false
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}

// OnPath reports whether name resolves through PATH alone.
func OnPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
