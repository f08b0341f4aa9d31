// Package sidecar reads and writes the per-user extra_info file: a small
// INI-like key/value table keyed by uid, grounded on the gumd daemon's
// "[User]\nIcon=..." on-disk format. Only a single "[User]" section is
// ever written, but Load/Save carry an arbitrary string map so a future
// key needs no schema change.
package sidecar

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/accountd/accountd/pkg/accounterr"
)

const sectionHeader = "[User]"

// Path returns the sidecar file path for uid under dir.
func Path(dir string, uid uint32) string {
	return filepath.Join(dir, fmt.Sprintf("%d", uid))
}

// Load reads the key/value table for uid. A missing file is not an
// error: it reports an empty table, matching a user with no extra_info
// recorded yet.
func Load(dir string, uid uint32) (map[string]string, error) {
	f, err := os.Open(Path(dir, uid))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()

	out := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == sectionHeader || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, accounterr.Wrap(accounterr.FileOpen, err)
	}
	return out, nil
}

// Save writes the key/value table for uid under dir, creating dir if
// needed. An empty table still writes a bare "[User]" section, matching
// gumd's behavior of always materializing the sidecar once a user
// exists.
func Save(dir string, uid uint32, values map[string]string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return accounterr.Wrap(accounterr.FileWrite, err)
	}
	var b strings.Builder
	b.WriteString(sectionHeader)
	b.WriteByte('\n')
	for _, key := range []string{"Icon"} {
		if v, ok := values[key]; ok && v != "" {
			fmt.Fprintf(&b, "%s=%s\n", key, v)
		}
	}
	for key, value := range values {
		if key == "Icon" || value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", key, value)
	}
	if err := os.WriteFile(Path(dir, uid), []byte(b.String()), 0644); err != nil {
		return accounterr.Wrap(accounterr.FileWrite, err)
	}
	return nil
}

// Delete removes the sidecar file for uid. A missing file is not an
// error.
func Delete(dir string, uid uint32) error {
	if err := os.Remove(Path(dir, uid)); err != nil && !os.IsNotExist(err) {
		return accounterr.Wrap(accounterr.FileWrite, err)
	}
	return nil
}
