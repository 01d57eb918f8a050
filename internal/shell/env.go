package shell

import (
	"runtime"
	"strings"
)

// PathEnv returns a copy of base with dirs prepended to the PATH entry, in
// the order given. base is never modified; the function does no I/O.
func PathEnv(base []string, dirs ...string) []string {
	if len(dirs) == 0 {
		return append([]string(nil), base...)
	}

	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	prefix := strings.Join(dirs, sep)

	out := make([]string, 0, len(base)+1)
	found := false
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok && k == "PATH" {
			found = true
			if v == "" {
				kv = "PATH=" + prefix
			} else {
				kv = "PATH=" + prefix + sep + v
			}
		}
		out = append(out, kv)
	}
	if !found {
		out = append(out, "PATH="+prefix)
	}
	return out
}
