package gen

import (
	"path/filepath"
	"strings"
)

// GOOS and GOARCH values the go command recognises in file names.
var (
	knownOS = map[string]bool{
		"aix": true, "android": true, "darwin": true, "dragonfly": true,
		"freebsd": true, "hurd": true, "illumos": true, "ios": true,
		"js": true, "linux": true, "nacl": true, "netbsd": true,
		"openbsd": true, "plan9": true, "solaris": true, "wasip1": true,
		"windows": true, "zos": true,
	}
	knownArch = map[string]bool{
		"386": true, "amd64": true, "amd64p32": true, "arm": true,
		"armbe": true, "arm64": true, "arm64be": true, "loong64": true,
		"mips": true, "mipsle": true, "mips64": true, "mips64le": true,
		"mips64p32": true, "mips64p32le": true, "ppc": true, "ppc64": true,
		"ppc64le": true, "riscv": true, "riscv64": true, "s390": true,
		"s390x": true, "sparc": true, "sparc64": true, "wasm": true,
	}
)

// splitPlatform splits a file name stem into its base and a trailing
// _GOOS, _GOARCH or _GOOS_GOARCH element, following the go command: the
// part before the first underscore never counts.
func splitPlatform(stem string) (base, platform string) {
	parts := strings.Split(stem, "_")
	n := len(parts)

	switch {
	case n >= 3 && knownOS[parts[n-2]] && knownArch[parts[n-1]]:
		n -= 2
	case n >= 2 && (knownOS[parts[n-1]] || knownArch[parts[n-1]]):
		n--
	default:
		return stem, ""
	}

	return strings.Join(parts[:n], "_"), "_" + strings.Join(parts[n:], "_")
}

// OutputPath returns the generated file path for a source file. The
// suffix goes before any GOOS/GOARCH name elements, so the output is
// built on the same platforms as its source:
// "a_windows.go" becomes "a_validgen_windows.go".
func OutputPath(source, suffix string) string {
	dir, name := filepath.Split(source)
	base, platform := splitPlatform(strings.TrimSuffix(name, ".go"))

	return dir + base + strings.TrimSuffix(suffix, ".go") + platform + ".go"
}

// SourcePath is the inverse of OutputPath. It reports false when output
// is not named like a generated file.
func SourcePath(output, suffix string) (string, bool) {
	dir, name := filepath.Split(output)
	if !strings.HasSuffix(name, ".go") {
		return "", false
	}

	base, platform := splitPlatform(strings.TrimSuffix(name, ".go"))
	marker := strings.TrimSuffix(suffix, ".go")

	stem, ok := strings.CutSuffix(base, marker)
	if !ok || stem == "" {
		return "", false
	}

	return dir + stem + platform + ".go", true
}
