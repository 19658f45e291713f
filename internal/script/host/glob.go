package host

import "strings"

// globMatch implements the "simple trailing-* glob" spec.md §4.5 calls for:
// a pattern ending in "*" matches any path sharing its literal prefix;
// otherwise the pattern must match the path exactly.
func globMatch(pattern, path string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(path, pattern[:len(pattern)-1])
	}
	return pattern == path
}

// matchesAny reports whether path matches at least one pattern.
func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if globMatch(p, path) {
			return true
		}
	}
	return false
}

// checkFileAccess validates path against the blocked list first, then
// (only if any allowed globs are configured) the allowed list.
func checkFileAccess(cfg SandboxConfig, path string) error {
	if matchesAny(cfg.BlockedGlobs, path) {
		return ErrUnauthorizedFileAccess
	}
	if len(cfg.AllowedGlobs) > 0 && !matchesAny(cfg.AllowedGlobs, path) {
		return ErrUnauthorizedFileAccess
	}
	return nil
}
