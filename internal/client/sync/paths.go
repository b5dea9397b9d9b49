package sync

import "strings"

const contentExt = ".md"

// itemPath builds the local relative path for a remote item: the prefix
// registered for its content type plus the slug. Slugs may contain
// slashes, which map to subdirectories under the prefix.
func itemPath(prefix, slug string) string {
	return prefix + slug + contentExt
}

// slugFromPath derives the remote slug from a local relative path:
// everything after the type prefix with the extension stripped, so
// itemPath(prefix, slugFromPath(prefix, p)) == p.
func slugFromPath(prefix, relPath string) string {
	return strings.TrimSuffix(strings.TrimPrefix(relPath, prefix), contentExt)
}
