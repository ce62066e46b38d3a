package rman

import "slices"

// ManifestData holds the decoded tables and the resolved files.
type ManifestData struct {
	Bundles        []BundleEntry
	Tags           []TagEntry
	FileEntries    []FileEntry
	Directories    []DirectoryEntry
	Keys           []KeyEntry
	ChunkingParams []ChunkingParamEntry

	// Files holds one resolved File per FileEntries row, in the same order.
	Files []File
}

// FileByPath returns the resolved file with the given path.
func (d *ManifestData) FileByPath(path string) (File, bool) {
	for i := range d.Files {
		if d.Files[i].Path == path {
			return d.Files[i], true
		}
	}
	return File{}, false
}

// FilesWithTags returns the files that carry at least one of tags, plus the
// files that carry no tags at all. With no tags it returns every file.
func (d *ManifestData) FilesWithTags(tags ...string) []File {
	if len(tags) == 0 {
		return slices.Clone(d.Files)
	}
	var out []File
	for _, f := range d.Files {
		if len(f.Tags) == 0 || slices.ContainsFunc(tags, f.HasTag) {
			out = append(out, f)
		}
	}
	return out
}

// BundleIDs returns the distinct bundle ids in table order.
func (d *ManifestData) BundleIDs() []uint64 {
	seen := make(map[uint64]struct{}, len(d.Bundles))
	ids := make([]uint64, 0, len(d.Bundles))
	for _, b := range d.Bundles {
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		ids = append(ids, b.ID)
	}
	return ids
}
