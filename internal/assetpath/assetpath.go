// Package assetpath implements the asset-name glue utilities of spec.md §4.K:
// extension normalization, map-name/atlas-path helpers, the BGM mapping-file
// parser, case-insensitive directory search, and the sorted-vector
// set-difference used by the ambient audio engine.
package assetpath

import (
	"bufio"
	"sort"
	"strings"
)

// Normalize lower-cases a logical asset path and folds forward slashes to the
// backslash separator the archive formats use internally.
func Normalize(path string) string {
	path = strings.ToLower(path)
	return strings.ReplaceAll(path, "/", "\\")
}

// NormalizeExtension lower-cases a file extension, tolerating a leading dot
// or its absence, so ".BMP", "bmp", and ".bmp" all normalize to ".bmp".
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

const (
	texturePrefix      = `data\texture\`
	soundEffectPrefix  = `data\wav\`
	derivedTexturesDir = `textures\`
	derivedAtlasDir    = `atlas\`
)

// TextureSourcePath returns the logical source path of a texture given its
// bare name (the part after the `data\texture\` prefix).
func TextureSourcePath(name string) string {
	return texturePrefix + Normalize(name)
}

// SoundEffectPath returns the logical source path of a sound effect given its
// bare name (the part after the `data\wav\` prefix).
func SoundEffectPath(name string) string {
	return soundEffectPrefix + Normalize(name)
}

// DerivedTexturePath returns the DerivedCache path for a block-compressed
// mip chain derived from the given source texture path.
func DerivedTexturePath(sourcePath string) string {
	return derivedTexturesDir + sourcePath + ".dds"
}

// AtlasPath returns the DerivedCache path of a map's texture atlas.
func AtlasPath(mapName string) string {
	return derivedAtlasDir + mapName + ".kta"
}

// IsTextureSourcePath reports whether path lives under the source texture
// directory, for callers (the DerivedCache sync pass) enumerating texture
// assets out of an ArchiveSet listing.
func IsTextureSourcePath(path string) bool {
	return strings.HasPrefix(Normalize(path), texturePrefix)
}

// BGMRecord is one parsed line of a background-music mapping file.
type BGMRecord struct {
	MapName   string
	TrackName string
}

// ParseBGMMapping parses a BGM mapping file: UTF-8 text, one record per
// line, fields separated by '#', '//'-prefixed comment lines skipped. Only
// fields[0] (map resource name) and fields[1] (track name) are read.
func ParseBGMMapping(r *bufio.Reader) (map[string]string, error) {
	mapping := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Split(line, "#")
		if len(fields) < 2 {
			continue
		}
		mapName := strings.TrimSpace(fields[0])
		trackName := strings.TrimSpace(fields[1])
		if mapName == "" || trackName == "" {
			continue
		}
		mapping[mapName] = trackName
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mapping, nil
}

// DirLister abstracts the directory listing a case-insensitive search walks;
// archive.Set implements it via list(extension set).
type DirLister interface {
	List(extensions []string) ([]string, error)
}

// FindCaseInsensitive searches for a file whose name matches want (ignoring
// case) among the given extension preference order, returning the first
// archive-cased path found. Used only by BGM path resolution.
func FindCaseInsensitive(lister DirLister, baseName string, extensions []string) (string, bool) {
	entries, err := lister.List(extensions)
	if err != nil {
		return "", false
	}
	wantLower := strings.ToLower(baseName)
	for _, ext := range extensions {
		target := wantLower + NormalizeExtension(ext)
		for _, entry := range entries {
			if strings.ToLower(entry) == target {
				return entry, true
			}
		}
	}
	return "", false
}

// SortedDifference computes { x in a : x not in b }, preserving a's order,
// via a linear two-pointer merge over sorted a and b. result is cleared and
// reused by the caller across calls to avoid reallocating.
func SortedDifference[T int | int32 | int64 | uint | uint32 | uint64](a, b []T, result []T) []T {
	result = result[:0]
	i, j := 0, 0
	for i < len(a) {
		for j < len(b) && b[j] < a[i] {
			j++
		}
		if j < len(b) && b[j] == a[i] {
			i++
			continue
		}
		result = append(result, a[i])
		i++
	}
	return result
}

// EnsureSorted is a convenience used by callers that build a before diffing;
// SortedDifference assumes both inputs are already sorted ascending.
func EnsureSorted[T int | int32 | int64 | uint | uint32 | uint64](s []T) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
