package archive

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Invalidator is called with the normalized asset path of a file that
// changed under a watched folder, so a caller's BoundedCache can drop the
// corresponding entry. Development-mode convenience (SPEC_FULL.md
// "Archive hot-reload watch"); off by default.
type Invalidator func(path string)

// Watch starts an fsnotify watch over a FolderArchive's base directory,
// invoking onChange with the normalized path of any created or written
// file. The returned stop function closes the underlying watcher.
func Watch(folder *FolderArchive, onChange Invalidator) (stop func() error, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := filepath.WalkDir(folder.base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	}); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				rel, err := filepath.Rel(folder.base, event.Name)
				if err != nil {
					continue
				}
				onChange(normalize(strings.ReplaceAll(rel, string(filepath.Separator), `\`)))
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return watcher.Close, nil
}
