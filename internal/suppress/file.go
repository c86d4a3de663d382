package suppress

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/wharflab/hush/internal/sourcemap"
	"github.com/wharflab/hush/internal/syntax"
)

// FileID identifies one version of a file: the same path with different
// content is a different file.
type FileID struct {
	Path string
	Hash uint64
}

func (id FileID) String() string {
	return fmt.Sprintf("%s@%016x", id.Path, id.Hash)
}

// File is the loaded state of one source file that rules read from.
type File struct {
	Path string
	Text *sourcemap.SourceMap
	// Tree is nil when the file could not be parsed, or no grammar exists
	// for it.
	Tree *syntax.Tree

	id FileID
}

// NewFile wraps content and an optional tree.
func NewFile(path string, content []byte, tree *syntax.Tree) *File {
	return &File{
		Path: path,
		Text: sourcemap.New(content),
		Tree: tree,
		id:   FileID{Path: path, Hash: xxhash.Sum64(content)},
	}
}

// ID returns the file identity token.
func (f *File) ID() FileID {
	if f == nil {
		return FileID{}
	}
	return f.id
}
