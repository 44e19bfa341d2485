package source

type (
	// FileID uniquely identifies a template file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a template was loaded.
	FileFlags uint8
)

const (
	// FileVirtual indicates the template was added from memory (CLI arg, stdin, test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File captures metadata and content for a single template file.
// Content is the normalized byte form; all spans index into it.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a template file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
