package entities

import "time"

// FSPathRequest addresses one path. Recursive applies to create-dir and remove-dir.
type FSPathRequest struct {
	Path      string `json:"path" validate:"required"`
	Recursive bool   `json:"recursive,omitempty"`
}

// FSWriteTextRequest writes a UTF-8 file.
type FSWriteTextRequest struct {
	Path     string `json:"path" validate:"required"`
	Contents string `json:"contents"`
}

// FSWriteBinaryRequest writes raw bytes. Data is base64 on the wire.
type FSWriteBinaryRequest struct {
	Path string `json:"path" validate:"required"`
	Data []byte `json:"data"`
}

// FSCopyRequest is the body of copy-file and rename-file.
type FSCopyRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// DirEntry is one entry of a directory listing.
type DirEntry struct {
	Name      string `json:"name"`
	IsDir     bool   `json:"is_dir"`
	IsFile    bool   `json:"is_file"`
	IsSymlink bool   `json:"is_symlink"`
}

// FileInfo describes one filesystem object.
type FileInfo struct {
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	Size       int64      `json:"size"`
	IsDir      bool       `json:"is_dir"`
	IsFile     bool       `json:"is_file"`
	IsSymlink  bool       `json:"is_symlink"`
	Readonly   bool       `json:"readonly"`
}
