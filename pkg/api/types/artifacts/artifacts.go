package artifacts

type FileInfo struct {
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	FileSize int64  `json:"file_size,omitempty"`
}

func (f FileInfo) Equal(o FileInfo) bool {
	return f.Path == o.Path && f.IsDir == o.IsDir && f.FileSize == o.FileSize
}

// response of artifacts/list API for runs.
type ListResponse struct {
	RootUri       string     `json:"root_uri,omitempty"`
	Files         []FileInfo `json:"files,omitempty"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

// response of listing API of the artifact proxy (mlflow-artifacts).
type ProxiedListResponse struct {
	Files []FileInfo `json:"files,omitempty"`
}
