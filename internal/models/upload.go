package models

// LocalFile is an upload already staged on disk by the request layer.
type LocalFile struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ImageRef is either a staged local image or a remote image URL. A non-empty
// URL selects the remote branch.
type ImageRef struct {
	LocalFile
	URL string `json:"url,omitempty"`
}

func (r *ImageRef) IsRemote() bool {
	return r.URL != ""
}

// UploadResult is returned to the host for every successful upload.
type UploadResult struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RemoteImageRequest is the JSON body accepted by the image endpoint.
type RemoteImageRequest struct {
	URL string `json:"url" binding:"required"`
}
