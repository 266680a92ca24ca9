package assets

import "github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"

// Loader reads one kind of file from disk. params is loader specific and may be nil.
type Loader interface {
	Load(path string, params interface{}) (*metadata.Asset, error)
}
