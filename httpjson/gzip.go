package httpjson

import (
	"compress/gzip"
	"net/http"

	"github.com/NYTimes/gziphandler"
)

// Gzip returns middleware compressing responses of at least minSize bytes
// for clients that send Accept-Encoding: gzip. minSize <= 0 uses
// gziphandler.DefaultMinSize.
func Gzip(minSize int) (func(http.Handler) http.Handler, error) {
	if minSize <= 0 {
		minSize = gziphandler.DefaultMinSize
	}
	return gziphandler.NewGzipLevelAndMinSize(gzip.DefaultCompression, minSize)
}
