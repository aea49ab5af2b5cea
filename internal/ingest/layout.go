// Package ingest syncs structured bucket contents into Postgres.
//
// Object keys are expected to encode their destination:
//
//	<prefix>/<database>/<schema>/<table>/<file>
//
// CSV files become rows of <database>.<schema>.<table>; image files
// become (file name, public URL) entries in a metadata table of the
// same name. Anything else is skipped.
package ingest

import (
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sarth-shah20/ferry/internal/bucket"
)

// TableRef addresses one destination table.
type TableRef struct {
	Database string
	Schema   string
	Table    string
}

// ImageObject is one image file destined for a metadata table.
type ImageObject struct {
	FileName string
	URL      string
}

// Layout groups a bucket listing by destination table.
type Layout struct {
	CSV    map[TableRef][]string      // object keys, per table
	Images map[TableRef][]ImageObject // per metadata table
}

var imageExts = map[string]bool{
	"jpeg": true, "jpg": true, "png": true, "gif": true,
	"bmp": true, "tiff": true, "webp": true, "svg": true, "heic": true,
}

// BuildLayout groups objects by the table their key addresses. Keys
// with too few path segments or unrecognized extensions are skipped
// with a notice.
func BuildLayout(objects []bucket.Object) *Layout {
	layout := &Layout{
		CSV:    make(map[TableRef][]string),
		Images: make(map[TableRef][]ImageObject),
	}

	for _, obj := range objects {
		parts := strings.Split(obj.Key, "/")
		if len(parts) < 5 {
			logrus.WithField("key", obj.Key).Warn("skipping object with unexpected path structure")
			continue
		}

		ref := TableRef{Database: parts[1], Schema: parts[2], Table: parts[3]}
		fileName := parts[4]

		switch {
		case strings.HasSuffix(obj.Key, ".csv"):
			layout.CSV[ref] = append(layout.CSV[ref], obj.Key)
		case imageExts[extension(obj.Key)]:
			layout.Images[ref] = append(layout.Images[ref], ImageObject{
				FileName: fileName,
				URL:      obj.PublicURL,
			})
		default:
			logrus.WithField("key", obj.Key).Warn("skipping object with unexpected path structure")
		}
	}

	return layout
}

func extension(key string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(key), "."))
}
