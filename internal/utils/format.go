package utils

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// displayDateFormat is the short form memo screens render, e.g. "02 Jan 2006".
const displayDateFormat = "02 Jan 2006"

// FormatDisplayDate renders the short display date shown next to a memo.
// The authoritative timestamps stay on the entity; this is presentation only.
func FormatDisplayDate(t time.Time) string {
	return t.Format(displayDateFormat)
}

// FormatByteSize renders a byte count as a human string, e.g. "1.2 MB".
func FormatByteSize(size int64) string {
	if size < 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(size))
}

// fileCategories maps a filename extension to a display category.
var fileCategories = map[string]string{
	".pdf":  "document",
	".doc":  "document",
	".docx": "document",
	".txt":  "document",
	".odt":  "document",
	".xls":  "spreadsheet",
	".xlsx": "spreadsheet",
	".csv":  "spreadsheet",
	".ppt":  "presentation",
	".pptx": "presentation",
	".png":  "image",
	".jpg":  "image",
	".jpeg": "image",
	".gif":  "image",
	".svg":  "image",
	".zip":  "archive",
	".rar":  "archive",
	".7z":   "archive",
	".tar":  "archive",
	".gz":   "archive",
}

// ClassifyFileName maps a filename to a coarse display category. Unknown
// extensions classify as "other".
func ClassifyFileName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if category, ok := fileCategories[ext]; ok {
		return category
	}
	return "other"
}
