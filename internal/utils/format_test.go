package utils_test

import (
	"testing"
	"time"

	"github.com/ememohq/ememo_backend/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestFormatDisplayDate(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "07 Mar 2025", utils.FormatDisplayDate(ts))
}

func TestFormatByteSize(t *testing.T) {
	assert.Equal(t, "0 B", utils.FormatByteSize(0))
	assert.Equal(t, "0 B", utils.FormatByteSize(-1))
	assert.Equal(t, "512 B", utils.FormatByteSize(512))
	assert.Equal(t, "1.0 MB", utils.FormatByteSize(1_000_000))
}

func TestClassifyFileName(t *testing.T) {
	cases := map[string]string{
		"budget.xlsx":        "spreadsheet",
		"memo.PDF":           "document",
		"scan.jpeg":          "image",
		"slides.pptx":        "presentation",
		"export.tar":         "archive",
		"notes":              "other",
		"weird.bin":          "other",
		"nested/report.docx": "document",
	}
	for name, want := range cases {
		assert.Equal(t, want, utils.ClassifyFileName(name), name)
	}
}
