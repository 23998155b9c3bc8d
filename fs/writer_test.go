package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "simple path",
			url:  "https://sos.ohio.gov/business/forms",
			want: "sos.ohio.gov/business/forms.md",
		},
		{
			name: "trailing slash becomes index",
			url:  "https://sos.ohio.gov/business/",
			want: "sos.ohio.gov/business/index.md",
		},
		{
			name: "root path becomes index",
			url:  "https://sos.ohio.gov/",
			want: "sos.ohio.gov/index.md",
		},
		{
			name: "root without trailing slash",
			url:  "https://sos.ohio.gov",
			want: "sos.ohio.gov/index.md",
		},
		{
			name: "ignores query string and fragment",
			url:  "https://sos.ohio.gov/business/forms?year=2024#fees",
			want: "sos.ohio.gov/business/forms.md",
		},
		{
			name: "replaces PDF extension",
			url:  "https://sos.ohio.gov/forms/532A.PDF",
			want: "sos.ohio.gov/forms/532A.md",
		},
		{
			name: "replaces calendar extension",
			url:  "https://sos.ohio.gov/events/hearings.ics",
			want: "sos.ohio.gov/events/hearings.md",
		},
		{
			name: "replaces HTML extension",
			url:  "https://sos.ohio.gov/laws/index.html",
			want: "sos.ohio.gov/laws/index.md",
		},
		{
			name:    "rejects path traversal",
			url:     "https://sos.ohio.gov/../../../etc/passwd",
			wantErr: true,
		},
		{
			name:    "rejects relative URL",
			url:     "/business/forms",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			if tt.wantErr {
				assert.Equal(t, lawdoc.EINVALID, lawdoc.ErrorCode(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestFormatDocument(t *testing.T) {
	t.Parallel()

	doc := &lawdoc.Document{
		URL:     "https://sos.ohio.gov/forms/532A.pdf",
		Title:   "Articles of Organization",
		Content: "Every limited liability company must file articles.",
		Kind:    lawdoc.ContentPDF,
	}

	got := fs.FormatDocument(doc, "2026-03-01")

	assert.Equal(t, "---\n"+
		"source: https://sos.ohio.gov/forms/532A.pdf\n"+
		"title: Articles of Organization\n"+
		"kind: pdf\n"+
		"crawled: 2026-03-01\n"+
		"---\n\n"+
		"Every limited liability company must file articles.", got)
}
