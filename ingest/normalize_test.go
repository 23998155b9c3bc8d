package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/ingest"
	"github.com/fwojciec/lawdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longText = strings.Repeat("A retail food permit is required for every restaurant. ", 3)

func pdfParser(t *testing.T, result *lawdoc.PDFResult) *mock.PDFParser {
	t.Helper()
	return &mock.PDFParser{
		ParseFn: func(data []byte) (*lawdoc.PDFResult, error) {
			require.True(t, lawdoc.IsPDF(data))
			return result, nil
		},
	}
}

func failingPDFParser(t *testing.T) *mock.PDFParser {
	t.Helper()
	return &mock.PDFParser{
		ParseFn: func([]byte) (*lawdoc.PDFResult, error) {
			t.Fatal("parser must not be invoked")
			return nil, nil
		},
	}
}

func TestNormalizer_HTML(t *testing.T) {
	t.Parallel()

	t.Run("extracts and converts the main content", func(t *testing.T) {
		t.Parallel()

		n := &ingest.Normalizer{
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (*lawdoc.ExtractResult, error) {
					assert.Equal(t, "<html>page</html>", html)
					return &lawdoc.ExtractResult{
						Title:       "  Food Permits ",
						ContentHTML: "<p>content</p>",
						Metadata:    map[string]string{lawdoc.MetaAuthor: "Health Dept"},
					}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					assert.Equal(t, "<p>content</p>", html)
					return "\n\n" + longText + "\n", nil
				},
			},
		}

		doc, err := n.Normalize(context.Background(), &lawdoc.Response{
			URL:         "https://health.ohio.gov/food",
			ContentType: "text/html; charset=utf-8",
			Body:        []byte("<html>page</html>"),
		})

		require.NoError(t, err)
		assert.Equal(t, "https://health.ohio.gov/food", doc.URL)
		assert.Equal(t, "Food Permits", doc.Title)
		assert.Equal(t, strings.TrimSpace(longText), doc.Content)
		assert.Equal(t, lawdoc.ContentHTML, doc.Kind)
		assert.Equal(t, "Health Dept", doc.Metadata[lawdoc.MetaAuthor])
	})

	t.Run("skips short content", func(t *testing.T) {
		t.Parallel()

		n := &ingest.Normalizer{
			Extractor: &mock.Extractor{
				ExtractFn: func(string) (*lawdoc.ExtractResult, error) {
					return &lawdoc.ExtractResult{ContentHTML: "<p>Menu</p>"}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(string) (string, error) { return "   Menu   ", nil },
			},
		}

		_, err := n.Normalize(context.Background(), &lawdoc.Response{URL: "https://a.gov", ContentType: "text/html"})

		assert.Equal(t, lawdoc.ESKIPPED, lawdoc.ErrorCode(err))
	})

	t.Run("reports extraction failures as content errors", func(t *testing.T) {
		t.Parallel()

		n := &ingest.Normalizer{
			Extractor: &mock.Extractor{
				ExtractFn: func(string) (*lawdoc.ExtractResult, error) { return nil, errors.New("no body") },
			},
		}

		_, err := n.Normalize(context.Background(), &lawdoc.Response{URL: "https://a.gov", ContentType: "text/html"})

		assert.Equal(t, lawdoc.ECONTENT, lawdoc.ErrorCode(err))
	})
}

func TestNormalizer_unsupported(t *testing.T) {
	t.Parallel()

	n := &ingest.Normalizer{
		Extractor: &mock.Extractor{
			ExtractFn: func(string) (*lawdoc.ExtractResult, error) {
				t.Fatal("extractor must not be invoked")
				return nil, nil
			},
		},
		PDF: failingPDFParser(t),
	}

	_, err := n.Normalize(context.Background(), &lawdoc.Response{
		URL:         "https://a.gov/seal.png",
		ContentType: "image/png",
		Body:        []byte{0x89, 'P', 'N', 'G'},
	})

	assert.Equal(t, lawdoc.ESKIPPED, lawdoc.ErrorCode(err))
}

func TestNormalizer_PDF(t *testing.T) {
	t.Parallel()

	t.Run("extracts text and metadata", func(t *testing.T) {
		t.Parallel()

		n := &ingest.Normalizer{PDF: pdfParser(t, &lawdoc.PDFResult{
			Text:    longText,
			Pages:   3,
			Version: "1.7",
			Title:   "Permit Application",
			Info:    map[string]string{"Author": "Clerk"},
		})}

		doc, err := n.Normalize(context.Background(), &lawdoc.Response{
			URL:         "https://a.gov/forms/permit",
			ContentType: "application/pdf",
			Body:        []byte("%PDF-1.7\n..."),
		})

		require.NoError(t, err)
		assert.Equal(t, "Permit Application", doc.Title)
		assert.Equal(t, lawdoc.ContentPDF, doc.Kind)
		assert.Equal(t, "3", doc.Metadata[lawdoc.MetaPages])
		assert.Equal(t, "1.7", doc.Metadata[lawdoc.MetaPDFVersion])
		assert.Equal(t, "Clerk", doc.Metadata["Author"])
	})

	t.Run("defaults the title", func(t *testing.T) {
		t.Parallel()

		n := &ingest.Normalizer{PDF: pdfParser(t, &lawdoc.PDFResult{Text: longText, Pages: 1})}

		doc, err := n.Normalize(context.Background(), &lawdoc.Response{
			URL:         "https://a.gov/forms/permit.pdf",
			ContentType: "application/octet-stream",
			Body:        []byte("%PDF-1.4"),
		})

		require.NoError(t, err)
		assert.Equal(t, lawdoc.DefaultPDFTitle, doc.Title)
	})

	t.Run("rejects bodies without the PDF signature", func(t *testing.T) {
		t.Parallel()

		n := &ingest.Normalizer{PDF: failingPDFParser(t)}

		_, err := n.Normalize(context.Background(), &lawdoc.Response{
			URL:         "https://a.gov/forms/permit.pdf",
			ContentType: "application/octet-stream",
			Body:        []byte("PK\x03\x04 not a pdf"),
		})

		assert.Equal(t, lawdoc.ECONTENT, lawdoc.ErrorCode(err))
	})

	t.Run("follows the PDF link of an HTML wrapper", func(t *testing.T) {
		t.Parallel()

		n := &ingest.Normalizer{
			PDF: pdfParser(t, &lawdoc.PDFResult{Text: longText, Pages: 2}),
			PDFLinks: &mock.PDFLinkFinder{
				FindPDFLinkFn: func(html, baseURL string) (string, error) {
					assert.Equal(t, "https://a.gov/forms/permit.pdf", baseURL)
					return "https://a.gov/files/permit-2024.pdf", nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*lawdoc.Response, error) {
					assert.Equal(t, "https://a.gov/files/permit-2024.pdf", url)
					return &lawdoc.Response{URL: url, ContentType: "application/pdf", Body: []byte("%PDF-1.5")}, nil
				},
			},
		}

		doc, err := n.Normalize(context.Background(), &lawdoc.Response{
			URL:         "https://a.gov/forms/permit.pdf",
			ContentType: "text/html",
			Body:        []byte(`<!DOCTYPE html><html><body><a href="/files/permit-2024.pdf">Download</a></body></html>`),
		})

		require.NoError(t, err)
		assert.Equal(t, "https://a.gov/forms/permit.pdf", doc.URL)
		assert.Equal(t, "2", doc.Metadata[lawdoc.MetaPages])
	})

	t.Run("rejects an HTML wrapper without a PDF link", func(t *testing.T) {
		t.Parallel()

		n := &ingest.Normalizer{
			PDF: failingPDFParser(t),
			PDFLinks: &mock.PDFLinkFinder{
				FindPDFLinkFn: func(string, string) (string, error) {
					return "", lawdoc.Errorf(lawdoc.ENOTFOUND, "no pdf link")
				},
			},
			Fetcher: &mock.Fetcher{},
		}

		_, err := n.Normalize(context.Background(), &lawdoc.Response{
			URL:         "https://a.gov/forms/permit.pdf",
			ContentType: "text/html",
			Body:        []byte("<html><body>Moved</body></html>"),
		})

		assert.Equal(t, lawdoc.ECONTENT, lawdoc.ErrorCode(err))
	})

	t.Run("rejects PDFs without text", func(t *testing.T) {
		t.Parallel()

		n := &ingest.Normalizer{PDF: pdfParser(t, &lawdoc.PDFResult{Text: "  \n ", Pages: 4})}

		_, err := n.Normalize(context.Background(), &lawdoc.Response{
			URL:         "https://a.gov/scan.pdf",
			ContentType: "application/pdf",
			Body:        []byte("%PDF-1.3"),
		})

		assert.Equal(t, lawdoc.ECONTENT, lawdoc.ErrorCode(err))
	})
}

func TestNormalizer_calendar(t *testing.T) {
	t.Parallel()

	body := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nSUMMARY:Public hearing on food permit fees\nDTSTART:20260301T100000Z\nEND:VEVENT\nEND:VCALENDAR"
	n := &ingest.Normalizer{}

	doc, err := n.Normalize(context.Background(), &lawdoc.Response{
		URL:         "https://a.gov/events.ics",
		ContentType: "text/calendar; charset=utf-8",
		Body:        []byte(body),
	})

	require.NoError(t, err)
	assert.Equal(t, lawdoc.DefaultCalendarTitle, doc.Title)
	assert.Equal(t, body, doc.Content)
	assert.Equal(t, lawdoc.ContentCalendar, doc.Kind)
	assert.Equal(t, "calendar", doc.Metadata[lawdoc.MetaType])
}
