package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"prismadash/internal"
	"prismadash/internal/config"
)

// HTTPClient reads sheets published to the web as CSV (or as an HTML page
// when the publish format was switched). It makes one attempt per call.
type HTTPClient struct {
	httpClient *http.Client
}

func NewHTTPClient(cfg config.Config) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond},
	}
}

func (c *HTTPClient) FetchSheet(ctx context.Context, ref SheetRef) (internal.Dataset, error) {
	if strings.TrimSpace(ref.Location) == "" {
		return internal.Dataset{}, fmt.Errorf("sheet %s: missing url", ref.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.Location, nil)
	if err != nil {
		return internal.Dataset{}, err
	}
	req.Header.Set("Accept", "text/csv, text/html;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return internal.Dataset{}, fmt.Errorf("sheet %s: %w", ref.Name, err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return internal.Dataset{}, fmt.Errorf("sheet %s: %w", ref.Name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return internal.Dataset{}, fmt.Errorf("sheet %s: status=%d", ref.Name, resp.StatusCode)
	}

	var table internal.Table
	if isHTML(resp.Header.Get("Content-Type"), body) {
		table, err = parseHTMLTable(body)
	} else {
		table, err = parseCSV(body)
	}
	if err != nil {
		return internal.Dataset{}, fmt.Errorf("sheet %s: %w", ref.Name, err)
	}
	return DecodeTable(ref.Name, table), nil
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(body))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// parseCSV reads UTF-8 CSV and falls back to Latin-1 when the bytes are not
// valid UTF-8.
func parseCSV(body []byte) (internal.Table, error) {
	var reader io.Reader = bytes.NewReader(body)
	if !utf8.Valid(body) {
		reader = transform.NewReader(reader, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return internal.Table{}, err
	}
	if len(records) == 0 {
		return internal.Table{}, errors.New("empty sheet")
	}
	return internal.Table{Columns: records[0], Rows: records[1:]}, nil
}

// parseHTMLTable reads the first table of a published sheet page. Only td
// cells count; th cells carry row numbers and column letters. The first
// non-blank row is the header.
func parseHTMLTable(body []byte) (internal.Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return internal.Table{}, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return internal.Table{}, errors.New("no table in html sheet")
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []string{}
		blank := true
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			text := strings.TrimSpace(td.Text())
			if text != "" {
				blank = false
			}
			cells = append(cells, text)
		})
		if len(cells) == 0 || blank {
			return
		}
		rows = append(rows, cells)
	})

	if len(rows) == 0 {
		return internal.Table{}, errors.New("empty sheet")
	}
	return internal.Table{Columns: rows[0], Rows: rows[1:]}, nil
}
