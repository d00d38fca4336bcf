package source

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"prismadash/internal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func stubClient(status int, contentType, body string, calls *int) *HTTPClient {
	return &HTTPClient{httpClient: &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if calls != nil {
				*calls++
			}
			header := make(http.Header)
			header.Set("Content-Type", contentType)
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     header,
			}, nil
		}),
	}}
}

func TestFetchSheetCSV(t *testing.T) {
	body := "\ufeffTITULO,TECNOLOGIA,ANO,LATITUDE_DECIMAL\n" +
		"Estudo A,\"Biogás, pirólise\",2019.0,\"-23,55\"\n" +
		"Estudo B,Compostagem\n"
	client := stubClient(http.StatusOK, "text/csv", body, nil)

	ds, err := client.FetchSheet(context.Background(), SheetRef{Name: internal.TableAggregate, Location: "https://example.test/data.csv"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Columns) != 4 || ds.Columns[0] != internal.ColumnTitle {
		t.Fatalf("columns=%v", ds.Columns)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("records=%d", len(ds.Records))
	}
	first := ds.Records[0]
	if first.Technology != "Biogás, pirólise" {
		t.Fatalf("technology=%q", first.Technology)
	}
	if first.Year == nil || *first.Year != 2019 {
		t.Fatalf("year=%v", first.Year)
	}
	if first.Latitude == nil || *first.Latitude != -23.55 {
		t.Fatalf("latitude=%v", first.Latitude)
	}
	second := ds.Records[1]
	if second.Index != 1 || second.Year != nil || second.Attr(internal.ColumnYear) != "" {
		t.Fatalf("padded row not decoded: %+v", second)
	}
}

func TestFetchSheetLatin1Fallback(t *testing.T) {
	body := "TITULO,PAIS\nPir\xf3lise,Brasil\n"
	client := stubClient(http.StatusOK, "text/csv", body, nil)

	ds, err := client.FetchSheet(context.Background(), SheetRef{Name: internal.TableAggregate, Location: "https://example.test/data.csv"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ds.Records[0].Title; got != "Pirólise" {
		t.Fatalf("title=%q", got)
	}
}

func TestFetchSheetHTMLTable(t *testing.T) {
	body := `<html><body><table>
<thead><tr><th></th><th>A</th><th>B</th></tr></thead>
<tbody>
<tr><th>1</th><td>TITULO</td><td>ANO</td></tr>
<tr><th>2</th><td>Estudo</td><td>2019</td></tr>
<tr><th>3</th><td></td><td> </td></tr>
</tbody></table></body></html>`
	client := stubClient(http.StatusOK, "text/html; charset=utf-8", body, nil)

	ds, err := client.FetchSheet(context.Background(), SheetRef{Name: internal.TableWaste, Location: "https://example.test/pubhtml"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Columns) != 2 || ds.Columns[1] != internal.ColumnYear {
		t.Fatalf("columns=%v", ds.Columns)
	}
	if len(ds.Records) != 1 || ds.Records[0].Title != "Estudo" {
		t.Fatalf("records=%+v", ds.Records)
	}
}

func TestFetchSheetErrorStatusIsNotRetried(t *testing.T) {
	calls := 0
	client := stubClient(http.StatusInternalServerError, "text/plain", "boom", &calls)

	_, err := client.FetchSheet(context.Background(), SheetRef{Name: internal.TableAggregate, Location: "https://example.test/data.csv"})
	if err == nil || !strings.Contains(err.Error(), "status=500") {
		t.Fatalf("err=%v", err)
	}
	if calls != 1 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestFetchSheetEmptyBody(t *testing.T) {
	client := stubClient(http.StatusOK, "text/csv", "", nil)
	if _, err := client.FetchSheet(context.Background(), SheetRef{Name: internal.TableAggregate, Location: "https://example.test/x"}); err == nil {
		t.Fatal("expected error for empty sheet")
	}
}

func TestFetchSheetMissingURL(t *testing.T) {
	client := stubClient(http.StatusOK, "text/csv", "A\n1\n", nil)
	if _, err := client.FetchSheet(context.Background(), SheetRef{Name: internal.TableAggregate}); err == nil {
		t.Fatal("expected error for missing url")
	}
}
