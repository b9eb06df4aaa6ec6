package export

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"divicards/internal/sample"
	"divicards/pkg/logger"
)

func testSample() sample.Sample {
	return sample.Sample{
		ID:        "s1",
		League:    "Settlers",
		CreatedAt: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
		Cards: []sample.Card{
			{Name: "The Doctor", Amount: 1, Price: 900, Total: 900},
			{Name: "Rain of Chaos, Again", Amount: 15, Price: 0.25, Total: 3.8},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testSample()))

	want := strings.Join([]string{
		"name,amount,price,total",
		"The Doctor,1,900,900",
		`"Rain of Chaos, Again",15,0.25,3.8`,
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestSheetValues(t *testing.T) {
	values := SheetValues(testSample())
	require.Len(t, values, 3)
	assert.Equal(t, []interface{}{"name", "amount", "price", "total"}, values[0])
	assert.Equal(t, []interface{}{"The Doctor", 1, 900.0, 900.0}, values[1])
}

func TestSheetsExporter_Export(t *testing.T) {
	var gotTitle string
	var gotValues [][]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v4/spreadsheets":
			var body struct {
				Properties struct {
					Title string `json:"title"`
				} `json:"properties"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotTitle = body.Properties.Title
			w.Write([]byte(`{"spreadsheetId":"abc","spreadsheetUrl":"https://docs.google.com/spreadsheets/d/abc"}`))
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/abc/values/"):
			assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
			var body struct {
				Values [][]interface{} `json:"values"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotValues = body.Values
			w.Write([]byte(`{"spreadsheetId":"abc","updatedRows":3}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	exp, err := NewSheetsExporter(context.Background(), logger.Nop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	out, err := exp.Export(context.Background(), testSample(), "")
	require.NoError(t, err)

	assert.Equal(t, "abc", out.SpreadsheetID)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc", out.URL)
	assert.Equal(t, "divicards Settlers 2024-07-01 12:00", gotTitle)
	require.Len(t, gotValues, 3)
	assert.Equal(t, "The Doctor", gotValues[1][0])
}
