package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tuteke2023/tbgllink"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := NewServer(zerolog.Nop(), tbgllink.DefaultConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func workbookBytes(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartBody(t *testing.T, files map[string][]byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for field, data := range files {
		part, err := w.CreateFormFile(field, field+".xlsx")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for field, value := range fields {
		require.NoError(t, w.WriteField(field, value))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	router := newTestServer(t).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Link(t *testing.T) {
	t.Parallel()

	tbData := func(t *testing.T) []byte {
		return workbookBytes(t, "Trial Balance", [][]any{
			{"Account Code", "Account Name", "Debit", "Credit"},
			{"1000", "Cash at Bank", 50000, nil},
			{"1100", "Sundry Debtors", 12000, nil},
		})
	}
	glData := func(t *testing.T) []byte {
		return workbookBytes(t, "General Ledger", [][]any{
			{"Cash at Bank"},
			{"01/02/2026", "Invoice 42", nil, nil, 50000, nil},
			{"Net Movement", nil, nil, nil, 50000, 0},
		})
	}

	t.Run("links uploaded workbooks and offers a download", func(t *testing.T) {
		t.Parallel()

		router := newTestServer(t).Router()
		body, contentType := multipartBody(t, map[string][]byte{
			"tb": tbData(t),
			"gl": glData(t),
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/link", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp linkResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Matched)
		assert.Equal(t, 1, resp.Unmatched)
		require.Len(t, resp.Entries, 2)
		assert.Equal(t, "Cash at Bank", resp.Entries[0].TBAccount)
		assert.Equal(t, "50,000", resp.Entries[0].Display)
		assert.Equal(t, "N/A", resp.Entries[1].Display)
		assert.NotEmpty(t, resp.DownloadID)

		// The generated workbook must be downloadable.
		dlReq := httptest.NewRequest(http.MethodGet, "/api/v1/download/"+resp.DownloadID, nil)
		dlRec := httptest.NewRecorder()
		router.ServeHTTP(dlRec, dlReq)

		assert.Equal(t, http.StatusOK, dlRec.Code)
		data, err := io.ReadAll(dlRec.Body)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("missing tb file is a bad request", func(t *testing.T) {
		t.Parallel()

		router := newTestServer(t).Router()
		body, contentType := multipartBody(t, map[string][]byte{"gl": glData(t)}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/link", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid threshold is a bad request", func(t *testing.T) {
		t.Parallel()

		router := newTestServer(t).Router()
		body, contentType := multipartBody(t, map[string][]byte{
			"tb": tbData(t),
			"gl": glData(t),
		}, map[string]string{"threshold": "2.5"})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/link", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("header target mode changes the display", func(t *testing.T) {
		t.Parallel()

		router := newTestServer(t).Router()
		body, contentType := multipartBody(t, map[string][]byte{
			"tb": tbData(t),
			"gl": glData(t),
		}, map[string]string{"target": "header"})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/link", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp linkResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "View Details", resp.Entries[0].Display)
	})

	t.Run("undetectable TB structure is unprocessable", func(t *testing.T) {
		t.Parallel()

		router := newTestServer(t).Router()
		junk := workbookBytes(t, "Trial Balance", [][]any{{"nothing", "useful"}})
		body, contentType := multipartBody(t, map[string][]byte{
			"tb": junk,
			"gl": glData(t),
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/link", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestServer_Download_UnknownID(t *testing.T) {
	t.Parallel()

	router := newTestServer(t).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/download/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".xlsx", extensions("book.xlsx"))
	assert.Equal(t, ".csv.gz", extensions("data.csv.gz"))
	assert.Equal(t, ".xls", extensions("legacy.xls"))
	assert.Equal(t, "", extensions("noext"))
}
