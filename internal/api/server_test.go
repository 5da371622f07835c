package api

import (
	"bytes"
	"encoding/binary"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/caff2jpg/internal/convert"
	"github.com/samcharles93/caff2jpg/internal/logger"
	"github.com/samcharles93/caff2jpg/pkg/caff"
)

func ciffBytes(width, height int) []byte {
	out := []byte(caff.MagicCIFF)
	out = binary.LittleEndian.AppendUint64(out, caff.CIFFMinHeaderSize)
	out = binary.LittleEndian.AppendUint64(out, uint64(width*height*3))
	out = binary.LittleEndian.AppendUint64(out, uint64(width))
	out = binary.LittleEndian.AppendUint64(out, uint64(height))
	return append(out, make([]byte, width*height*3)...)
}

func caffBytes(frames ...[]byte) []byte {
	block := func(id caff.BlockID, payload []byte) []byte {
		out := []byte{byte(id)}
		out = binary.LittleEndian.AppendUint64(out, uint64(len(payload)))
		return append(out, payload...)
	}
	hdr := []byte(caff.MagicCAFF)
	hdr = binary.LittleEndian.AppendUint64(hdr, caff.HeaderSize)
	hdr = binary.LittleEndian.AppendUint64(hdr, uint64(len(frames)))
	out := block(caff.BlockHeader, hdr)
	for _, f := range frames {
		anim := binary.LittleEndian.AppendUint64(nil, 250)
		out = append(out, block(caff.BlockAnimation, append(anim, f...))...)
	}
	return out
}

func newTestEcho(cfg Config) *echo.Echo {
	server := NewServer(cfg, logger.Text(io.Discard, 0))
	e := echo.New()
	server.Register(e)
	return e
}

func doPost(t *testing.T, e *echo.Echo, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, "application/octet-stream")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body struct {
		Error ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body.Error
}

func TestConvertCIFF(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	rec := doPost(t, e, "/v1/convert/ciff", ciffBytes(5, 3))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "image/jpeg" {
		t.Fatalf("content type: got %q", got)
	}
	img, err := jpeg.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("bounds: got %v", b)
	}
}

func TestConvertCAFFUsesFirstFrame(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{Quality: 50})
	rec := doPost(t, e, "/v1/convert/caff?quality=90", caffBytes(ciffBytes(7, 2), ciffBytes(1, 1)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	img, err := jpeg.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 2 {
		t.Fatalf("bounds: got %v", b)
	}
}

func TestInspectCAFF(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	rec := doPost(t, e, "/v1/inspect/caff", caffBytes(ciffBytes(2, 2), ciffBytes(3, 1)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var summary convert.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.NumAnim != 2 || len(summary.Frames) != 2 {
		t.Fatalf("summary: got %+v", summary)
	}
	if summary.Frames[1].Width != 3 || summary.TotalDurationMS != 500 {
		t.Fatalf("summary: got %+v", summary)
	}
}

func TestInspectCAFFWithoutAnimations(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{Strict: true})
	rec := doPost(t, e, "/v1/inspect/caff", caffBytes())
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var summary convert.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Mode != convert.ModeCAFF || summary.NumAnim != 0 || len(summary.Frames) != 0 {
		t.Fatalf("summary: got %+v", summary)
	}

	rec = doPost(t, e, "/v1/convert/caff", caffBytes())
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("convert status: got %d want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	truncated := ciffBytes(2, 2)
	truncated = truncated[:len(truncated)-1]

	badMagic := ciffBytes(1, 1)
	copy(badMagic, "NOPE")

	tests := []struct {
		name    string
		path    string
		body    []byte
		limit   int64
		status  int
		errType string
	}{
		{name: "unknown kind", path: "/v1/convert/png", body: ciffBytes(1, 1), status: http.StatusNotFound, errType: "not_found_error"},
		{name: "truncated", path: "/v1/convert/ciff", body: truncated, status: http.StatusUnprocessableEntity, errType: "truncated_input"},
		{name: "bad magic", path: "/v1/inspect/ciff", body: badMagic, status: http.StatusUnprocessableEntity, errType: "format_error"},
		{name: "no frames", path: "/v1/convert/caff", body: caffBytes(), status: http.StatusUnprocessableEntity, errType: "unencodable_image"},
		{name: "zero pixels", path: "/v1/convert/ciff", body: ciffBytes(0, 0), status: http.StatusUnprocessableEntity, errType: "unencodable_image"},
		{name: "body too large", path: "/v1/convert/ciff", body: ciffBytes(4, 4), limit: 16, status: http.StatusRequestEntityTooLarge, errType: "body_too_large"},
		{name: "bad quality", path: "/v1/convert/ciff?quality=0", body: ciffBytes(1, 1), status: http.StatusBadRequest, errType: "invalid_request_error"},
		{name: "bad strict", path: "/v1/convert/ciff?strict=maybe", body: ciffBytes(1, 1), status: http.StatusBadRequest, errType: "invalid_request_error"},
		{name: "strict trailing", path: "/v1/convert/ciff?strict=true", body: append(ciffBytes(1, 1), 0), status: http.StatusUnprocessableEntity, errType: "format_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestEcho(Config{MaxBodyBytes: tt.limit})
			rec := doPost(t, e, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status: got %d want %d body=%s", rec.Code, tt.status, rec.Body.String())
			}
			body := decodeError(t, rec)
			if body.Type != tt.errType {
				t.Fatalf("type: got %q want %q", body.Type, tt.errType)
			}
			if body.RequestID == "" || body.RequestID != rec.Header().Get(HeaderRequestID) {
				t.Fatalf("request id: body %q header %q", body.RequestID, rec.Header().Get(HeaderRequestID))
			}
		})
	}
}

func TestRequestIDPropagation(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	generated := rec.Header().Get(HeaderRequestID)
	if generated == "" {
		t.Fatalf("expected generated request id")
	}

	const id = "5f0c1c8e-8a43-4f55-9d6e-0a4f1c2b3d4e"
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != id {
		t.Fatalf("request id: got %q want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "not a uuid")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got == "not a uuid" {
		t.Fatalf("expected invalid request id to be replaced")
	}
}

func TestReadBodyLimit(t *testing.T) {
	t.Parallel()

	data, err := readBody(bytes.NewReader([]byte("abcd")), 4)
	if err != nil || string(data) != "abcd" {
		t.Fatalf("readBody at limit: got %q, %v", data, err)
	}
	if _, err := readBody(bytes.NewReader([]byte("abcde")), 4); err == nil {
		t.Fatalf("expected over-limit error")
	}
}
