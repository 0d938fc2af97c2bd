package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikanbox/pan115-gateway/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestStartQRCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/115/qrcode/start", r.URL.Path)
		writeJSON(w, QRCodeSession{
			QRCodeContent: "https://115.com/scan/dg-abc",
			Sign:          "sig",
			Time:          1700000000,
			UID:           "session-uid",
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	session, err := c.StartQRCode(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "session-uid", session.UID)
	assert.Equal(t, "sig", session.Sign)
	assert.Equal(t, int64(1700000000), session.Time)
	assert.Equal(t, "https://115.com/scan/dg-abc", session.QRCodeContent)
}

func TestStartQRCode_RemoteUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	_, err := c.StartQRCode(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestCheckQRCodeStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/115/qrcode/status", r.URL.Path)

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "session-uid", body["uid"])
		assert.Equal(t, "sig", body["sign"])
		assert.EqualValues(t, 1700000000, body["time"])

		writeJSON(w, QRCodeStatus{Status: 1, Msg: "scanned", Version: "0.0.1"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	status, err := c.CheckQRCodeStatus(context.Background(), "session-uid", 1700000000, "sig")
	assert.NoError(t, err)
	assert.Equal(t, 1, status.Status)
	assert.Equal(t, "scanned", status.Msg)
}

func TestCompleteLogin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/115/qrcode/login", r.URL.Path)
		writeJSON(w, LoginResult{
			Success: true,
			Message: "ok",
			Credentials: model.CredentialTokens{
				UID: "u", CID: "c", SEID: "se", KID: "k",
			},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	result, err := c.CompleteLogin(context.Background(), "session-uid", "sig", 1700000000)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "u", result.Credentials.UID)
	assert.Equal(t, "k", result.Credentials.KID)
}

func TestAddTasks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/115/tasks/add", r.URL.Path)

		var req TaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "u", req.Credentials.UID)
		assert.Equal(t, []string{"magnet:?xt=a"}, req.URLs)
		assert.Equal(t, "dir-1", req.SaveDirID)

		writeJSON(w, TaskResult{Message: "1 task(s) submitted", Hashes: []string{"AAA"}, Count: 1})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	tokens := model.CredentialTokens{UID: "u", CID: "c", SEID: "se", KID: "k"}
	result, err := c.AddTasks(context.Background(), tokens, []string{"magnet:?xt=a"}, "dir-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []string{"AAA"}, result.Hashes)
}

func TestAddTasks_RemoteSubmitFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	_, err := c.AddTasks(context.Background(), model.CredentialTokens{}, []string{"magnet:?xt=a"}, "")

	// 状态码和响应体原样带回
	var submitErr *SubmitError
	if assert.ErrorAs(t, err, &submitErr) {
		assert.Equal(t, 500, submitErr.StatusCode)
		assert.Equal(t, "boom", submitErr.Body)
	}
}

// writeJSON 带上 JSON Content-Type，和真实服务行为一致
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
