// Black-box tests against a running tempdrop instance. Start the server
// (and its MongoDB) first; the suite skips itself when nothing is
// listening on the API address.
package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
)

var apiBase = func() string {
	if v := os.Getenv("API_BASE"); v != "" {
		return v
	}
	return "http://localhost:3000"
}()

type uploadResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	ExpiresAt     string `json:"expires_at"`
	RetentionDays int    `json:"retention_days"`
}

type infoResponse struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mime_type"`
	HasPassword bool   `json:"has_password"`
}

func uploadFile(t *testing.T, data []byte, filename, password string) uploadResponse {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	if password != "" {
		w.WriteField("password", password)
	}
	w.Close()

	resp, err := http.Post(apiBase+"/", w.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload failed. Status: %d, Response: %s", resp.StatusCode, string(b))
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	return result
}

func deleteFile(t *testing.T, id, password string) *http.Response {
	t.Helper()

	var body io.Reader
	if password != "" {
		payload, _ := json.Marshal(map[string]string{"password": password})
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(http.MethodDelete, apiBase+"/"+id, body)
	if err != nil {
		t.Fatalf("failed to build delete request: %v", err)
	}
	if password != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete request failed: %v", err)
	}
	return resp
}

// TestAPIEndpoints exercises the upload, download, info and delete flow
// end to end.
func TestAPIEndpoints(t *testing.T) {
	resp, err := http.Get(apiBase + "/")
	if err != nil {
		t.Skipf("no server running at %s: %v", apiBase, err)
	}
	resp.Body.Close()

	content := []byte("black-box test payload")

	var uploaded uploadResponse
	t.Run("Upload", func(t *testing.T) {
		uploaded = uploadFile(t, content, "api-test.txt", "")
		if len(uploaded.ID) != 8 {
			t.Fatalf("unexpected id %q", uploaded.ID)
		}
		if uploaded.RetentionDays < 30 || uploaded.RetentionDays > 365 {
			t.Fatalf("retention days %d outside [30, 365]", uploaded.RetentionDays)
		}
	})

	t.Run("Download", func(t *testing.T) {
		resp, err := http.Get(apiBase + "/" + uploaded.ID)
		if err != nil {
			t.Fatalf("download request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("download failed. Status: %d", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if !bytes.Equal(body, content) {
			t.Fatalf("downloaded bytes differ from uploaded bytes")
		}
	})

	t.Run("Info", func(t *testing.T) {
		resp, err := http.Get(apiBase + "/" + uploaded.ID + "/info")
		if err != nil {
			t.Fatalf("info request failed: %v", err)
		}
		defer resp.Body.Close()

		var info infoResponse
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			t.Fatalf("failed to decode info response: %v", err)
		}
		if info.Filename != "api-test.txt" {
			t.Errorf("filename = %q, want %q", info.Filename, "api-test.txt")
		}
		if info.Size != int64(len(content)) {
			t.Errorf("size = %d, want %d", info.Size, len(content))
		}
		if info.HasPassword {
			t.Errorf("has_password = true for an unprotected file")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		resp := deleteFile(t, uploaded.ID, "")
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete failed. Status: %d", resp.StatusCode)
		}

		after, err := http.Get(apiBase + "/" + uploaded.ID)
		if err != nil {
			t.Fatalf("post-delete download request failed: %v", err)
		}
		after.Body.Close()
		if after.StatusCode != http.StatusNotFound {
			t.Fatalf("download after delete returned %d, want 404", after.StatusCode)
		}
	})
}

// TestPasswordProtectedDelete verifies the unauthorized, forbidden and
// success outcomes of a password-gated delete.
func TestPasswordProtectedDelete(t *testing.T) {
	resp, err := http.Get(apiBase + "/")
	if err != nil {
		t.Skipf("no server running at %s: %v", apiBase, err)
	}
	resp.Body.Close()

	uploaded := uploadFile(t, []byte("guarded payload"), "guarded.txt", "correct horse")

	noPass := deleteFile(t, uploaded.ID, "")
	noPass.Body.Close()
	if noPass.StatusCode != http.StatusUnauthorized {
		t.Fatalf("delete without password returned %d, want 401", noPass.StatusCode)
	}

	wrongPass := deleteFile(t, uploaded.ID, "battery staple")
	wrongPass.Body.Close()
	if wrongPass.StatusCode != http.StatusForbidden {
		t.Fatalf("delete with wrong password returned %d, want 403", wrongPass.StatusCode)
	}

	rightPass := deleteFile(t, uploaded.ID, "correct horse")
	rightPass.Body.Close()
	if rightPass.StatusCode != http.StatusOK {
		t.Fatalf("delete with correct password returned %d, want 200", rightPass.StatusCode)
	}
}
