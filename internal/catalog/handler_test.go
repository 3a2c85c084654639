package catalog

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cup-admin/internal/storage"
)

func buildForm(t *testing.T, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write([]byte("not a real png")); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestParsePlayerFormReadsAllFields(t *testing.T) {
	body, contentType := buildForm(t, map[string]string{
		"name":      "Abanoub",
		"position":  "GK",
		"rating":    "88",
		"price":     "120",
		"available": "true",
	}, "card.png")
	r := httptest.NewRequest("POST", "/admin/players", body)
	r.Header.Set("Content-Type", contentType)

	form, err := parsePlayerForm(r)
	if err != nil {
		t.Fatalf("parsePlayerForm failed: %v", err)
	}
	if form.Name != "Abanoub" || form.Position != "GK" || form.Rating != 88 || form.Price != 120 {
		t.Errorf("unexpected form: %+v", form)
	}
	if !form.Available {
		t.Error("expected available true")
	}
	if form.Image == nil || form.ImageHeader.Filename != "card.png" {
		t.Error("expected attached image file")
	}
}

func TestParseIconFormRequiresName(t *testing.T) {
	body, contentType := buildForm(t, map[string]string{"price": "10"}, "")
	r := httptest.NewRequest("POST", "/admin/icons", body)
	r.Header.Set("Content-Type", contentType)

	if _, err := parseIconForm(r); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestParseIconFormKeepsDeleteSentinel(t *testing.T) {
	body, contentType := buildForm(t, map[string]string{
		"name":  "Crown",
		"image": storage.DeleteSentinel,
	}, "")
	r := httptest.NewRequest("POST", "/admin/icons/3/update", body)
	r.Header.Set("Content-Type", contentType)

	form, err := parseIconForm(r)
	if err != nil {
		t.Fatalf("parseIconForm failed: %v", err)
	}
	if form.ImageAction != storage.DeleteSentinel {
		t.Errorf("expected delete sentinel, got %q", form.ImageAction)
	}
	if form.Image != nil {
		t.Error("sentinel must not be treated as an upload")
	}
}

func TestApplyImageDeleteSentinelClearsImage(t *testing.T) {
	dir := t.TempDir()
	images, err := storage.NewImageStore(dir, "http://localhost/uploads")
	if err != nil {
		t.Fatalf("NewImageStore failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "old.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed image: %v", err)
	}
	svc := NewService(nil, images, nil, nil)

	key, url := "old.png", "http://localhost/uploads/old.png"
	if err := svc.applyImage(&key, &url, nil, nil, storage.DeleteSentinel); err != nil {
		t.Fatalf("applyImage failed: %v", err)
	}
	if key != "" || url != "" {
		t.Errorf("expected cleared image, got key=%q url=%q", key, url)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.png")); !os.IsNotExist(err) {
		t.Error("expected stored file removed")
	}
}

func TestApplyImageKeepsStoredImageByDefault(t *testing.T) {
	images, err := storage.NewImageStore(t.TempDir(), "http://localhost/uploads")
	if err != nil {
		t.Fatalf("NewImageStore failed: %v", err)
	}
	svc := NewService(nil, images, nil, nil)

	key, url := "keep.png", "http://localhost/uploads/keep.png"
	if err := svc.applyImage(&key, &url, nil, nil, "keep.png"); err != nil {
		t.Fatalf("applyImage failed: %v", err)
	}
	if key != "keep.png" || !strings.HasSuffix(url, "keep.png") {
		t.Errorf("expected image kept, got key=%q url=%q", key, url)
	}
}
