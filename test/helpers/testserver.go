package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"testing"

	"onversed_backend/database"
	"onversed_backend/internal/app"
	"onversed_backend/internal/cache"
	"onversed_backend/internal/config"

	"gorm.io/gorm"
)

// TestServer - приложение поверх тестовой БД с записывающими провайдерами
type TestServer struct {
	Server  *httptest.Server
	DB      *gorm.DB
	App     *app.App
	Storage *RecordingStorage
	Mailer  *app.RecordingEmailProvider
	SMS     *app.RecordingSMSProvider
}

// NewTestServer поднимает сервер на TEST_DATABASE_URL.
// Без переменной тест пропускается.
func NewTestServer(t *testing.T) *TestServer {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	os.Setenv("DATABASE_URL", dsn)
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "integration_tests_secret_key_123")
	}

	cfg, err := config.Load("testdata/missing.yaml")
	if err != nil {
		t.Fatalf("Не удалось загрузить конфиг: %v", err)
	}
	cfg.Server.Env = "test"
	cfg.Auth.RateLimit = 0
	cfg.Redis.Addr = ""
	cfg.Email.TemplatesDir = ""

	db, err := database.ConnectGorm(cfg)
	if err != nil {
		t.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить миграции: %v", err)
	}
	if err := database.SeedLookups(db); err != nil {
		t.Fatalf("Не удалось заполнить справочники: %v", err)
	}

	ts := &TestServer{
		DB:      db,
		Storage: NewRecordingStorage(),
		Mailer:  &app.RecordingEmailProvider{},
		SMS:     &app.RecordingSMSProvider{},
	}
	ts.App, err = app.New(context.Background(), cfg, db, app.Providers{
		Mailer:  ts.Mailer,
		SMS:     ts.SMS,
		Storage: ts.Storage,
		Cache:   cache.NewMemoryCache(),
	})
	if err != nil {
		t.Fatalf("Не удалось собрать приложение: %v", err)
	}
	ts.Server = httptest.NewServer(ts.App.Router)

	log.Println("Тестовый сервер запущен")
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// ClearTables очищает таблицы аккаунтов и каталога. Справочники остаются.
func (ts *TestServer) ClearTables(t *testing.T) {
	err := ts.DB.Exec(`TRUNCATE TABLE
		outbox_messages, activities, blobs, items, collection_designers, collections,
		code_verifications, tokens, profile_roles, profiles, role_permissions, roles,
		permissions, users, companies
		RESTART IDENTITY CASCADE`).Error
	if err != nil {
		t.Fatalf("Не удалось очистить таблицы: %v", err)
	}
	ts.Storage.Reset()
}

// SendRequest отправляет JSON-запрос и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req, token)
}

// SendMultipart отправляет data (JSON) и файлы: ключ files - имя части
func (ts *TestServer) SendMultipart(t *testing.T, method, path, token string, data interface{}, files map[string]string) (*http.Response, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	jsonData, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
	}
	if err := w.WriteField("data", string(jsonData)); err != nil {
		t.Fatalf("Ошибка записи поля data: %v", err)
	}

	parts := make([]string, 0, len(files))
	for part := range files {
		parts = append(parts, part)
	}
	sort.Strings(parts)
	for _, part := range parts {
		fw, err := w.CreateFormFile(part, part+".pdf")
		if err != nil {
			t.Fatalf("Ошибка создания части %s: %v", part, err)
		}
		if _, err := fw.Write([]byte(files[part])); err != nil {
			t.Fatalf("Ошибка записи части %s: %v", part, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Ошибка формирования multipart: %v", err)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return ts.do(t, req, token)
}

func (ts *TestServer) do(t *testing.T, req *http.Request, token string) (*http.Response, string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	return res, string(resBody)
}

// RecordingStorage - хранилище в памяти, запоминает загрузки и удаления
type RecordingStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	saved   []string
	deleted []string
}

func NewRecordingStorage() *RecordingStorage {
	return &RecordingStorage{objects: make(map[string][]byte)}
}

func (s *RecordingStorage) Save(_ context.Context, path string, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *RecordingStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *RecordingStorage) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok, nil
}

func (s *RecordingStorage) Saved() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.saved...)
}

func (s *RecordingStorage) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func (s *RecordingStorage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make(map[string][]byte)
	s.saved = nil
	s.deleted = nil
}
