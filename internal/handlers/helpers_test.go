package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/Skotchmaster/movie_catalog/internal/events"
	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/Skotchmaster/movie_catalog/internal/service"
	"github.com/Skotchmaster/movie_catalog/internal/upload"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testSecret = []byte("test_secret")

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
		return nil
	}

	if err := db.AutoMigrate(&models.User{}, &models.Movie{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

type testEnv struct {
	E  *echo.Echo
	DB *gorm.DB
	A  *AuthHandler
	M  *MovieHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)

	store, err := upload.NewStore(t.TempDir())
	require.NoError(t, err)

	prod := events.NewProducerWithWriter(&fakeWriter{})

	return &testEnv{
		E:  echo.New(),
		DB: db,
		A: &AuthHandler{
			DB:       db,
			Tokens:   &service.TokenService{DB: db, JWTSecret: testSecret},
			Producer: prod,
		},
		M: &MovieHandler{DB: db, Store: store, Producer: prod},
	}
}

func (env *testEnv) doJSONRequest(method, target string, payload any) (*httptest.ResponseRecorder, echo.Context) {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

type fileField struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

func (env *testEnv) doMultipartRequest(t *testing.T, method, target string, fields map[string]string, file *fileField) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if file != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition",
			`form-data; name="`+file.Field+`"; filename="`+file.Filename+`"`)
		hdr.Set("Content-Type", file.ContentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(file.Content)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

type fakeWriter struct {
	msgs [][]byte
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.msgs = append(f.msgs, m.Value)
	}
	return nil
}

func (f *fakeWriter) Close() error { return nil }
