package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marvelguide/core/internal/domain/entities"
	"github.com/marvelguide/core/internal/infrastructure/logger"
	"github.com/marvelguide/core/internal/ports"
)

type structValidator struct {
	validate *validator.Validate
}

func (v *structValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type fakeMovieService struct {
	movies   []entities.Movie
	listErr  error
	setErr   error
	calls    int
	lastID   int
	lastFlag bool
}

func (f *fakeMovieService) ListMovies(ctx context.Context) ([]entities.Movie, error) {
	return f.movies, f.listErr
}

func (f *fakeMovieService) SetWatched(ctx context.Context, movieID int, req ports.UpdateWatchedRequest) (*ports.UpdateWatchedResponse, error) {
	f.calls++
	f.lastID = movieID
	f.lastFlag = *req.Watched
	if f.setErr != nil {
		return nil, f.setErr
	}
	return &ports.UpdateWatchedResponse{Success: true, MovieID: movieID, Watched: *req.Watched}, nil
}

func (f *fakeMovieService) CheckDataFile(ctx context.Context) error {
	return f.listErr
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &structValidator{validate: validator.New()}
	return e
}

func patchContext(e *echo.Echo, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/movies/:movie_id/watched")
	c.SetParamNames("movie_id")
	c.SetParamValues(id)
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func TestMovieHandler_Root(t *testing.T) {
	e := newEcho()
	h := NewMovieHandler(&fakeMovieService{}, logger.NewNop(), "Marvel Movie Guide API")

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := h.Root(c); err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"Marvel Movie Guide API"}` {
		t.Errorf("body = %s", got)
	}
}

func TestMovieHandler_ListMovies(t *testing.T) {
	e := newEcho()
	var movies []entities.Movie
	if err := json.Unmarshal([]byte(`[{"id": 1, "title": "Iron Man", "watched": false}]`), &movies); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	svc := &fakeMovieService{movies: movies}
	h := NewMovieHandler(svc, logger.NewNop(), "")

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/movies", nil), rec)

	if err := h.ListMovies(c); err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"movies":[{"id":1,"title":"Iron Man","watched":false}]}` {
		t.Errorf("body = %s", got)
	}
}

func TestMovieHandler_ListMoviesError(t *testing.T) {
	e := newEcho()
	h := NewMovieHandler(&fakeMovieService{listErr: errors.New("read failed")}, logger.NewNop(), "")

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/movies", nil), httptest.NewRecorder())

	err := h.ListMovies(c)
	if code := httpCode(t, err); code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", code)
	}
}

func TestMovieHandler_UpdateWatched(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		body      string
		setErr    error
		wantCode  int
		wantCalls int
	}{
		{name: "set true", id: "3", body: `{"watched": true}`, wantCode: http.StatusOK, wantCalls: 1},
		{name: "set false", id: "3", body: `{"watched": false}`, wantCode: http.StatusOK, wantCalls: 1},
		{name: "negative id", id: "-4", body: `{"watched": true}`, wantCode: http.StatusOK, wantCalls: 1},
		{name: "bad id", id: "three", body: `{"watched": true}`, wantCode: http.StatusBadRequest},
		{name: "string watched", id: "3", body: `{"watched": "yes"}`, wantCode: http.StatusBadRequest},
		{name: "missing watched", id: "3", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "strict not found", id: "999", body: `{"watched": true}`, setErr: fmt.Errorf("movie 999: %w", entities.ErrMovieNotFound), wantCode: http.StatusNotFound, wantCalls: 1},
		{name: "storage failure", id: "3", body: `{"watched": true}`, setErr: errors.New("disk full"), wantCode: http.StatusInternalServerError, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho()
			svc := &fakeMovieService{setErr: tt.setErr}
			h := NewMovieHandler(svc, logger.NewNop(), "")
			c, rec := patchContext(e, tt.id, tt.body)

			err := h.UpdateWatched(c)
			code := rec.Code
			if err != nil {
				code = httpCode(t, err)
			}

			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if svc.calls != tt.wantCalls {
				t.Errorf("service calls = %d, want %d", svc.calls, tt.wantCalls)
			}

			if tt.wantCode == http.StatusOK {
				var resp ports.UpdateWatchedResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid response: %v", err)
				}
				if !resp.Success || fmt.Sprint(resp.MovieID) != tt.id || resp.Watched != svc.lastFlag {
					t.Errorf("response = %+v", resp)
				}
			}
		})
	}
}

func TestMovieHandler_UpdateWatchedWithoutContentType(t *testing.T) {
	e := newEcho()
	svc := &fakeMovieService{}
	h := NewMovieHandler(svc, logger.NewNop(), "")

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"watched": true}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("movie_id")
	c.SetParamValues("2")

	if err := h.UpdateWatched(c); err != nil {
		t.Fatalf("UpdateWatched() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
	if svc.calls != 1 || svc.lastID != 2 || !svc.lastFlag {
		t.Errorf("service called %d times with id %d watched %v", svc.calls, svc.lastID, svc.lastFlag)
	}
}

func TestMovieHandler_ErrorLogCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := newEcho()
	h := NewMovieHandler(&fakeMovieService{setErr: errors.New("disk full")}, logger.FromZap(zap.New(core)), "")

	c, _ := patchContext(e, "3", `{"watched": true}`)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-42")

	if err := h.UpdateWatched(c); err == nil {
		t.Fatal("expected error")
	}

	entries := logs.FilterMessage("Update watched failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", fields["request_id"])
	}
	if fields["error"] != "disk full" {
		t.Errorf("error = %v, want disk full", fields["error"])
	}
	if fields["component"] != "movie_handler" {
		t.Errorf("component = %v, want movie_handler", fields["component"])
	}
}
