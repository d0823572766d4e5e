package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"climate-api/internal/config"
	"climate-api/internal/db/schema"
	climateviews "climate-api/internal/modules/climate/views"

	_ "github.com/mattn/go-sqlite3"
)

// seedAugust2017 stores three stations reporting every day from 2017-08-01
// to 2017-08-23. USC00519281 reports twice as often as the others.
func seedAugust2017(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(schema.DDL); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO station (id, station, name) VALUES
		(1, 'USC00519397', 'WAIKIKI'), (2, 'USC00513117', 'KANEOHE'), (3, 'USC00519281', 'WAIHEE')`); err != nil {
		t.Fatalf("seed stations: %v", err)
	}
	id := 0
	insert := func(station string, day int, prcp any, tobs float64) {
		id++
		date := fmt.Sprintf("2017-08-%02d", day)
		if _, err := db.Exec(`INSERT INTO measurement (id, station, date, prcp, tobs) VALUES (?, ?, ?, ?, ?)`,
			id, station, date, prcp, tobs); err != nil {
			t.Fatalf("seed measurement: %v", err)
		}
	}
	for day := 1; day <= 23; day++ {
		insert("USC00519397", day, 0.01*float64(day), 70+float64(day%5))
		insert("USC00519281", day, nil, 72+float64(day%3))
		if day%2 == 0 {
			insert("USC00513117", day, 0.5, 68)
		}
	}
	// extra rows make USC00519281 the most active station
	for day := 1; day <= 23; day++ {
		insert("USC00519281", day, 0.2, 75)
	}
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	seedAugust2017(t, db)
	if err := climateviews.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	return NewHandler(db, "sqlite3")
}

func getJSON(t *testing.T, h http.Handler, path string, out any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status=%d body=%s", path, rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("GET %s decode: %v", path, err)
	}
}

type stats struct {
	TMIN *float64
	TAVG *float64
	TMAX *float64
}

func TestHandler_Precipitation(t *testing.T) {
	h := newHandler(t)

	var got map[string]*float64
	getJSON(t, h, "/api/v1.0/precipitation", &got)

	// every August date is within one year of 2017-08-23
	if len(got) != 23 {
		t.Fatalf("got %d dates; want 23", len(got))
	}
	for date := range got {
		if date < "2016-08-23" {
			t.Errorf("date %s precedes the window start", date)
		}
	}
	// the last stored row for each date is the 0.2 top-up row
	if v := got["2017-08-05"]; v == nil || *v != 0.2 {
		t.Errorf("2017-08-05 = %v; want 0.2", v)
	}
}

func TestHandler_Stations(t *testing.T) {
	h := newHandler(t)

	var got []string
	getJSON(t, h, "/api/v1.0/stations", &got)
	if len(got) != 3 {
		t.Fatalf("got %d stations; want 3", len(got))
	}
}

func TestHandler_TemperatureObservations(t *testing.T) {
	h := newHandler(t)

	var got []struct {
		Date        string
		Temperature float64
	}
	getJSON(t, h, "/api/v1.0/tobs", &got)

	// USC00519281 has 46 rows, all inside the window
	if len(got) != 46 {
		t.Fatalf("got %d observations; want 46", len(got))
	}
	for _, o := range got {
		if o.Date < "2016-08-23" || o.Date > "2017-08-23" {
			t.Errorf("date %s outside window", o.Date)
		}
		if o.Temperature < 72 || o.Temperature > 75 {
			t.Errorf("temperature %v not from USC00519281", o.Temperature)
		}
	}
}

func TestHandler_TemperatureStats(t *testing.T) {
	h := newHandler(t)

	var from, rng []stats
	getJSON(t, h, "/api/v1.0/2017-08-01", &from)
	getJSON(t, h, "/api/v1.0/2017-08-01/2017-08-10", &rng)

	if len(from) != 1 || len(rng) != 1 {
		t.Fatalf("want single element arrays; got %d and %d", len(from), len(rng))
	}
	for name, s := range map[string]stats{"from": from[0], "range": rng[0]} {
		if s.TMIN == nil || s.TAVG == nil || s.TMAX == nil {
			t.Fatalf("%s: nil aggregate %+v", name, s)
		}
		if !(*s.TMIN <= *s.TAVG && *s.TAVG <= *s.TMAX) {
			t.Errorf("%s: TMIN<=TAVG<=TMAX violated: %v %v %v", name, *s.TMIN, *s.TAVG, *s.TMAX)
		}
	}
	if *rng[0].TMIN < *from[0].TMIN || *rng[0].TMAX > *from[0].TMAX {
		t.Errorf("range aggregates %+v exceed open ended aggregates %+v", rng[0], from[0])
	}

	var none []stats
	getJSON(t, h, "/api/v1.0/2018-01-01", &none)
	if len(none) != 1 || none[0].TMIN != nil || none[0].TAVG != nil || none[0].TMAX != nil {
		t.Errorf("no rows should give nulls; got %+v", none)
	}
}

func TestHandler_HomeAndHealth(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/api/v1.0/precipitation") {
		t.Fatalf("home status=%d body=%s", rec.Code, rec.Body.String())
	}

	var health map[string]string
	getJSON(t, h, "/healthz", &health)
	if health["status"] != "ok" {
		t.Fatalf("healthz=%v", health)
	}
}

func TestHandler_EmptyStore(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(schema.DDL); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	h := NewHandler(db, "sqlite3")

	for _, path := range []string{"/api/v1.0/precipitation", "/api/v1.0/tobs"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("GET %s status=%d; want 500", path, rec.Code)
		}
	}

	var stations []string
	getJSON(t, h, "/api/v1.0/stations", &stations)
	if stations == nil || len(stations) != 0 {
		t.Errorf("stations=%#v; want empty array", stations)
	}
}

func fixtureFile(t *testing.T, withSchema bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer func() { _ = db.Close() }()
	stmt := `CREATE TABLE unrelated (id INTEGER)`
	if withSchema {
		stmt = schema.DDL
	}
	if _, err := db.Exec(stmt); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	return path
}

func testConfig(path string) config.Config {
	return config.Config{
		AppEnv:       "dev",
		HTTPAddr:     "127.0.0.1:0",
		Driver:       "sqlite3",
		Path:         path,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
}

func TestRun_MissingStoreIsFatal(t *testing.T) {
	err := Run(context.Background(), testConfig(filepath.Join(t.TempDir(), "absent.sqlite")))
	if err == nil {
		t.Fatal("Run error = nil; want non-nil")
	}
}

func TestRun_SchemaMismatchIsFatal(t *testing.T) {
	err := Run(context.Background(), testConfig(fixtureFile(t, false)))
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("Run error = %v; want schema error", err)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, testConfig(fixtureFile(t, true))) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run error = %v; want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
