package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prosenjithdash/rentwheels-bd-server/models"
	"github.com/prosenjithdash/rentwheels-bd-server/services"
	"github.com/prosenjithdash/rentwheels-bd-server/storage"
	"github.com/prosenjithdash/rentwheels-bd-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// a second connection would see a different :memory: database
	sqlDB.SetMaxOpenConns(1)
	storage.PerformMigrations(db)
	return db
}

type fakePayments struct {
	lastAmount   int64
	lastCurrency string
	calls        int
	fail         bool
}

func (f *fakePayments) CreateIntent(amountMinor int64, currency string) (string, string, error) {
	if f.fail {
		return "", "", errors.New("provider down")
	}
	f.calls++
	f.lastAmount = amountMinor
	f.lastCurrency = currency
	return "pi_test_1", "pi_test_1_secret", nil
}

type fakeMailer struct {
	sentTo []string
	sentTx []string
	fail   bool
}

func (f *fakeMailer) BookingConfirmed(to, tx string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sentTo = append(f.sentTo, to)
	f.sentTx = append(f.sentTx, tx)
	return nil
}

// buildTestApp mirrors the route table in main.go without CORS or the
// production collaborators.
func buildTestApp(t *testing.T, db *gorm.DB, payments services.PaymentProvider, mailer services.Notifier) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	app := iris.New()
	app.Validator = validator.New()

	gate := utils.NewGate(db, nil)
	auth := gate.Verify()
	live := gate.SessionAlive()

	authHandler := NewAuthHandler(nil)
	users := NewUserHandler(db)
	vehicles := NewVehicleHandler(db)
	bookings := NewBookingHandler(db, payments, mailer)
	stats := NewStatsHandler(db)

	app.Post("/jwt", authHandler.CreateSession)
	app.Get("/logout", authHandler.DestroySession)

	app.Put("/user", auth, live, users.UpsertUser)
	app.Get("/users", auth, live, gate.RequireRole("admin"), users.GetUsers)
	app.Get("/user/{email}", users.GetUserByEmail)
	app.Patch("/users/update/{email}", auth, live, gate.RequireRole("admin"), users.PromoteUser)
	app.Delete("/users/{email}", auth, live, gate.RequireRole("admin"), users.DeleteUser)

	app.Post("/create-payment-intent", auth, live, bookings.CreatePaymentIntent)

	app.Get("/vehicles", vehicles.GetVehicles)
	app.Get("/vehicle/{id}", vehicles.GetVehicle)
	app.Post("/vehicle", auth, live, gate.RequireRole("host"), vehicles.CreateVehicle)
	app.Put("/vehicle/update/{id}", auth, live, gate.RequireRole("host"), vehicles.UpdateVehicle)
	app.Patch("/vehicle/status/{id}", auth, live, vehicles.SetVehicleStatus)
	app.Delete("/vehicle/{id}", auth, live, vehicles.DeleteVehicle)
	app.Get("/my_listings/{email}", auth, live, gate.RequireSelf("email"), vehicles.GetVehiclesByHost)

	app.Post("/booking", auth, live, gate.RequireRole("render"), bookings.CreateBooking)
	app.Delete("/booking/{id}", auth, live, bookings.DeleteBooking)
	app.Get("/my_bookings/{email}", auth, live, gate.RequireSelf("email"), bookings.GetBookingsByRender)
	app.Get("/manage_bookings/{email}", auth, live, gate.RequireRole("host"), gate.RequireSelf("email"), bookings.GetBookingsByHost)

	app.Get("/admin_stat", auth, live, gate.RequireRole("admin"), stats.AdminStats)
	app.Get("/host_stat", auth, live, gate.RequireRole("host"), stats.HostStats)
	app.Get("/render_stat", auth, live, stats.RenderStats)

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func signTestToken(t *testing.T, email string) string {
	t.Helper()
	token, err := utils.CreateSessionToken(email)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, Role: role, Status: models.StatusNone}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func doJSON(app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func newCookieRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
	return req
}

func serve(app *iris.Application, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", resp.Body.String(), err)
	}
	return out
}
