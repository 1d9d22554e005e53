package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/Ivaan2/studio/internal/item"
	"github.com/Ivaan2/studio/internal/middleware"

	"github.com/gin-gonic/gin"
)

// fakeRepo is an in-memory item.Repository recording call counts.
type fakeRepo struct {
	items map[string]*item.FoodItem
	next  int

	createCalls int
	getCalls    int
	updateCalls int
	deleteCalls int

	failCreate bool
	failDelete bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*item.FoodItem{}}
}

func (r *fakeRepo) Create(ctx context.Context, it *item.FoodItem) (string, error) {
	r.createCalls++
	if r.failCreate {
		return "", errors.New("store down")
	}
	r.next++
	id := "item-" + strconv.Itoa(r.next)
	cp := *it
	cp.ID = id
	r.items[id] = &cp
	return id, nil
}

func (r *fakeRepo) Get(ctx context.Context, id string) (*item.FoodItem, error) {
	r.getCalls++
	it, ok := r.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeRepo) Update(ctx context.Context, it *item.FoodItem) error {
	r.updateCalls++
	if _, ok := r.items[it.ID]; !ok {
		return item.ErrNotFound
	}
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	r.deleteCalls++
	if r.failDelete {
		return errors.New("store down")
	}
	if _, ok := r.items[id]; !ok {
		return item.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeRepo) ListByFreezer(ctx context.Context, owner, freezerID string) ([]*item.FoodItem, error) {
	out := []*item.FoodItem{}
	for _, it := range r.items {
		if it.OwnerID == owner && it.FreezerID == freezerID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newRouter wires the handler behind a stub middleware that injects the
// given subject, the way the real auth middleware does.
func newRouter(subject string, repo item.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	grp := router.Group("/")
	grp.Use(func(c *gin.Context) {
		ctx := middleware.ContextWithSubject(c.Request.Context(), subject)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	NewHandler(repo).RegisterRoutes(grp)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestCreateStampsOwner(t *testing.T) {
	repo := newFakeRepo()
	router := newRouter("user-123", repo)

	rec, env := doJSON(t, router, http.MethodPost, "/items",
		`{"name":"Pollo congelado","freezerId":"freezer-1","itemType":"otro"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("success = false, body %s", rec.Body.String())
	}

	var got item.FoodItem
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if got.ID == "" {
		t.Error("id not assigned")
	}
	if got.OwnerID != "user-123" {
		t.Errorf("ownerId = %q, want user-123", got.OwnerID)
	}
	if got.Name != "Pollo congelado" || got.FreezerID != "freezer-1" || got.ItemType != "otro" {
		t.Errorf("unexpected fields: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.FrozenDate.IsZero() {
		t.Errorf("timestamps not assigned: %+v", got)
	}
}

func TestCreateIgnoresClientOwnerField(t *testing.T) {
	repo := newFakeRepo()
	router := newRouter("user-123", repo)

	_, env := doJSON(t, router, http.MethodPost, "/items",
		`{"name":"Helado","freezerId":"freezer-1","itemType":"otro","ownerId":"user-999","userId":"user-999"}`)

	var got item.FoodItem
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if got.OwnerID != "user-123" {
		t.Errorf("ownerId = %q, want user-123 regardless of body", got.OwnerID)
	}
	if stored := repo.items[got.ID]; stored.OwnerID != "user-123" {
		t.Errorf("stored ownerId = %q, want user-123", stored.OwnerID)
	}
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"empty name", `{"name":"","freezerId":"freezer-1","itemType":"otro"}`, "name"},
		{"whitespace name", `{"name":"   ","freezerId":"freezer-1","itemType":"otro"}`, "name"},
		{"missing freezer", `{"name":"Helado","itemType":"otro"}`, "freezerId"},
		{"unknown type", `{"name":"Helado","freezerId":"freezer-1","itemType":"sopa"}`, "itemType"},
		{"missing type", `{"name":"Helado","freezerId":"freezer-1"}`, "itemType"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			router := newRouter("user-123", repo)

			rec, env := doJSON(t, router, http.MethodPost, "/items", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil || env.Error.Code != "validation_error" {
				t.Fatalf("unexpected body: %s", rec.Body.String())
			}
			if env.Error.Message != "invalid field: "+tc.field {
				t.Errorf("message = %q, want to name %q", env.Error.Message, tc.field)
			}
			if repo.createCalls != 0 {
				t.Errorf("repository create called %d times, want 0", repo.createCalls)
			}
		})
	}
}

func TestCreateStorageFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failCreate = true
	router := newRouter("user-123", repo)

	rec, env := doJSON(t, router, http.MethodPost, "/items",
		`{"name":"Helado","freezerId":"freezer-1","itemType":"otro"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "storage_error" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if env.Error.Message == "store down" {
		t.Error("internal error text leaked to the client")
	}
}

func seedItem(repo *fakeRepo, id, owner string) {
	repo.items[id] = &item.FoodItem{
		ID:        id,
		OwnerID:   owner,
		Name:      "Helado",
		FreezerID: "freezer-1",
		ItemType:  "otro",
	}
}

func TestDeleteOwnedItem(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, "item-123", "user-123")
	router := newRouter("user-123", repo)

	rec, env := doJSON(t, router, http.MethodDelete, "/items/item-123", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if data.ID != "item-123" {
		t.Errorf("data.id = %q, want item-123", data.ID)
	}
	if repo.deleteCalls != 1 {
		t.Errorf("repository delete called %d times, want exactly 1", repo.deleteCalls)
	}
}

func TestDeleteForeignItemForbidden(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, "item-123", "user-123")
	router := newRouter("user-456", repo)

	rec, env := doJSON(t, router, http.MethodDelete, "/items/item-123", "")

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "forbidden" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if repo.deleteCalls != 0 {
		t.Errorf("repository delete called %d times, want 0", repo.deleteCalls)
	}
	if _, ok := repo.items["item-123"]; !ok {
		t.Error("item was deleted by a non-owner")
	}
	// generic forbidden only; nothing about the item may leak
	if bytes.Contains(rec.Body.Bytes(), []byte("Helado")) {
		t.Errorf("response leaked item data: %s", rec.Body.String())
	}
}

func TestDeleteMissingItem(t *testing.T) {
	repo := newFakeRepo()
	router := newRouter("user-123", repo)

	rec, env := doJSON(t, router, http.MethodDelete, "/items/nope", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "not_found" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if repo.deleteCalls != 0 {
		t.Errorf("repository delete called %d times, want 0", repo.deleteCalls)
	}
}

func TestDeleteTwice(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, "item-123", "user-123")
	router := newRouter("user-123", repo)

	rec, _ := doJSON(t, router, http.MethodDelete, "/items/item-123", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("first delete status = %d, want 200", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodDelete, "/items/item-123", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestDeleteStorageFailure(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, "item-123", "user-123")
	repo.failDelete = true
	router := newRouter("user-123", repo)

	rec, env := doJSON(t, router, http.MethodDelete, "/items/item-123", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "storage_error" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetForeignItemForbidden(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, "item-123", "user-123")
	router := newRouter("user-456", repo)

	rec, _ := doJSON(t, router, http.MethodGet, "/items/item-123", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestUpdateKeepsOwnerAndChecksBeforeMutation(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, "item-123", "user-123")

	// non-owner is rejected without any mutation
	router := newRouter("user-456", repo)
	rec, _ := doJSON(t, router, http.MethodPut, "/items/item-123",
		`{"name":"Cambiado","freezerId":"freezer-2","itemType":"carne"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if repo.updateCalls != 0 {
		t.Errorf("repository update called %d times, want 0", repo.updateCalls)
	}

	// owner may update, but id/owner never change
	router = newRouter("user-123", repo)
	rec, env := doJSON(t, router, http.MethodPut, "/items/item-123",
		`{"name":"Cambiado","freezerId":"freezer-2","itemType":"carne","ownerId":"user-999"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var got item.FoodItem
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if got.OwnerID != "user-123" {
		t.Errorf("ownerId = %q, want user-123 (immutable)", got.OwnerID)
	}
	if got.Name != "Cambiado" || got.FreezerID != "freezer-2" || got.ItemType != "carne" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestListIsOwnerScoped(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, "item-1", "user-123")
	seedItem(repo, "item-2", "user-456")
	router := newRouter("user-123", repo)

	rec, env := doJSON(t, router, http.MethodGet, "/items?freezerId=freezer-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var items []item.FoodItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if len(items) != 1 || items[0].ID != "item-1" {
		t.Errorf("list = %+v, want only the caller's item", items)
	}
}

func TestListRequiresFreezerID(t *testing.T) {
	repo := newFakeRepo()
	router := newRouter("user-123", repo)

	rec, env := doJSON(t, router, http.MethodGet, "/items", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "validation_error" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
