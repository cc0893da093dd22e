package mocks

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inventory-console/internal/models"
)

// RecordedRequest is one call received by ItemBackend
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// ItemBackend is an in-memory items API served with gin
type ItemBackend struct {
	mu       sync.Mutex
	items    []models.Item
	nextID   int
	requests []RecordedRequest

	// UUIDIDs assigns string UUIDs instead of numeric ids
	UUIDIDs bool
	// FailStatus makes every request with the given method answer with the status
	FailStatus map[string]int

	server *httptest.Server
}

// NewItemBackend creates an empty backend
func NewItemBackend() *ItemBackend {
	return &ItemBackend{
		nextID:     1,
		FailStatus: make(map[string]int),
	}
}

// Start serves the backend on a local port and returns the collection URL
func (b *ItemBackend) Start() string {
	b.server = httptest.NewServer(b.Router())
	return b.server.URL + "/api/items"
}

// Close stops the server started by Start
func (b *ItemBackend) Close() {
	if b.server != nil {
		b.server.Close()
	}
}

// Router returns the gin engine implementing the items API
func (b *ItemBackend) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(b.record)

	items := r.Group("/api/items")
	{
		items.GET("", b.list)
		items.POST("", b.create)
		items.GET("/search", b.search)
		items.PUT("/:id", b.update)
		items.DELETE("/:id", b.remove)
	}
	return r
}

// Seed stores items directly, assigning ids where missing
func (b *ItemBackend) Seed(items ...models.Item) []models.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			it.ID = b.newID()
		}
		b.items = append(b.items, it)
		out = append(out, it)
	}
	return out
}

// Items returns a copy of the stored items
func (b *ItemBackend) Items() []models.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Item(nil), b.items...)
}

// Requests returns a copy of every recorded request
func (b *ItemBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// RequestCount returns how many requests were received
func (b *ItemBackend) RequestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// CountRequests counts requests matching method
func (b *ItemBackend) CountRequests(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Method == method {
			n++
		}
	}
	return n
}

// ResetRequests forgets recorded requests
func (b *ItemBackend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

func (b *ItemBackend) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(body)))

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Body:   body,
	})
	status, fail := b.FailStatus[c.Request.Method]
	b.mu.Unlock()

	if fail {
		c.AbortWithStatusJSON(status, gin.H{"error": "injected failure"})
		return
	}
	c.Next()
}

func (b *ItemBackend) list(c *gin.Context) {
	c.JSON(http.StatusOK, b.Items())
}

func (b *ItemBackend) search(c *gin.Context) {
	keyword := strings.ToLower(c.Query("keyword"))
	matches := make([]models.Item, 0)
	for _, it := range b.Items() {
		if strings.Contains(strings.ToLower(it.Name), keyword) ||
			strings.Contains(strings.ToLower(it.Category), keyword) ||
			strings.Contains(strings.ToLower(string(it.Status)), keyword) {
			matches = append(matches, it)
		}
	}
	c.JSON(http.StatusOK, matches)
}

func (b *ItemBackend) create(c *gin.Context) {
	var item models.Item
	if err := json.NewDecoder(c.Request.Body).Decode(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b.mu.Lock()
	item.ID = b.newID()
	b.items = append(b.items, item)
	b.mu.Unlock()

	c.JSON(http.StatusCreated, item)
}

func (b *ItemBackend) update(c *gin.Context) {
	var item models.Item
	if err := json.NewDecoder(c.Request.Body).Decode(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := models.ItemID(c.Param("id"))

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			item.ID = id
			b.items[i] = item
			c.JSON(http.StatusOK, item)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
}

func (b *ItemBackend) remove(c *gin.Context) {
	id := models.ItemID(c.Param("id"))

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
}

// newID must be called with mu held
func (b *ItemBackend) newID() models.ItemID {
	if b.UUIDIDs {
		return models.ItemID(uuid.New().String())
	}
	id := strconv.Itoa(b.nextID)
	b.nextID++
	return models.ItemID(id)
}
