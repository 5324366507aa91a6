package cart

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

// CookieName carries the cart count between storefront requests.
const CookieName = "mystore_cart_count"

// Counter is the cart item count of one shopper. IncrementCount is its only
// mutator.
type Counter struct {
	mu    sync.Mutex
	count int
}

func NewCounter(initial int) *Counter {
	if initial < 0 {
		initial = 0
	}
	return &Counter{count: initial}
}

func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// IncrementCount adds one item and returns the new count.
func (c *Counter) IncrementCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return c.count
}

type ctxKey struct{}

func WithCounter(ctx context.Context, c *Counter) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func FromContext(ctx context.Context) (*Counter, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Counter)
	return c, ok && c != nil
}

// Middleware scopes a Counter to the request, seeded from the cart cookie.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		initial := 0
		if raw, err := c.Cookie(CookieName); err == nil {
			if n, err := strconv.Atoi(raw); err == nil {
				initial = n
			}
		}
		c.Request = c.Request.WithContext(WithCounter(c.Request.Context(), NewCounter(initial)))
		c.Next()
	}
}

// Persist writes the counter back to the cart cookie. It must run before
// the response body is written.
func Persist(c *gin.Context, counter *Counter) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, strconv.Itoa(counter.Count()), 30*24*3600, "/", "", false, true)
}
