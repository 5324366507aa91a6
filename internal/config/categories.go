package config

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Category is one selectable product category.
type Category struct {
	ID   int64  `mapstructure:"id" json:"id"`
	Slug string `mapstructure:"slug" json:"slug"`
	Name string `mapstructure:"name" json:"name"`
}

func DefaultCategories() []Category {
	return []Category{
		{ID: 1, Slug: "apparel", Name: "Apparel"},
		{ID: 2, Slug: "accessories", Name: "Accessories"},
	}
}

type CategoryHolder struct {
	current atomic.Value // holds []Category
}

// NewStaticCategoryHolder returns a holder that never reloads.
func NewStaticCategoryHolder(categories []Category) *CategoryHolder {
	h := &CategoryHolder{}
	h.current.Store(append([]Category(nil), categories...))
	return h
}

func NewCategoryHolderFromConfig(cfg Config) (*CategoryHolder, error) {
	return NewCategoryHolder(cfg.CategoriesConfigPath)
}

// NewCategoryHolder reads categories.yml from path (or the standard search
// paths when empty) and reloads it whenever the file changes.
func NewCategoryHolder(path string) (*CategoryHolder, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("categories")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/mystore")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MYSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		watch = false
		v.SetDefault("categories", DefaultCategories())
	}

	var categories []Category
	if err := v.UnmarshalKey("categories", &categories); err != nil {
		return nil, err
	}
	if err := validateCategories(categories); err != nil {
		return nil, err
	}

	holder := &CategoryHolder{}
	holder.current.Store(categories)

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated []Category
			if err := v.UnmarshalKey("categories", &updated); err != nil {
				log.Printf("[categories-config] reload failed: %v", err)
				return
			}
			if err := validateCategories(updated); err != nil {
				log.Printf("[categories-config] invalid config ignored: %v", err)
				return
			}
			holder.current.Store(updated)
			log.Printf("[categories-config] reloaded from %s", e.Name)
		})
		v.WatchConfig()
	}

	return holder, nil
}

func (h *CategoryHolder) Get() []Category {
	return h.current.Load().([]Category)
}

// Lookup returns the category with the given id.
func (h *CategoryHolder) Lookup(id int64) (Category, bool) {
	for _, c := range h.Get() {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ResolveCategory accepts either a slug or a numeric id.
func (h *CategoryHolder) ResolveCategory(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	for _, c := range h.Get() {
		if strings.EqualFold(c.Slug, value) || strconv.FormatInt(c.ID, 10) == value {
			return c.ID, true
		}
	}
	return 0, false
}

func validateCategories(categories []Category) error {
	if len(categories) == 0 {
		return errors.New("categories cannot be empty")
	}
	seen := make(map[int64]struct{}, len(categories))
	for _, c := range categories {
		if c.ID < 1 {
			return fmt.Errorf("category %q: id must be >= 1", c.Slug)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category %d: name is required", c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("category %d: duplicate id", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
