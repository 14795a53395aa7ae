package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Category classifies a task. The set is closed; unknown stored values
// decode to CategoryNormal.
type Category string

const (
	CategoryNormal   Category = "NORMAL"
	CategoryWork     Category = "WORK"
	CategoryPersonal Category = "PERSONAL"
	CategoryShopping Category = "SHOPPING"
	CategoryUrgent   Category = "URGENT"
	CategoryOther    Category = "OTHER"
)

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryNormal,
		CategoryWork,
		CategoryPersonal,
		CategoryShopping,
		CategoryUrgent,
		CategoryOther,
	}
}

// ParseCategory maps a serialized value to a Category, case-insensitively.
// Unknown values fall back to CategoryNormal.
func ParseCategory(value string) Category {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), value) {
			return c
		}
	}
	return CategoryNormal
}

// Scan implements sql.Scanner so rows written by older schema revisions
// still load.
func (c *Category) Scan(value any) error {
	switch v := value.(type) {
	case string:
		*c = ParseCategory(v)
	case []byte:
		*c = ParseCategory(string(v))
	case nil:
		*c = CategoryNormal
	default:
		return fmt.Errorf("scan category: unsupported type %T", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (c Category) Value() (driver.Value, error) {
	if c == "" {
		return string(CategoryNormal), nil
	}
	return string(c), nil
}
