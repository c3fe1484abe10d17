package postgres

import (
	"reflect"
	"testing"

	"github.com/lib/pq"

	"github.com/tyt2025/shopifytyt/internal/domain"
)

func TestBuildProductWhere(t *testing.T) {
	where, args := buildProductWhere(domain.ProductFilter{})
	if where != "" || len(args) != 0 {
		t.Fatalf("empty filter: got %q %v", where, args)
	}

	where, args = buildProductWhere(domain.ProductFilter{ActiveOnly: true, Category: "Laptops", Search: " hp "})
	wantWhere := ` WHERE p.is_active = true AND p.category = $1 AND (p.product_name ILIKE $2 ESCAPE '\' OR p.sku ILIKE $2 ESCAPE '\')`
	if where != wantWhere {
		t.Errorf("where = %q, want %q", where, wantWhere)
	}
	if !reflect.DeepEqual(args, []interface{}{"Laptops", "%hp%"}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuildProductWhere_EscapesWildcards(t *testing.T) {
	tests := []struct {
		search string
		want   string
	}{
		{"_", `%\_%`},
		{"100%", `%100\%%`},
		{`a\b`, `%a\\b%`},
		{"usb_c 50%", `%usb\_c 50\%%`},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			_, args := buildProductWhere(domain.ProductFilter{Search: tt.search})
			if len(args) != 1 || args[0] != tt.want {
				t.Errorf("args = %v, want [%s]", args, tt.want)
			}
		})
	}
}

func TestBuildProductUpdate(t *testing.T) {
	if _, _, ok := buildProductUpdate("1", nil); ok {
		t.Fatal("expected no statement for an empty update")
	}

	query, args, ok := buildProductUpdate("42", map[string]interface{}{
		"shopify_published": true,
		"etiquetas":         []string{"hp", "gamer"},
	})
	if !ok {
		t.Fatal("expected a statement")
	}
	want := "UPDATE productos SET etiquetas = $1, shopify_published = $2, updated_at = NOW() WHERE id::text = $3"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 3 {
		t.Fatalf("args = %v", args)
	}
	if !reflect.DeepEqual(args[0], pq.Array([]string{"hp", "gamer"})) {
		t.Errorf("args[0] = %#v", args[0])
	}
	if args[2] != "42" {
		t.Errorf("id arg = %v", args[2])
	}
}
