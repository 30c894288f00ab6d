package catalog

import (
	"strings"

	"flyerpress/internal/models"
)

const uploadsURL = "https://www.bortolatoefoglia.it/wp-content/uploads/"

// sampleProducts is served by product search when the shop is unreachable,
// so the editor stays usable offline.
var sampleProducts = []models.Product{
	sample(1, "Pasta Barilla Spaghetti n.5 500g", "BAR001", "1.20", "Spaghetti di semola di grano duro."),
	sample(2, "Passata di Pomodoro Mutti 700g", "MUT001", "1.50", "Passata di pomodoro dolce."),
	sample(3, "Caffè Lavazza Qualità Rossa 250g", "LAV001", "3.50", "Miscela di caffè macinato."),
	sample(4, "Biscotti Mulino Bianco Macine 350g", "MUL001", "2.80", "Biscotti frollini con panna fresca."),
	sample(5, "Acqua Minerale Naturale Levissima 1.5L", "LEV001", "0.45", "Acqua minerale naturale oligominerale."),
}

func sample(id int, name, sku, price, desc string) models.Product {
	return models.Product{
		ID:           id,
		Name:         name,
		SKU:          sku,
		Price:        price,
		RegularPrice: price,
		Description:  desc,
		Images:       []models.ProductImage{{Src: uploadsURL + sku + ".jpg"}},
	}
}

// SampleProducts returns the built-in sample products whose name or SKU
// contains query, case-insensitively. An empty query matches everything.
func SampleProducts(query string) []models.Product {
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(sampleProducts))
	for _, p := range sampleProducts {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			out = append(out, p)
		}
	}
	return out
}
