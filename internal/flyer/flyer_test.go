package flyer

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flyerpress/internal/models"
)

func promo(name, root, path, custom, discount string) models.Promotion {
	return models.Promotion{
		ID:            uuid.New(),
		CustomPrice:   custom,
		DiscountPrice: discount,
		StartDate:     time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC),
		Product: models.Product{
			Name:         name,
			SKU:          "SKU-" + name,
			CategoryRoot: root,
			CategoryPath: path,
		},
	}
}

func itemNames(f *Flyer) []string {
	var out []string
	for _, s := range f.Sections {
		for _, it := range s.Items {
			out = append(out, it.Name)
		}
	}
	return out
}

func TestBuild_SortsByPathThenName(t *testing.T) {
	in := []models.Promotion{
		promo("Yogurt", "Latticini", "Latticini / Yogurt", "2", "1.5"),
		promo("Acqua Naturale", "Bevande", "Bevande / Acqua", "1", "0.8"),
		promo("Acqua Frizzante", "Bevande", "Bevande / Acqua", "1", "0.8"),
		promo("Aranciata", "Bevande", "Bevande / Bibite", "2", "1.6"),
	}

	f := Build(in, "2026-W43", Branding{StoreName: "Bottega"})

	assert.Equal(t, []string{"Acqua Frizzante", "Acqua Naturale", "Aranciata", "Yogurt"}, itemNames(f))
	require.Len(t, f.Sections, 2)
	assert.Equal(t, "Bevande", f.Sections[0].Title)
	assert.Equal(t, "bevande", f.Sections[0].Anchor)
	assert.Equal(t, "Latticini", f.Sections[1].Title)
	assert.Equal(t, 4, f.ItemCount)
	assert.Equal(t, "Bottega", f.Branding.StoreName)
	assert.Equal(t, "Yogurt", in[0].Product.Name, "input must not be reordered")
}

func TestBuild_ProductsWithoutRootGoLast(t *testing.T) {
	in := []models.Promotion{
		promo("Sconosciuto", "", "", "3", "2"),
		promo("Pane", "Forno", "Forno", "2", "1"),
	}

	f := Build(in, "", Branding{})

	require.Len(t, f.Sections, 2)
	assert.Equal(t, "Forno", f.Sections[0].Title)
	assert.Equal(t, OtherSection, f.Sections[1].Title)
	assert.Equal(t, "altri-prodotti", f.Sections[1].Anchor)
	assert.Equal(t, "Sconosciuto", f.Sections[1].Items[0].Name)
}

func TestBuild_Empty(t *testing.T) {
	f := Build(nil, "nonsense", Branding{})
	assert.Empty(t, f.Sections)
	assert.Equal(t, GenericWeekTitle, f.DateRange)
	assert.Equal(t, Title, f.Title)
}

func TestBuild_ItemFields(t *testing.T) {
	p := promo("Mele Golden", "Frutta", "Frutta / Mele", "3", "2.4")
	p.Product.Attributes = []models.ProductAttribute{
		{Name: "Colore", Options: []string{"giallo"}},
		{Name: models.UnitOfMeasureAttribute, Options: []string{"kg", "pz"}},
	}
	p.Product.Permalink = "https://shop.example/prodotto/mele-golden"
	p.Product.CategoryLabel = "Frutta > Mele"

	f := Build([]models.Promotion{p}, "2026-W43", Branding{})
	it := f.Sections[0].Items[0]

	assert.Equal(t, 20, it.DiscountPercent)
	assert.Equal(t, "2", it.Euros)
	assert.Equal(t, "40", it.Cents)
	assert.Equal(t, "3.00", it.CustomPrice)
	assert.Equal(t, "kg", it.UnitOfMeasure)
	assert.Equal(t, PlaceholderImage, it.Image)
	assert.Equal(t, "Frutta > Mele", it.CategoryLabel)
	assert.Equal(t, "Valido dal 19/10/2026 al 25/10/2026", it.Validity)
	assert.True(t, strings.HasPrefix(it.QRCode, "data:image/png;base64,"))
	assert.Equal(t, p.ID.String(), it.ID)
}

func TestBuild_DatesInStoreZone(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	// Stored as UTC: local midnight of Monday 19/10 and 23:59 of Sunday 25/10.
	p := promo("Mele", "Frutta", "Frutta", "3", "2")
	p.StartDate = time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)
	p.EndDate = time.Date(2026, 10, 25, 22, 59, 0, 0, time.UTC)

	f := Build([]models.Promotion{p}, "2026-W43", Branding{Location: rome})

	assert.Equal(t, "dal 19/10/2026 al 25/10/2026", f.DateRange)
	assert.Equal(t, "Valido dal 19/10/2026 al 25/10/2026", f.Sections[0].Items[0].Validity)
}

func TestBuild_NoPermalinkNoQRCode(t *testing.T) {
	p := promo("Pane", "Forno", "Forno", "2", "1")
	p.Product.Images = []models.ProductImage{{Src: "https://cdn.example/pane.jpg"}}

	it := Build([]models.Promotion{p}, "", Branding{}).Sections[0].Items[0]

	assert.Empty(t, it.QRCode)
	assert.Equal(t, "https://cdn.example/pane.jpg", it.Image)
}

func TestSplitPrice(t *testing.T) {
	tests := []struct {
		in, euros, cents string
	}{
		{"2.40", "2", "40"},
		{"2.4", "2", "40"},
		{"12", "12", "00"},
		{"0,99", "0", "99"},
		{"3.456", "3", "45"},
		{".5", "0", "50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, c := SplitPrice(tt.in)
			assert.Equal(t, tt.euros, e)
			assert.Equal(t, tt.cents, c)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "4.50", formatPrice("4.5"))
	assert.Equal(t, "4.50", formatPrice("4,5"))
	assert.Equal(t, "n/d", formatPrice("n/d"))
}
