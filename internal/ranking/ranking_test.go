package ranking

import (
	"math"
	"reflect"
	"testing"

	"github.com/dharmasatrya/flightreservation/internal/fare"
	"github.com/dharmasatrya/flightreservation/internal/models"
)

func ecoFlight(id, dep string, subs ...models.FareSubcategory) models.Flight {
	return models.Flight{
		ID:                       id,
		DepartureDateTimeDisplay: dep,
		FareCategories: models.FareCategories{
			Economy: models.FareCategory{Subcategories: subs},
		},
	}
}

func sub(brand models.BrandCode, amount float64, status models.FareStatus) models.FareSubcategory {
	return models.FareSubcategory{BrandCode: brand, Price: models.Price{Amount: amount, Currency: "TRY"}, Status: status}
}

func ids(flights []models.Flight) []string {
	out := make([]string, len(flights))
	for i, f := range flights {
		out[i] = f.ID
	}
	return out
}

func TestDepartureMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:05", 545},
		{"23:59", 1439},
		{"7:30", 450},
		{"12", 720},
		{"", 0},
		{"ab:15", 15},
		{"10:xx", 600},
	}
	for _, tt := range tests {
		if got := DepartureMinutes(tt.in); got != tt.want {
			t.Errorf("DepartureMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRankByPrice(t *testing.T) {
	flights := []models.Flight{
		ecoFlight("expensive", "08:00", sub(models.BrandExtraFly, 400, models.FareAvailable)),
		ecoFlight("soldout", "09:00", sub(models.BrandEcoFly, 10, models.FareError)),
		ecoFlight("cheap", "10:00", sub(models.BrandEcoFly, 100, models.FareAvailable)),
		ecoFlight("tie-a", "11:00", sub(models.BrandExtraFly, 200, models.FareAvailable)),
		ecoFlight("tie-b", "07:00", sub(models.BrandExtraFly, 200, models.FareAvailable)),
	}
	input := append([]models.Flight(nil), flights...)

	got := Rank(flights, ByPrice, models.CabinEconomy, fare.NewPolicy(false))

	want := []string{"cheap", "tie-a", "tie-b", "expensive", "soldout"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
	if !reflect.DeepEqual(flights, input) {
		t.Error("input slice was mutated")
	}

	again := Rank(got, ByPrice, models.CabinEconomy, fare.NewPolicy(false))
	if !reflect.DeepEqual(ids(again), want) {
		t.Errorf("re-rank = %v, want %v", ids(again), want)
	}
}

func TestRankByPriceUsesPromoAdjustedPrice(t *testing.T) {
	flights := []models.Flight{
		ecoFlight("extra", "08:00", sub(models.BrandExtraFly, 150, models.FareAvailable)),
		ecoFlight("eco", "09:00", sub(models.BrandEcoFly, 200, models.FareAvailable)),
	}

	if got := ids(Rank(flights, ByPrice, models.CabinEconomy, fare.NewPolicy(false))); got[0] != "extra" {
		t.Errorf("without promo first = %s, want extra", got[0])
	}
	if got := ids(Rank(flights, ByPrice, models.CabinEconomy, fare.NewPolicy(true))); got[0] != "eco" {
		t.Errorf("with promo first = %s, want eco", got[0])
	}
}

func TestRankPriceIsNonDecreasing(t *testing.T) {
	amounts := []float64{310, 45, 45, 990, 120, 0, 77.5}
	flights := make([]models.Flight, len(amounts))
	for i, a := range amounts {
		brand := models.BrandExtraFly
		if i%2 == 0 {
			brand = models.BrandEcoFly
		}
		flights[i] = ecoFlight(string(rune('a'+i)), "10:00", sub(brand, a, models.FareAvailable))
	}

	policy := fare.NewPolicy(true)
	got := Rank(flights, ByPrice, models.CabinEconomy, policy)
	prev := math.Inf(-1)
	for _, f := range got {
		key := PriceKey(f, models.CabinEconomy, policy)
		if key < prev {
			t.Fatalf("order decreases at %s: %v < %v", f.ID, key, prev)
		}
		prev = key
	}
}

func TestRankByTime(t *testing.T) {
	eco := sub(models.BrandEcoFly, 100, models.FareAvailable)
	flights := []models.Flight{
		ecoFlight("late", "21:10", eco),
		ecoFlight("early", "06:45", eco),
		ecoFlight("noon-a", "12:00", eco),
		ecoFlight("garbage", "--", eco),
		ecoFlight("noon-b", "12:00", eco),
	}

	got := Rank(flights, ByTime, models.CabinEconomy, fare.NewPolicy(false))
	want := []string{"garbage", "early", "noon-a", "noon-b", "late"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
}

func TestRankEmptyAndSingle(t *testing.T) {
	if got := Rank(nil, ByPrice, models.CabinEconomy, fare.NewPolicy(false)); len(got) != 0 {
		t.Errorf("empty rank = %v", got)
	}
	one := []models.Flight{ecoFlight("solo", "10:00")}
	if got := Rank(one, ByTime, models.CabinEconomy, fare.NewPolicy(false)); len(got) != 1 || got[0].ID != "solo" {
		t.Errorf("single rank = %v", ids(got))
	}
}

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		in     string
		want   Criterion
		wantOK bool
	}{
		{"", ByPrice, true},
		{"PRICE", ByPrice, true},
		{" time ", ByTime, true},
		{"duration", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCriterion(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCriterion(%q) = %q, %v", tt.in, got, ok)
		}
	}
}
