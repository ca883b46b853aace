// Package catalog loads the static flight inventory the engine searches.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/dharmasatrya/flightreservation/internal/models"
)

//go:embed data/flights.json
var defaultData []byte

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("flightreservation/catalog"))

// Catalog is immutable after Load.
type Catalog struct {
	flights []models.Flight
	byID    map[string]int
}

type rawCategories struct {
	Economy  *models.FareCategory `json:"ECONOMY"`
	Business *models.FareCategory `json:"BUSINESS"`
}

type rawFlight struct {
	models.Flight
	FareCategories *rawCategories `json:"fareCategories"`
}

type rawCatalog struct {
	Flights []rawFlight `json:"flights"`
}

func Default() (*Catalog, error) {
	return Load(defaultData)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(data)
}

// Load parses and validates a catalog document and gives every flight a
// stable ID derived from its position and schedule.
func Load(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		flights: make([]models.Flight, 0, len(raw.Flights)),
		byID:    make(map[string]int, len(raw.Flights)),
	}

	for i, rf := range raw.Flights {
		f, err := validate(i, rf)
		if err != nil {
			return nil, err
		}
		if f.ID == "" {
			f.ID = flightID(i, f)
		}
		if _, dup := c.byID[f.ID]; dup {
			return nil, &Error{Index: i, Reason: "duplicate id " + f.ID}
		}
		c.byID[f.ID] = len(c.flights)
		c.flights = append(c.flights, f)
	}

	return c, nil
}

// Flights returns the flights in catalog order. The slice is a copy; the
// flights themselves must be treated as read-only.
func (c *Catalog) Flights() []models.Flight {
	out := make([]models.Flight, len(c.flights))
	copy(out, c.flights)
	return out
}

func (c *Catalog) Len() int {
	return len(c.flights)
}

func (c *Catalog) Find(id string) (models.Flight, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Flight{}, false
	}
	return c.flights[i], true
}

func flightID(index int, f models.Flight) string {
	name := fmt.Sprintf("%d|%s|%s|%s|%s",
		index,
		f.OriginAirport.Code,
		f.DestinationAirport.Code,
		f.DepartureDateTimeDisplay,
		f.ArrivalDateTimeDisplay,
	)
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}
