package lib

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

/*
	Quantity at which the logged unit price is quoted.
*/
const priceTargetQty = 100

/*
	What the local jlcparts snapshot knows about one catalog id. A missing
	part yields the zero value, never an error.
*/
type PartsMetadata struct {
	Attributes   map[string]string
	Datasheet    string
	Price        []PriceBreak
	Description  string
	Manufacturer string
	MFRPart      string
	Value        string
	Stock        int64
	Basic        bool
	Restocked    time.Time
}

type PriceBreak struct {
	QFrom int     `json:"qFrom"`
	QTo   *int    `json:"qTo"`
	Price float64 `json:"price"`
}

/*
	The snapshot's extra column is a JSON blob scraped from LCSC; its
	attributes carry values with vendor units, which are preferred over
	the standardized ones.
*/
type partExtra struct {
	Description string                     `json:"description"`
	Attributes  map[string]json.RawMessage `json:"attributes"`
}

/*
	Look up one catalog id in a jlcparts SQLite snapshot.
*/
func LoadPartsMetadata(dbPath, componentID string, log *zap.SugaredLogger) (*PartsMetadata, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	/*
		The components table keys on the numeric part of the catalog id.
	*/
	lcsc := strings.TrimPrefix(componentID, "C")

	row := db.QueryRow(`
		SELECT c.mfr, c.description, c.datasheet, c.price, c.extra,
		       c.stock, c.last_on_stock, c.basic, IFNULL(m.name, '')
		FROM components c
		LEFT JOIN manufacturers m ON m.id = c.manufacturer_id
		WHERE c.lcsc = ?`, lcsc)

	var (
		mfr, description, datasheet, price, extra, lastOnStock sql.NullString
		stock, basic                                           sql.NullInt64
		manufacturer                                           string
	)
	err = row.Scan(
		&mfr, &description, &datasheet, &price, &extra,
		&stock, &lastOnStock, &basic, &manufacturer,
	)
	if err == sql.ErrNoRows {
		log.Infow("component not found in parts database", "id", componentID, "db", dbPath)
		return &PartsMetadata{}, nil
	}
	if err != nil {
		return nil, err
	}

	meta := &PartsMetadata{
		Attributes:   map[string]string{},
		Datasheet:    datasheet.String,
		Description:  description.String,
		Manufacturer: manufacturer,
		MFRPart:      mfr.String,
		Stock:        stock.Int64,
		Basic:        basic.Int64 != 0,
	}

	parsed := partExtra{}
	if extra.String != "" {
		/*
			Snapshots contain the occasional truncated blob; treat it as
			absent rather than failing the part.
		*/
		json.Unmarshal([]byte(extra.String), &parsed)
	}

	for key, raw := range parsed.Attributes {
		text := ""
		if err := json.Unmarshal(raw, &text); err == nil {
			meta.Attributes[key] = text
		}
	}
	if meta.Description == "" {
		meta.Description = parsed.Description
	}

	for _, valueType := range supportedValueTypes {
		if value, ok := meta.Attributes[valueType]; ok {
			meta.Value = value
			break
		}
	}

	if price.String != "" {
		json.Unmarshal([]byte(price.String), &meta.Price)
	}

	/*
		Non-numeric restock timestamps collapse to the epoch.
	*/
	restocked, err := strconv.ParseInt(lastOnStock.String, 10, 64)
	if err != nil {
		restocked = 0
	}
	meta.Restocked = time.Unix(restocked, 0)

	libraryType := "Extended"
	if meta.Basic {
		libraryType = "Basic"
	}
	log.Infow("parts metadata",
		"id", componentID,
		"price", meta.UnitPrice(priceTargetQty),
		"qty", priceTargetQty,
		"stock", meta.Stock,
		"restocked", meta.Restocked.Format("2006-01-02 15:04"),
		"type", libraryType,
	)

	return meta, nil
}

/*
	Unit price at the given order quantity, or zero when no price break
	covers it.
*/
func (m *PartsMetadata) UnitPrice(qty int) float64 {
	for _, brk := range m.Price {
		if qty >= brk.QFrom && (brk.QTo == nil || qty <= *brk.QTo) {
			return brk.Price
		}
	}

	return 0
}
