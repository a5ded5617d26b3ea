package lib

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
	Write a small jlcparts snapshot with one resistor, C25725. Its
	last_on_stock field is deliberately malformed.
*/
func createPartsSnapshot(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.sqlite3")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE components (
			lcsc INTEGER PRIMARY KEY,
			mfr TEXT, description TEXT, datasheet TEXT,
			price TEXT, extra TEXT,
			stock INTEGER, last_on_stock TEXT, basic INTEGER,
			manufacturer_id INTEGER
		)`)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE manufacturers (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO manufacturers (id, name) VALUES (1, 'Uniroyal Elec')`)
	require.NoError(t, err)

	_, err = db.Exec(
		`INSERT INTO components
		 (lcsc, mfr, description, datasheet, price, extra, stock, last_on_stock, basic, manufacturer_id)
		 VALUES (25725, '4D02WGJ0103TCE', '', ?, ?, ?, 79847, 'notanumber', 1, 1)`,
		"https://datasheet.lcsc.com/szlcsc/C25725.pdf",
		`[{"qFrom":1,"qTo":199,"price":0.0069},{"qFrom":200,"qTo":null,"price":0.0027}]`,
		`{"description":"Resistor Networks 10KOhms","attributes":{"Resistance":"10kOhm","Power":"1/16W","Pins":4}}`,
	)
	require.NoError(t, err)

	return path
}

func TestLoadPartsMetadata(t *testing.T) {
	path := createPartsSnapshot(t)

	meta, err := LoadPartsMetadata(path, "C25725", nopLog())
	require.NoError(t, err)

	assert.Equal(t, "10kOhm", meta.Value)
	assert.Equal(t, "Uniroyal Elec", meta.Manufacturer)
	assert.Equal(t, "4D02WGJ0103TCE", meta.MFRPart)
	assert.Equal(t, "https://datasheet.lcsc.com/szlcsc/C25725.pdf", meta.Datasheet)
	assert.Equal(t, "Resistor Networks 10KOhms", meta.Description)
	assert.Equal(t, "1/16W", meta.Attributes["Power"])
	assert.True(t, meta.Basic)
	assert.Equal(t, int64(79847), meta.Stock)

	/*
		non-string attribute values are dropped, not mangled
	*/
	_, ok := meta.Attributes["Pins"]
	assert.False(t, ok)
}

func TestLoadPartsMetadataPriceBreaks(t *testing.T) {
	path := createPartsSnapshot(t)

	meta, err := LoadPartsMetadata(path, "C25725", nopLog())
	require.NoError(t, err)

	assert.InDelta(t, 0.0069, meta.UnitPrice(100), 1e-9)
	assert.InDelta(t, 0.0027, meta.UnitPrice(500), 1e-9)
	assert.Zero(t, meta.UnitPrice(0))
}

func TestLoadPartsMetadataMalformedRestock(t *testing.T) {
	path := createPartsSnapshot(t)

	meta, err := LoadPartsMetadata(path, "C25725", nopLog())
	require.NoError(t, err)

	assert.True(t, meta.Restocked.Equal(time.Unix(0, 0)))
}

func TestLoadPartsMetadataAbsent(t *testing.T) {
	path := createPartsSnapshot(t)

	meta, err := LoadPartsMetadata(path, "C999999", nopLog())
	require.NoError(t, err)

	assert.Empty(t, meta.Value)
	assert.Empty(t, meta.Datasheet)
	assert.Empty(t, meta.Manufacturer)
}
