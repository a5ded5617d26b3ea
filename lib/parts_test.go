package lib

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"
)

func testPartsDB(t *testing.T) *PartsDB {
	t.Helper()

	db, err := NewPartsDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

/*
	Write a parts spreadsheet in the JLCPCB layout: one header row, then
	n component rows C1..Cn.
*/
func writePartsSheet(t *testing.T, n int) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{
		"LCSC Part", "First Category", "Second Category", "MFR.Part", "Package",
		"Solder Joint", "Manufacturer", "Library Type", "Description",
	}))
	for i := 0; i < n; i++ {
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &[]interface{}{
			fmt.Sprintf("C%d", i+1), "Resistors", "Chip Resistor",
			fmt.Sprintf("P%d", i+1), "0402", "2", "Uniroyal Elec", "Basic",
			"Chip Resistor 10k",
		}))
	}

	path := filepath.Join(t.TempDir(), "parts.xlsx")
	require.NoError(t, f.SaveAs(path))

	return path
}

func TestPartsDBImport(t *testing.T) {
	db := testPartsDB(t)

	require.NoError(t, db.Import(writePartsSheet(t, 3)))

	component := db.Get("C2")
	require.NotNil(t, component)
	assert.Equal(t, "P2", component.MFRPart)
	assert.Equal(t, "0402", component.Package)
	assert.Nil(t, db.Get("C4"))
}

func TestPartsDBImportFailureReleasesProducer(t *testing.T) {
	db := testPartsDB(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	/*
		enough rows to leave the producer blocked mid-send when the
		first transaction fails
	*/
	src := writePartsSheet(t, 2200)

	require.NoError(t, db.db.Close())
	assert.Error(t, db.Import(src))
}

func TestPartsDBRoundtrip(t *testing.T) {
	db := testPartsDB(t)

	component := &LibraryComponent{
		ID:           "C25725",
		MFRPart:      "4D02WGJ0103TCE",
		Package:      "0402_x4",
		Manufacturer: "Uniroyal Elec",
		LibraryType:  "Basic",
		Description:  "Resistor Networks & Arrays 10KOhms",
	}
	require.NoError(t, db.Put(component))

	got := db.Get("C25725")
	require.NotNil(t, got)
	assert.Equal(t, *component, *got)

	assert.Nil(t, db.Get("C1"))
}

func TestPartsDBFind(t *testing.T) {
	db := testPartsDB(t)

	require.NoError(t, db.Put(&LibraryComponent{
		ID:          "C25725",
		Description: "Resistor Networks & Arrays 10KOhms",
	}))
	require.NoError(t, db.Put(&LibraryComponent{
		ID:          "C14663",
		Description: "Ceramic Capacitor 100nF",
	}))

	matches := db.Find("capacitor")
	require.Len(t, matches, 1)
	assert.Equal(t, "C14663", matches[0].ID)
}

func TestPartsDBAssociations(t *testing.T) {
	db := testPartsDB(t)
	require.NoError(t, db.Put(&LibraryComponent{ID: "C25725", Description: "resistor"}))

	board := &BoardComponent{Designator: "R12", Comment: "10k", Footprint: "0402"}
	assert.Nil(t, db.FindMatching(board))

	require.NoError(t, db.Associate(board, "C25725"))

	/*
		any designator of the same class matches the association
	*/
	got := db.FindMatching(&BoardComponent{Designator: "R7", Comment: "10k", Footprint: "0402"})
	require.NotNil(t, got)
	assert.Equal(t, "C25725", got.ID)
}

func TestPartsDBMatchesCatalogComment(t *testing.T) {
	db := testPartsDB(t)
	require.NoError(t, db.Put(&LibraryComponent{ID: "C25725", Description: "resistor"}))

	got := db.FindMatching(&BoardComponent{Designator: "R1", Comment: "C25725", Footprint: "0402"})
	require.NotNil(t, got)
	assert.Equal(t, "C25725", got.ID)
}
