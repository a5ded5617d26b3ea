package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCPL(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data.cpl")
	content := "Designator,Comment,Footprint,Mid X,Mid Y,Rotation,Layer\n" +
		"R1,10k,0402,1.0,2.0,90,top\n" +
		"C3,100nF,0603,4.0,5.0,0,bottom\n"
	require.NoError(t, os.WriteFile(src, []byte(content), 0644))

	components, err := ReadCPL(src)
	require.NoError(t, err)
	require.Len(t, components, 2)

	assert.Equal(t, "R1", components[0].Designator)
	assert.Equal(t, "10k", components[0].Comment)
	assert.Equal(t, "bottom", components[1].Layer)
}

func TestWriteBOM(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "bom.csv")
	err := WriteBOM(dst, []*BOMEntry{
		{
			Comment:     "10k",
			Designators: []string{"R1", "R2"},
			Component:   &LibraryComponent{ID: "C25725", Package: "0402"},
		},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)

	assert.Equal(t,
		"Comment,Designator,Footprint,LCSC Part\n"+
			"10k,\"R1,R2\",0402,C25725\n",
		string(raw),
	)
}

func TestWriteCPL(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "cpl.csv")
	err := WriteCPL(dst, []*BoardComponent{
		{Designator: "R1", X: "1.0", Y: "2.0", Rotation: "90", Layer: "top"},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)

	assert.Equal(t,
		"Designator,Mid X,Mid Y,Layer,Rotation\n"+
			"R1,1.0,2.0,top,90\n",
		string(raw),
	)
}
