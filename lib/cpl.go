package lib

import (
	"encoding/csv"
	"os"
	"strings"
)

type BoardComponent struct {
	Designator string
	Comment    string
	Footprint  string
	X          string
	Y          string
	Rotation   string
	Layer      string
}

type BOMEntry struct {
	Comment     string
	Designators []string
	Component   *LibraryComponent
}

/*
	Read a placement file exported from the board tool. A header row is
	skipped when present.
*/
func ReadCPL(src string) ([]*BoardComponent, error) {
	fp, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	components := []*BoardComponent{}
	reader := csv.NewReader(fp)
	for {
		line, err := reader.Read()
		if err != nil || len(line) < 7 {
			break
		}

		if strings.EqualFold(line[0], "Designator") {
			continue
		}

		components = append(components, &BoardComponent{
			Designator: line[0],
			Comment:    line[1],
			Footprint:  line[2],
			X:          line[3],
			Y:          line[4],
			Rotation:   line[5],
			Layer:      line[6],
		})
	}

	return components, nil
}

/*
	Write the placement file in the JLCPCB assembly dialect.
*/
func WriteCPL(dst string, components []*BoardComponent) error {
	fp, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer fp.Close()

	writer := csv.NewWriter(fp)
	writer.Write([]string{"Designator", "Mid X", "Mid Y", "Layer", "Rotation"})
	for _, component := range components {
		writer.Write([]string{
			component.Designator,
			component.X,
			component.Y,
			component.Layer,
			component.Rotation,
		})
	}

	writer.Flush()
	return writer.Error()
}

func WriteBOM(dst string, entries []*BOMEntry) error {
	fp, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer fp.Close()

	writer := csv.NewWriter(fp)
	writer.Write([]string{"Comment", "Designator", "Footprint", "LCSC Part"})
	for _, entry := range entries {
		writer.Write([]string{
			entry.Comment,
			strings.Join(entry.Designators, ","),
			entry.Component.Package,
			entry.Component.ID,
		})
	}

	writer.Flush()
	return writer.Error()
}
