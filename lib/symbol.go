package lib

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

/*
	Attributes from the parts service that belong in the value field.
*/
var supportedValueTypes = []string{
	"Resistance",
	"Capacitance",
	"Inductance",
	"Frequency",
}

var nameSanitizer = strings.NewReplacer(
	" ", "_",
	".", "_",
	"/", "{slash}",
	"\\", "{backslash}",
	"<", "{lt}",
	">", "{gt}",
	":", "{colon}",
	`"`, "{dblquote}",
)

/*
	Replace characters that are unsafe in symbol and file names with
	escape tokens.
*/
func SanitizeName(title string) string {
	return nameSanitizer.Replace(title)
}

type SymbolOptions struct {
	/*
		Sub-component uuids of one logical part, in unit order.
	*/
	ComponentUUIDs []string
	ComponentID    string
	Footprint      string
	Datasheet      string
	LibraryName    string
	OutputDir      string
	PartsDB        string
	SkipExisting   bool
}

type SymbolGenerator struct {
	eda      *EasyEDA
	registry *ShapeRegistry
	log      *zap.SugaredLogger
}

func NewSymbolGenerator(eda *EasyEDA, registry *ShapeRegistry, log *zap.SugaredLogger) *SymbolGenerator {
	return &SymbolGenerator{
		eda:      eda,
		registry: registry,
		log:      log,
	}
}

/*
	Fetch every sub-component of one part, render a single symbol record,
	and merge it into the target library. The first sub-component names
	the symbol; each sub-component becomes one numbered unit.
*/
func (g *SymbolGenerator) CreateSymbol(opts SymbolOptions) error {
	if len(opts.ComponentUUIDs) == 0 {
		return fmt.Errorf("no sub-components given for %s", opts.ComponentID)
	}

	name := ""
	prefix := ""
	drawing := ""
	typeValues := []TypeValue{}
	seenTypes := map[string]bool{}

	for unit, uuid := range opts.ComponentUUIDs {
		component, err := g.eda.Component(uuid)
		if err != nil {
			g.log.Errorw("failed to fetch component", "uuid", uuid, "error", err)
			return err
		}

		if name == "" {
			name = SanitizeName(component.Title)
			prefix = component.Prefix
		}

		/*
			Units of one package share header attributes; a record may
			carry each property name only once, first occurrence wins.
		*/
		for _, valueType := range supportedValueTypes {
			if value, ok := component.Attributes[valueType]; ok && !seenTypes[valueType] {
				seenTypes[valueType] = true
				typeValues = append(typeValues, TypeValue{valueType, value})
			}
		}

		builder := &DrawingBuilder{}
		builder.WriteFragment(fmt.Sprintf("\n    (symbol %q", fmt.Sprintf("%s_%d_1", name, unit+1)))
		for _, line := range component.Shape {
			g.registry.Render(line, component.Offset, builder)
		}
		builder.WriteFragment("\n    )")

		drawing += builder.String()
	}

	value := ""
	datasheet := opts.Datasheet
	if opts.PartsDB != "" && Exists(opts.PartsDB) {
		props, err := LoadPartsMetadata(opts.PartsDB, opts.ComponentID, g.log)
		if err != nil {
			return err
		}

		value = props.Value
		if props.Datasheet != "" {
			datasheet = props.Datasheet
		}
		typeValues = append(typeValues,
			TypeValue{"JLCDescription", props.Description},
			TypeValue{"Manufacturer", props.Manufacturer},
			TypeValue{"MFR.Part.#", props.MFRPart},
		)
	}
	if value == "" {
		value = name
	}

	library := opts.LibraryName
	if library == "" {
		library = name
	}
	filename := filepath.Join(opts.OutputDir, library+".kicad_sym")

	g.log.Infow("creating symbol", "symbol", name, "library", filename)

	record := renderRecord(
		name, prefix, value, opts.Footprint, datasheet, opts.ComponentID,
		typeValues, drawing,
	)

	return MergeSymbol(filename, name, record, opts.SkipExisting, g.log)
}

/*
	Assemble the full record text: fixed properties ids 0 through 5,
	dynamic properties from 6, then the drawing body.
*/
func renderRecord(
	name, prefix, value, footprint, datasheet, id string,
	typeValues []TypeValue, drawing string,
) string {
	return fmt.Sprintf(
		`  (symbol %q (pin_names hide) (pin_numbers hide) (in_bom yes) (on_board yes)
    (property "Reference" %q (id 0) (at 0 1.27 0)
      (effects (font (size 1.27 1.27)))
    )
    (property "Value" %q (id 1) (at 0 -2.54 0)
      (effects (font (size 1.27 1.27)))
    )
    (property "Footprint" %q (id 2) (at 0 -10.16 0)
      (effects (font (size 1.27 1.27) italic) hide)
    )
    (property "Datasheet" %q (id 3) (at -2.286 0.127 0)
      (effects (font (size 1.27 1.27)) (justify left) hide)
    )
    (property "ki_keywords" %q (id 4) (at 0 0 0)
      (effects (font (size 1.27 1.27)) hide)
    )
    (property "LCSC" %q (id 5) (at 0 0 0)
      (effects (font (size 1.27 1.27)) hide)
    )
    %s%s
  )
`,
		name, prefix, value, footprint, datasheet, id, id,
		TypeValueProperties(6, typeValues), drawing,
	)
}
