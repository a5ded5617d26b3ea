package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/boltdb/bolt"
	"github.com/mholt/archiver"
	"github.com/xuri/excelize/v2"
)

/*
	LCSC Part	First Category	Second Category	MFR.Part	Package	Solder Joint	Manufacturer	Library Type	Description	Datasheet	Price	Stock
	C25725	Resistors	Resistor Networks & Arrays	4D02WGJ0103TCE	0402_x4	8	Uniroyal Elec	Basic	Resistor Networks & Arrays 10KOhms ±5% 1/16W 0402_x4 RoHS	https://datasheet.lcsc.com/szlcsc/Uniroyal-Elec-4D02WGJ0103TCE_C25725.pdf	1-199:0.006956522,200-:0.002717391	79847
*/

var (
	componentsBkt   = []byte("components")
	associationsBkt = []byte("associations")
)

type LibraryComponent struct {
	ID             string
	FirstCategory  string
	SecondCategory string
	MFRPart        string
	Package        string
	SolderJoint    string
	Manufacturer   string
	LibraryType    string
	Description    string
}

/*
	Local store of the JLCPCB parts list: component rows in bolt, a bleve
	index over their descriptions, and board-component associations.
*/
type PartsDB struct {
	root  string
	db    *bolt.DB
	index bleve.Index
}

func DefaultPartsRoot() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	return filepath.Join(dir, "jsym")
}

/*
	Create or open the parts database under root
*/
func NewPartsDB(root string) (*PartsDB, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(root, "parts.db"), 0666, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(componentsBkt); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(associationsBkt)

		return err
	})
	if err != nil {
		return nil, err
	}

	var index bleve.Index
	ipath := filepath.Join(root, "parts.index")
	if Exists(ipath) {
		index, err = bleve.Open(ipath)
	} else {
		index, err = bleve.New(ipath, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, err
	}

	return &PartsDB{
		root:  root,
		db:    db,
		index: index,
	}, nil
}

func (l *PartsDB) Close() error {
	l.index.Close()

	return l.db.Close()
}

/*
	Import the JLCPCB parts spreadsheet, either the xlsx itself or the
	zip archive it is distributed in.
*/
func (l *PartsDB) Import(src string) error {
	if strings.HasSuffix(strings.ToLower(src), ".zip") {
		dir, err := os.MkdirTemp("", "jsym-import-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		if err := archiver.Unarchive(src, dir); err != nil {
			return err
		}

		src = ""
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if strings.HasSuffix(strings.ToLower(entry.Name()), ".xlsx") {
				src = filepath.Join(dir, entry.Name())
				break
			}
		}
		if src == "" {
			return fmt.Errorf("archive contains no xlsx sheet")
		}
	}

	f, err := excelize.OpenFile(src)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	rows, err := f.Rows(sheet)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	chrows := make(chan []string, 100)
	go func() {
		defer close(chrows)
		for rows.Next() {
			row, err := rows.Columns()
			if err != nil || len(row) < 9 {
				continue
			}

			/*
				skips the header row as well
			*/
			if !strings.HasPrefix(row[0], "C") {
				continue
			}

			select {
			case chrows <- row:
			case <-done:
				return
			}
		}
	}()

	/*
		An error return below must not strand the producer on a full
		channel: release it, drain what it already sent, then close the
		row iterator.
	*/
	defer func() {
		close(done)
		for range chrows {
		}
		rows.Close()
	}()

	/*
		amount per transaction; keeps memory bounded on the full sheet
	*/
	k := 2000
	for {
		batch := [][]string{}
		for row := range chrows {
			batch = append(batch, row)
			if len(batch) == k {
				break
			}
		}
		if len(batch) == 0 {
			return nil
		}

		ibatch := l.index.NewBatch()
		err := l.db.Update(func(tx *bolt.Tx) error {
			components := tx.Bucket(componentsBkt)
			for _, row := range batch {
				component := LibraryComponent{
					ID:             row[0],
					FirstCategory:  row[1],
					SecondCategory: row[2],
					MFRPart:        row[3],
					Package:        row[4],
					SolderJoint:    row[5],
					Manufacturer:   row[6],
					LibraryType:    row[7],
					Description:    row[8],
				}

				bytes, err := Marshal(component)
				if err != nil {
					return err
				}

				if err := components.Put([]byte(component.ID), bytes); err != nil {
					return err
				}

				if err := ibatch.Index(component.ID, component); err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			return err
		}

		if err := l.index.Batch(ibatch); err != nil {
			return err
		}
	}
}

func (l *PartsDB) Put(component *LibraryComponent) error {
	bytes, err := Marshal(*component)
	if err != nil {
		return err
	}

	err = l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(componentsBkt).Put([]byte(component.ID), bytes)
	})
	if err != nil {
		return err
	}

	return l.index.Index(component.ID, *component)
}

/*
	Fetch one component by catalog id; nil if not imported.
*/
func (l *PartsDB) Get(id string) *LibraryComponent {
	component := LibraryComponent{}
	found := false

	l.db.View(func(tx *bolt.Tx) error {
		bytes := tx.Bucket(componentsBkt).Get([]byte(id))
		if bytes == nil {
			return nil
		}

		if err := Unmarshal(bytes, &component); err == nil {
			found = true
		}

		return nil
	})

	if !found {
		return nil
	}

	return &component
}

/*
	Find library components, given a search string
*/
func (l *PartsDB) Find(text string) []*LibraryComponent {
	query := bleve.NewMatchQuery(text)
	request := bleve.NewSearchRequest(query)
	request.Size = 25

	result, err := l.index.Search(request)
	if err != nil {
		return []*LibraryComponent{}
	}

	components := []*LibraryComponent{}
	for _, hit := range result.Hits {
		if component := l.Get(hit.ID); component != nil {
			components = append(components, component)
		}
	}

	return components
}

/*
	Remember which catalog id a board component maps to.
*/
func (l *PartsDB) Associate(component *BoardComponent, id string) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(associationsBkt).Put(bcKey(component), []byte(id))
	})
}

/*
	Resolve a board component to a library component: an explicit
	association first, then the comment itself when it is a catalog id.
*/
func (l *PartsDB) FindMatching(component *BoardComponent) *LibraryComponent {
	id := ""
	l.db.View(func(tx *bolt.Tx) error {
		if bytes := tx.Bucket(associationsBkt).Get(bcKey(component)); bytes != nil {
			id = string(bytes)
		}

		return nil
	})

	if id == "" && strings.HasPrefix(component.Comment, "C") {
		id = component.Comment
	}
	if id == "" {
		return nil
	}

	return l.Get(id)
}
