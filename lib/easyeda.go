package lib

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const edaUserAgent = "jsym/1.0 (https://github.com/xoviat/jsym)"

/*
	Client for the EasyEDA parts service. One part may be described by
	several sub-components (multi-unit packages); each is fetched by uuid.
*/
type EasyEDA struct {
	base   string
	client *http.Client
}

func NewEasyEDA() *EasyEDA {
	return &EasyEDA{
		base: "https://easyeda.com/api",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

/*
	One fetched sub-component: display title, reference prefix, the symbol
	origin that all shapes are drawn relative to, the raw shape lines, and
	the header attributes.
*/
type EDAComponent struct {
	Title      string
	Prefix     string
	Offset     Translation
	Shape      []string
	Attributes map[string]string
}

type edaComponentResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Title   string `json:"title"`
		DataStr struct {
			Head struct {
				X     float64           `json:"x"`
				Y     float64           `json:"y"`
				CPara map[string]string `json:"c_para"`
			} `json:"head"`
			Shape []string `json:"shape"`
		} `json:"dataStr"`
		PackageDetail struct {
			DataStr struct {
				Head struct {
					CPara map[string]string `json:"c_para"`
				} `json:"head"`
			} `json:"dataStr"`
		} `json:"packageDetail"`
	} `json:"result"`
}

type edaSvgsResponse struct {
	Success bool `json:"success"`
	Result  []struct {
		DocType       int    `json:"docType"`
		ComponentUUID string `json:"component_uuid"`
	} `json:"result"`
}

func (eda *EasyEDA) get(path string, response interface{}) error {
	req, err := http.NewRequest("GET", eda.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Add("User-Agent", edaUserAgent)

	resp, err := eda.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("easyeda returned status %d for %s", resp.StatusCode, path)
	}

	dec := json.NewDecoder(resp.Body)
	return dec.Decode(response)
}

/*
	Fetch the geometry and header metadata of one sub-component.
*/
func (eda *EasyEDA) Component(uuid string) (*EDAComponent, error) {
	response := edaComponentResponse{}
	if err := eda.get("/components/"+uuid, &response); err != nil {
		return nil, err
	}

	if !response.Success {
		return nil, fmt.Errorf("easyeda has no component %s", uuid)
	}

	head := response.Result.DataStr.Head
	attributes := make(map[string]string, len(head.CPara))
	for key, value := range head.CPara {
		attributes[key] = value
	}

	/*
		The reference prefix lives on the package, with a trailing "?"
		placeholder for the designator number.
	*/
	prefix := strings.ReplaceAll(
		response.Result.PackageDetail.DataStr.Head.CPara["pre"], "?", "",
	)

	return &EDAComponent{
		Title:      response.Result.Title,
		Prefix:     prefix,
		Offset:     Translation{X: head.X, Y: head.Y},
		Shape:      response.Result.DataStr.Shape,
		Attributes: attributes,
	}, nil
}

/*
	Resolve a catalog id to the ordered sub-component uuids of its symbol.
	The product document list carries one entry per document; docType 2 is
	a schematic symbol.
*/
func (eda *EasyEDA) SymbolComponents(id string) ([]string, error) {
	response := edaSvgsResponse{}
	if err := eda.get("/products/"+id+"/svgs", &response); err != nil {
		return nil, err
	}

	uuids := []string{}
	for _, doc := range response.Result {
		if doc.DocType == 2 {
			uuids = append(uuids, doc.ComponentUUID)
		}
	}

	if len(uuids) == 0 {
		return nil, fmt.Errorf("no symbol documents for %s", id)
	}

	return uuids, nil
}
