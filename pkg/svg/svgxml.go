package svg

import (
	"encoding/xml"
	"math"
	"strconv"
)

const namespace = "http://www.w3.org/2000/svg"

// Node is one SVG element. Only the attributes the sink writes are modelled.
type Node struct {
	XMLName  xml.Name
	Width    string  `xml:"width,attr,omitempty"`
	Height   string  `xml:"height,attr,omitempty"`
	ViewBox  string  `xml:"viewBox,attr,omitempty"`
	Version  string  `xml:"version,attr,omitempty"`
	ID       string  `xml:"id,attr,omitempty"`
	X        string  `xml:"x,attr,omitempty"`
	Y        string  `xml:"y,attr,omitempty"`
	X1       string  `xml:"x1,attr,omitempty"`
	Y1       string  `xml:"y1,attr,omitempty"`
	X2       string  `xml:"x2,attr,omitempty"`
	Y2       string  `xml:"y2,attr,omitempty"`
	Styles   string  `xml:"style,attr,omitempty"`
	D        string  `xml:"d,attr,omitempty"`
	Text     string  `xml:",chardata"`
	Children []*Node `xml:",any"`
}

func element(name string) *Node {
	return &Node{XMLName: xml.Name{Local: name}}
}

// Marshal serializes the node tree as a standalone SVG document.
func (n *Node) Marshal() ([]byte, error) {
	n.XMLName.Space = namespace
	out, err := xml.MarshalIndent(n, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// FormatNumber writes n with at most four decimals.
func FormatNumber(n float64) string {
	n = math.Round(n*1e4) / 1e4
	if n == 0 {
		// avoid "-0"
		n = 0
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
