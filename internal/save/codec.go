package save

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format is an on-disk save encoding.
type Format string

const (
	// FormatYAML is human-editable.
	FormatYAML Format = "yaml"
	// FormatCBOR is compact and deterministic.
	FormatCBOR Format = "cbor"
)

// Formats lists the supported encodings in lookup order.
var Formats = []Format{FormatYAML, FormatCBOR}

// ParseFormat accepts "yaml", "yml" or "cbor".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("save: unknown format %q", s)
	}
}

// Ext is the file extension, including the dot.
func (f Format) Ext() string { return "." + string(f) }

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Participant refs go out as "player" / "employee:N".
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encOptions.Time = cbor.TimeRFC3339Nano
	cborEnc, err = encOptions.EncMode()
	if err != nil {
		panic("save: CBOR encoder initialization failed: " + err.Error())
	}

	cborDec, err = cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("save: CBOR decoder initialization failed: " + err.Error())
	}
}

func (f Format) marshal(v any) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatCBOR:
		return cborEnc.Marshal(v)
	default:
		return nil, fmt.Errorf("save: unknown format %q", f)
	}
}

func (f Format) unmarshal(data []byte, v any) error {
	switch f {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatCBOR:
		return cborDec.Unmarshal(data, v)
	default:
		return fmt.Errorf("save: unknown format %q", f)
	}
}
