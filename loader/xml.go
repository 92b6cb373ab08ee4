package loader

import (
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"

	"ippvm/ipp"
)

// xmlProgram/xmlInstruction/xmlArgument mirror the wire shape of an
// IPPcode19 XML source file, grounded on original_source's XMLParser,
// which walks the same <program><instruction><argN> tree with
// ElementTree rather than a struct-tagged decoder.
type xmlProgram struct {
	XMLName  xml.Name
	Language string          `xml:"language,attr"`
	Instrs   []xmlInstruction `xml:"instruction"`
}

type xmlInstruction struct {
	Order   string       `xml:"order,attr"`
	Opcode  string       `xml:"opcode,attr"`
	Args    []xmlArgument `xml:",any"`
	Text    string       `xml:",chardata"`
}

type xmlArgument struct {
	XMLName  xml.Name
	Type     string `xml:"type,attr"`
	Value    string `xml:",chardata"`
	Children []struct {
		XMLName xml.Name
	} `xml:",any"`
}

// LoadXML decodes r into a Program, validating structure the way
// original_source's XMLParser.setup/checkInstructionNode/
// checkArgumentNode do: only a malformed (not well-formed) XML document
// is error 31; everything else wrong with the tree's shape -- a root
// element other than <program>, a missing or wrong language attribute,
// bad order numbers, unknown argument tag names, unknown argument types,
// non-sequential arg indices -- is error 32, since the document parses
// fine as XML but not as a valid IPPcode19 program.
func LoadXML(r io.Reader) (*ipp.Program, error) {
	var doc xmlProgram
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, ipp.NewErrorf(ipp.CodeXML, "malformed XML: %v", err)
	}
	if doc.XMLName.Local != "program" {
		return nil, ipp.NewError(ipp.CodeLexical, "root element must be <program>")
	}
	if !strings.EqualFold(doc.Language, "ippcode19") {
		return nil, ipp.NewErrorf(ipp.CodeLexical, "missing or unsupported language %q", doc.Language)
	}

	instrs := make([]ipp.Instruction, 0, len(doc.Instrs))
	for _, xi := range doc.Instrs {
		instr, err := decodeXMLInstruction(xi)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}

	sort.Slice(instrs, func(i, j int) bool { return instrs[i].Order < instrs[j].Order })
	if err := ipp.ValidateOrder(instrs); err != nil {
		return nil, err
	}
	return &ipp.Program{Instructions: instrs}, nil
}

func decodeXMLInstruction(xi xmlInstruction) (ipp.Instruction, error) {
	order, err := strconv.Atoi(xi.Order)
	if err != nil || order <= 0 {
		return ipp.Instruction{}, ipp.NewErrorf(ipp.CodeLexical, "invalid instruction order %q", xi.Order)
	}
	if xi.Opcode != strings.ToUpper(xi.Opcode) {
		return ipp.Instruction{}, ipp.NewErrorf(ipp.CodeLexical, "opcode %q is not uppercase", xi.Opcode)
	}
	opcode := ipp.Opcode(xi.Opcode)
	if !ipp.IsKnownOpcode(opcode) {
		return ipp.Instruction{}, ipp.NewErrorf(ipp.CodeLexical, "unknown opcode %q", xi.Opcode)
	}
	if strings.TrimSpace(xi.Text) != "" {
		return ipp.Instruction{}, ipp.NewErrorf(ipp.CodeLexical, "unexpected text inside instruction %d", order)
	}

	type indexed struct {
		idx int
		arg ipp.Argument
	}
	ordered := make([]indexed, 0, len(xi.Args))
	for _, xa := range xi.Args {
		name := strings.ToLower(xa.XMLName.Local)
		if !strings.HasPrefix(name, "arg") {
			return ipp.Instruction{}, ipp.NewErrorf(ipp.CodeLexical, "unexpected element %q inside instruction", xa.XMLName.Local)
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(name, "arg"))
		if err != nil || idx <= 0 {
			return ipp.Instruction{}, ipp.NewErrorf(ipp.CodeLexical, "invalid argument element %q", xa.XMLName.Local)
		}
		arg, err := decodeXMLArgument(xa)
		if err != nil {
			return ipp.Instruction{}, err
		}
		ordered = append(ordered, indexed{idx: idx, arg: arg})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].idx < ordered[j].idx })
	for i, oa := range ordered {
		if oa.idx != i+1 {
			return ipp.Instruction{}, ipp.NewErrorf(ipp.CodeLexical, "non-sequential argument indices in instruction %d", order)
		}
	}
	args := make([]ipp.Argument, len(ordered))
	for i, oa := range ordered {
		args[i] = oa.arg
	}
	return ipp.Instruction{Order: order, Opcode: opcode, Args: args}, nil
}

func decodeXMLArgument(xa xmlArgument) (ipp.Argument, error) {
	if len(xa.Children) > 0 {
		return ipp.Argument{}, ipp.NewErrorf(ipp.CodeLexical, "argument %q must not contain child elements", xa.XMLName.Local)
	}
	if xa.Type != strings.ToLower(xa.Type) {
		return ipp.Argument{}, ipp.NewErrorf(ipp.CodeLexical, "argument type %q is not lowercase", xa.Type)
	}
	value := strings.TrimSpace(xa.Value)
	switch strings.ToLower(xa.Type) {
	case "var":
		addr, err := ipp.ParseAddress(value)
		if err != nil {
			return ipp.Argument{}, err
		}
		return ipp.AddressArg(addr), nil
	case "label":
		return ipp.LabelArg(value), nil
	case "type":
		k, err := parseTypeName(value)
		if err != nil {
			return ipp.Argument{}, err
		}
		return ipp.TypeArg(k), nil
	case "int":
		v, err := ipp.ParseIntLiteral(value)
		if err != nil {
			return ipp.Argument{}, err
		}
		return ipp.ValueArg(v), nil
	case "float":
		v, err := ipp.ParseFloatLiteral(value)
		if err != nil {
			return ipp.Argument{}, err
		}
		return ipp.ValueArg(v), nil
	case "bool":
		v, err := ipp.ParseBoolLiteral(value)
		if err != nil {
			return ipp.Argument{}, err
		}
		return ipp.ValueArg(v), nil
	case "string":
		return ipp.ValueArg(ipp.ParseStringLiteral(value)), nil
	case "nil":
		return ipp.ValueArg(ipp.NilValue()), nil
	default:
		return ipp.Argument{}, ipp.NewErrorf(ipp.CodeLexical, "unknown argument type %q", xa.Type)
	}
}

func parseTypeName(s string) (ipp.Kind, error) {
	switch strings.ToLower(s) {
	case "int":
		return ipp.Int, nil
	case "float":
		return ipp.Float, nil
	case "bool":
		return ipp.Bool, nil
	case "string":
		return ipp.String, nil
	case "nil":
		return ipp.Nil, nil
	default:
		return 0, ipp.NewErrorf(ipp.CodeLexical, "unknown type name %q", s)
	}
}
