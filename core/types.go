package core

import "strings"

// TypeTag is the closed set of scalar column types the service declares.
// Unrecognized wire names map to TypeUnknown, whose coercion is "treat as
// string" - adding wire types later stays a non-breaking change.
type TypeTag int

const (
	TypeUnknown TypeTag = iota
	TypeBool
	TypeInt32
	TypeInt64
	TypeReal
	TypeDecimal
	TypeString
	TypeDateTime
	TypeTimespan
	TypeGUID
	TypeDynamic
)

func (t TypeTag) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int"
	case TypeInt64:
		return "long"
	case TypeReal:
		return "real"
	case TypeDecimal:
		return "decimal"
	case TypeString:
		return "string"
	case TypeDateTime:
		return "datetime"
	case TypeTimespan:
		return "timespan"
	case TypeGUID:
		return "guid"
	case TypeDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ParseTypeTag maps a wire type name to its tag. Both the service's own
// scalar names and the CLR names of v1 management responses are accepted.
func ParseTypeTag(name string) TypeTag {
	switch strings.ToLower(name) {
	case "bool", "boolean":
		return TypeBool
	case "int", "int32":
		return TypeInt32
	case "long", "int64":
		return TypeInt64
	case "real", "double", "single", "float":
		return TypeReal
	case "decimal", "sqldecimal":
		return TypeDecimal
	case "string":
		return TypeString
	case "datetime", "date":
		return TypeDateTime
	case "timespan", "time":
		return TypeTimespan
	case "guid", "uuid", "uniqueid":
		return TypeGUID
	case "dynamic", "object":
		return TypeDynamic
	default:
		return TypeUnknown
	}
}

// Kind is the semantic role of a table within a dataset.
type Kind int

const (
	KindUnknown Kind = iota
	KindPrimaryResult
	KindQueryProperties
	KindQueryCompletionInformation
	KindTableOfContents
	KindQueryResult
)

func (k Kind) String() string {
	switch k {
	case KindPrimaryResult:
		return "PrimaryResult"
	case KindQueryProperties:
		return "QueryProperties"
	case KindQueryCompletionInformation:
		return "QueryCompletionInformation"
	case KindTableOfContents:
		return "TableOfContents"
	case KindQueryResult:
		return "QueryResult"
	default:
		return "Unknown"
	}
}

// KindFromName resolves the kind string a v2 frame declares.
func KindFromName(name string) Kind {
	switch name {
	case "PrimaryResult":
		return KindPrimaryResult
	case "QueryProperties":
		return KindQueryProperties
	case "QueryCompletionInformation":
		return KindQueryCompletionInformation
	case "TableOfContents":
		return KindTableOfContents
	case "QueryResult":
		return KindQueryResult
	default:
		return KindUnknown
	}
}

// Column is one typed result column. WireType keeps the name as it
// appeared on the wire, which is all we know for TypeUnknown.
type Column struct {
	Name     string
	Type     TypeTag
	WireType string
}
