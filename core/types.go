package core

type SchemaType int

const (
	SchemaFul SchemaType = iota
	SchemaLess
)

type (
	// FormatterOptions provide various options for formatters
	FormatterOptions struct {
		SchemaType SchemaType
		ChunkStart int
	}

	// Formatter converts header and rows to bytes
	Formatter interface {
		Format(header Header, rows []Row, opts *FormatterOptions) ([]byte, error)
	}
)

type (
	// Row and Header are attributes of the ResultStream iterator.
	// A Row holds column values in the order the engine returned them and
	// Header holds the matching column names. All rows of one stream share
	// the same header.
	Row    []any
	Header []string

	// Meta holds metadata
	Meta struct {
		// type of schema (schemaful or schemaless)
		SchemaType SchemaType
	}

	// ResultStream is a result from an executed query in form of a lazy,
	// forward-only iterator. It is not restartable and it surfaces rows in
	// the exact order the engine produced them.
	ResultStream interface {
		Meta() *Meta
		Header() Header
		Next() (Row, error)
		HasNext() bool
		Close()
	}
)

// Column describes a single column of a table.
type Column struct {
	Name string
	Type string
}

// TableOptions select a table within a schema.
type TableOptions struct {
	Table           string
	Schema          string
	Materialization StructureType
}
